package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/flagx"
)

// parseFlags overlays cfg with the short flags this package knows about.
// Unknown arguments are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the memorylane service")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for local state")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format (json or zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
