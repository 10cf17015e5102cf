package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/flagx"
	"github.com/dmitrijs2005/memorylane/internal/timex"
)

// JsonConfig is the on-disk shape. RequestTimeout accepts "10s" or
// integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	DataDir        string         `json:"data_dir"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogFormat      string         `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c / -config. Missing keys
// keep their current values. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
