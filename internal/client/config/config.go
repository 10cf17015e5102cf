// Package config loads runtime configuration for the Memorylane CLI.
//
// Sources, in increasing precedence: built-in defaults, an optional JSON
// file selected with -c or -config, then command-line flags.
//
//	-a string   base URL of the Memorylane HTTP service
//	-d string   directory holding the local state database
//	-t int      request timeout (seconds)
//	-l string   log format: json or zap
//
// JSON keys mirror the field names:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "data_dir": ".memorylane",
//	  "request_timeout": "10s",
//	  "log_format": "json"
//	}
package config

import "time"

// StateFileName is the SQLite file created inside DataDir.
const StateFileName = "state.db"

type Config struct {
	ServerURL      string
	DataDir        string
	RequestTimeout time.Duration
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DataDir = ".memorylane"
	c.RequestTimeout = 10 * time.Second
	c.LogFormat = "json"
}

// LoadConfig applies defaults, then JSON, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
