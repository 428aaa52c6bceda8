// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config carries the process configuration. PORT defaults to 4000;
// IS_TEST_MODE disables the persistence boundary entirely.
type Config struct {
	Port     int
	DiagAddr string
	DataFile string
	TestMode bool
}

// FromEnv builds the config from environment variables, falling back
// to defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		Port:     4000,
		DiagAddr: ":9999",
		DataFile: "data/store.json",
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("DIAG_ADDR"); v != "" {
		cfg.DiagAddr = v
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	cfg.TestMode = os.Getenv("IS_TEST_MODE") != ""

	return cfg
}

// Addr is the listen address for the API server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
