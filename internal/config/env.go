package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by FromEnv. A .env file is loaded by the CLI
// before these are consulted.
const (
	EnvSource  = "PHOTOJOBS_SOURCE"
	EnvPages   = "PHOTOJOBS_PAGES"
	EnvOut     = "PHOTOJOBS_OUT"
	EnvStore   = "PHOTOJOBS_STORE"
	EnvWorkers = "PHOTOJOBS_WORKERS"
	EnvTimeout = "PHOTOJOBS_TIMEOUT"
)

// FromEnv builds a Config from PHOTOJOBS_* environment variables.
// Unset variables leave the corresponding field empty.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Source:  os.Getenv(EnvSource),
		Pages:   os.Getenv(EnvPages),
		Out:     os.Getenv(EnvOut),
		Store:   os.Getenv(EnvStore),
		Timeout: os.Getenv(EnvTimeout),
	}

	if workers := os.Getenv(EnvWorkers); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", EnvWorkers, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s must be non-negative, got %d", EnvWorkers, n)
		}
		cfg.Workers = n
	}

	return cfg, nil
}
