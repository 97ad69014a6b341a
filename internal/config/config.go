// Package config provides run configuration for the CLI and the per-source
// extraction rules (field selectors, regular expressions, label and
// abbreviation tables) consumed by the extractors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Output formats understood by the CLI.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// DefaultWorkers is the number of pages extracted concurrently by a batch run.
const DefaultWorkers = 4

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Source
	Source          string `json:"source,omitempty"`      // Built-in source name (ka, hs) or path to a source YAML file
	Pages           string `json:"pages,omitempty"`       // Directory of stored raw pages
	Out             string `json:"out,omitempty"`         // Directory extracted records are written to
	Store           string `json:"store,omitempty"`       // Directory captured pages are saved to
	Format          string `json:"format,omitempty"`      // Output format: json or text
	Workers         int    `json:"workers,omitempty"`     // Concurrent extractions in batch runs
	Timeout         string `json:"timeout,omitempty"`     // Fetch timeout, e.g. "30s"
	UseBrowser      bool   `json:"use_browser,omitempty"` // Render job pages in a headless browser
	ValidateRecords bool   `json:"validate,omitempty"`    // Validate records after extraction
	Verbose         bool   `json:"verbose,omitempty"`     // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}

	switch c.Format {
	case "", FormatJSON, FormatText:
	default:
		return fmt.Errorf("config error: unknown format %q (want %s or %s)", c.Format, FormatJSON, FormatText)
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("config error: invalid timeout %q: %w", c.Timeout, err)
		}
	}

	if c.Pages != "" {
		if info, err := os.Stat(c.Pages); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: pages directory not found: %s", c.Pages)
		}
	}

	return nil
}

// TimeoutDuration returns the configured timeout, or fallback when unset.
func (c *Config) TimeoutDuration(fallback time.Duration) time.Duration {
	if c.Timeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fallback
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Source == "" {
		result.Source = defaults.Source
	}
	if result.Pages == "" {
		result.Pages = defaults.Pages
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.Format == "" {
		if defaults.Format != "" {
			result.Format = defaults.Format
		} else {
			result.Format = FormatJSON
		}
	}
	if result.Timeout == "" {
		result.Timeout = defaults.Timeout
	}

	// Int fields: use default if zero
	if result.Workers == 0 {
		if defaults.Workers > 0 {
			result.Workers = defaults.Workers
		} else {
			result.Workers = DefaultWorkers
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
