package main

import (
	"fmt"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/spf13/cobra"
)

// Defaults applied after the config file and environment. Pages has no
// default since a configured pages directory must exist.
var defaults = config.Config{
	Out:     "out",
	Store:   "pages",
	Timeout: "30s",
}

// loadConfig builds the run configuration from the --config file, falling
// back to PHOTOJOBS_* environment variables and then to defaults. Callers
// apply explicitly set flags on top.
func loadConfig() (config.Config, error) {
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	fallback := env.MergeWithDefaults(defaults)
	return cfg.MergeWithDefaults(fallback), nil
}

// flagOverrides copies every explicitly set flag of cmd onto cfg.
type flagOverrides struct {
	source, pages, out, store, format, timeout *string
	workers                                    *int
	browser, validate, verbose                 *bool
}

func (o flagOverrides) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	set := func(name string, dst *string, src *string) {
		if src != nil && flags.Changed(name) {
			*dst = *src
		}
	}
	setBool := func(name string, dst *bool, src *bool) {
		if src != nil && flags.Changed(name) {
			*dst = *src
		}
	}

	set("source", &cfg.Source, o.source)
	set("pages", &cfg.Pages, o.pages)
	set("out", &cfg.Out, o.out)
	set("store", &cfg.Store, o.store)
	set("format", &cfg.Format, o.format)
	set("timeout", &cfg.Timeout, o.timeout)
	if o.workers != nil && flags.Changed("workers") {
		cfg.Workers = *o.workers
	}
	setBool("browser", &cfg.UseBrowser, o.browser)
	setBool("validate", &cfg.ValidateRecords, o.validate)
	setBool("verbose", &cfg.Verbose, o.verbose)

	if cfg.Workers == 0 {
		cfg.Workers = config.DefaultWorkers
	}
	return cfg.Validate()
}

// resolveSource loads the configured source, which must be set.
func resolveSource(cfg config.Config) (*config.Source, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("--source is required (via flag, config or %s)", config.EnvSource)
	}
	src, err := config.LoadSource(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	return src, nil
}
