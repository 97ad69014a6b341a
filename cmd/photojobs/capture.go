package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/fetch"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Fetch a job page and store its fields for later extraction",
	Long: `Fetches a job page, projects it through the source's selectors and saves the raw page to --store.

Without --source the source is detected from the URL's host. Pages that come back with none of the
source's fields are retried in a headless browser; --browser renders every page in the browser.
A page stored within --ttl is reused unless --refresh is given.`,
	RunE: runCapture,
}

var (
	captureSource  string
	captureURL     string
	captureStore   string
	captureTimeout string
	captureTTL     time.Duration
	captureBrowser bool
	captureRefresh bool
	captureVerbose bool
)

func init() {
	captureCmd.Flags().StringVarP(&captureSource, "source", "s", "", "Source name (ka, hs) or path to a source YAML file")
	captureCmd.Flags().StringVarP(&captureURL, "url", "u", "", "Job page URL (required)")
	captureCmd.Flags().StringVar(&captureStore, "store", "", "Directory to save captured pages to")
	captureCmd.Flags().StringVar(&captureTimeout, "timeout", "", "Fetch timeout, e.g. 30s")
	captureCmd.Flags().DurationVar(&captureTTL, "ttl", fetch.DefaultPageCacheTTL, "Reuse a stored page younger than this")
	captureCmd.Flags().BoolVar(&captureBrowser, "browser", false, "Render the page in a headless browser (requires Chrome)")
	captureCmd.Flags().BoolVar(&captureRefresh, "refresh", false, "Fetch even if a fresh stored page exists")
	captureCmd.Flags().BoolVarP(&captureVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, _ []string) error {
	if captureURL == "" {
		return fmt.Errorf("--url is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overrides := flagOverrides{
		source:  &captureSource,
		store:   &captureStore,
		timeout: &captureTimeout,
		browser: &captureBrowser,
		verbose: &captureVerbose,
	}
	if err := overrides.apply(cmd, &cfg); err != nil {
		return err
	}

	src, err := captureSourceFor(cfg, captureURL)
	if err != nil {
		return err
	}

	timeout := cfg.TimeoutDuration(fetch.DefaultTimeout)
	browser := &fetch.BrowserFetcher{Timeout: timeout, Verbose: cfg.Verbose}

	fetcherCfg := &fetch.CachedFetcherConfig{
		CacheTTL:  captureTTL,
		SkipCache: captureRefresh,
		Verbose:   cfg.Verbose,
	}
	if cfg.UseBrowser {
		fetcherCfg.Fetcher = browser
	} else {
		opts := fetch.DefaultOptions()
		opts.Timeout = timeout
		fetcherCfg.Fetcher = &fetch.HTTPFetcher{Options: opts}
		fetcherCfg.Fallback = browser
	}

	fetcher := fetch.NewCachedFetcher(ingestion.NewPageStore(cfg.Store), src, fetcherCfg)
	result, err := fetcher.Fetch(context.Background(), captureURL)
	if err != nil {
		return err
	}

	state := "fetched"
	if result.FromCache {
		state = "cached"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Captured %s page (%s, %d fields, %d tables)\n",
		src.Name(), state, len(result.Page.Fields), len(result.Page.Tables))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", result.Path)
	return nil
}

// captureSourceFor uses the configured source, or detects one from the URL.
func captureSourceFor(cfg config.Config, url string) (*config.Source, error) {
	if cfg.Source != "" {
		return resolveSource(cfg)
	}

	sources, err := fetch.BuiltinSources()
	if err != nil {
		return nil, err
	}
	src := fetch.DetectSource(url, sources)
	if src == nil {
		return nil, fmt.Errorf("no built-in source serves %s; pass --source", url)
	}
	return src, nil
}
