package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
)

// DefaultPageCacheTTL is how long a captured page is reused before refetching.
const DefaultPageCacheTTL = 24 * time.Hour

// CachedFetcher wraps page fetching with a page store, so repeated captures
// of the same URL read the stored page while it is fresh.
type CachedFetcher struct {
	store     *ingestion.PageStore
	src       *config.Source
	fetcher   Fetcher
	fallback  Fetcher
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
	verbose   bool
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	// Fetcher fetches page HTML. Defaults to an HTTPFetcher.
	Fetcher Fetcher
	// Fallback, if set, is tried when Fetcher returns a page with none of the
	// source's fields (see NeedsBrowser).
	Fallback Fetcher
	Verbose  bool
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultPageCacheTTL,
		Fetcher:  &HTTPFetcher{Options: DefaultOptions()},
	}
}

// NewCachedFetcher creates a new cached fetcher for src's pages.
func NewCachedFetcher(store *ingestion.PageStore, src *config.Source, cfg *CachedFetcherConfig) *CachedFetcher {
	if cfg == nil {
		cfg = DefaultCachedFetcherConfig()
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = &HTTPFetcher{Options: DefaultOptions()}
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultPageCacheTTL
	}
	return &CachedFetcher{
		store:     store,
		src:       src,
		fetcher:   cfg.Fetcher,
		fallback:  cfg.Fallback,
		cacheTTL:  cfg.CacheTTL,
		skipCache: cfg.SkipCache,
		verbose:   cfg.Verbose,
	}
}

// CachedResult is a captured page with cache metadata.
type CachedResult struct {
	Page      *ingestion.RawPage
	Path      string // Store file the page lives in
	FromCache bool   // Whether this result came from the store
}

// Fetch returns the page at urlStr, from the store if it is within the TTL,
// otherwise fetched fresh and saved.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache && f.store != nil && f.store.Fresh(urlStr, f.cacheTTL) {
		page, err := f.store.Load(urlStr)
		if err == nil {
			if f.verbose {
				log.Printf("[CACHE] Using stored page for: %s", urlStr)
			}
			return &CachedResult{Page: page, Path: f.store.PathFor(urlStr), FromCache: true}, nil
		}
		if f.verbose {
			log.Printf("[CACHE] Stored page unreadable, refetching: %v", err)
		}
	}

	page, err := f.fetchPage(ctx, f.fetcher, urlStr)
	if err != nil {
		return nil, err
	}

	if f.fallback != nil && NeedsBrowser(page) {
		if f.verbose {
			log.Printf("[FETCH] No fields found in %s, retrying with fallback fetcher", urlStr)
		}
		page, err = f.fetchPage(ctx, f.fallback, urlStr)
		if err != nil {
			return nil, err
		}
	}

	result := &CachedResult{Page: page}
	if f.store != nil {
		path, err := f.store.Save(urlStr, page)
		if err != nil {
			return nil, fmt.Errorf("failed to store page: %w", err)
		}
		result.Path = path
	}
	return result, nil
}

func (f *CachedFetcher) fetchPage(ctx context.Context, fetcher Fetcher, urlStr string) (*ingestion.RawPage, error) {
	html, err := fetcher.FetchHTML(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	page, err := ingestion.PageFromHTML(f.src, urlStr, html)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read page", Cause: err}
	}
	return page, nil
}

// FetchMultiple fetches multiple URLs with caching.
// Returns results in the same order as input URLs. Failed fetches are nil in the result slice.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errs := make([]error, len(urls))

	for i, url := range urls {
		result, err := f.Fetch(ctx, url)
		if err != nil {
			errs[i] = err
		} else {
			results[i] = result
		}
	}

	return results, errs
}

// InvalidateCache removes the stored copy of urlStr, forcing a re-fetch on next request.
func (f *CachedFetcher) InvalidateCache(urlStr string) error {
	if f.store == nil {
		return nil
	}
	return f.store.Remove(urlStr)
}
