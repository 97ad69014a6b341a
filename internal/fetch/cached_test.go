package fetch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hsPage = `<html><body>
<table><tr><th>Reference</th><td>HSS103120</td></tr></table>
</body></html>`

// stubFetcher serves fixed HTML and counts calls.
type stubFetcher struct {
	html  string
	err   error
	calls int
}

func (s *stubFetcher) FetchHTML(context.Context, string) (string, error) {
	s.calls++
	return s.html, s.err
}

func hsSource(t *testing.T) *config.Source {
	t.Helper()
	src, err := config.LoadSource("hs")
	require.NoError(t, err)
	return src
}

func TestDefaultCachedFetcherConfig(t *testing.T) {
	cfg := DefaultCachedFetcherConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultPageCacheTTL, cfg.CacheTTL)
	assert.False(t, cfg.SkipCache)
	assert.IsType(t, &HTTPFetcher{}, cfg.Fetcher)
}

func TestNewCachedFetcher_EmptyConfig(t *testing.T) {
	fetcher := NewCachedFetcher(nil, hsSource(t), &CachedFetcherConfig{})

	require.NotNil(t, fetcher)
	assert.Equal(t, DefaultPageCacheTTL, fetcher.cacheTTL)
	assert.NotNil(t, fetcher.fetcher)
}

func TestCachedFetcher_StoresAndReuses(t *testing.T) {
	store := ingestion.NewPageStore(filepath.Join(t.TempDir(), "pages"))
	stub := &stubFetcher{html: hsPage}
	fetcher := NewCachedFetcher(store, hsSource(t), &CachedFetcherConfig{Fetcher: stub})

	const url = "https://www.housesimple.com/admin/home-visit/1"

	first, err := fetcher.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, store.PathFor(url), first.Path)

	fragment, err := first.Page.Table(config.TableData)
	require.NoError(t, err)
	assert.Contains(t, fragment, "HSS103120")

	second, err := fetcher.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Page.Hash, second.Page.Hash)
	assert.Equal(t, 1, stub.calls)

	require.NoError(t, fetcher.InvalidateCache(url))
	third, err := fetcher.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, 2, stub.calls)
}

func TestCachedFetcher_SkipCache(t *testing.T) {
	store := ingestion.NewPageStore(t.TempDir())
	stub := &stubFetcher{html: hsPage}
	fetcher := NewCachedFetcher(store, hsSource(t), &CachedFetcherConfig{Fetcher: stub, SkipCache: true})

	for i := 0; i < 2; i++ {
		res, err := fetcher.Fetch(context.Background(), "https://www.housesimple.com/a")
		require.NoError(t, err)
		assert.False(t, res.FromCache)
	}
	assert.Equal(t, 2, stub.calls)
}

func TestCachedFetcher_Fallback(t *testing.T) {
	empty := &stubFetcher{html: "<html><body><div id='app'></div></body></html>"}
	rendered := &stubFetcher{html: hsPage}
	fetcher := NewCachedFetcher(nil, hsSource(t), &CachedFetcherConfig{Fetcher: empty, Fallback: rendered})

	res, err := fetcher.Fetch(context.Background(), "https://www.housesimple.com/a")
	require.NoError(t, err)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 1, rendered.calls)
	assert.False(t, NeedsBrowser(res.Page))
	assert.Empty(t, res.Path)
}

func TestCachedFetcher_FetchMultiple(t *testing.T) {
	boom := errors.New("boom")
	fetcher := NewCachedFetcher(nil, hsSource(t), &CachedFetcherConfig{Fetcher: &stubFetcher{err: boom}})

	results, errs := fetcher.FetchMultiple(context.Background(), []string{"https://a.example", "https://b.example"})
	require.Len(t, results, 2)
	require.Len(t, errs, 2)
	for i := range results {
		assert.Nil(t, results[i])
		assert.ErrorIs(t, errs[i], boom)
	}
}

func TestNeedsBrowser(t *testing.T) {
	page := ingestion.NewRawPage("hs", "")
	assert.True(t, NeedsBrowser(page))

	page.Tables[config.TableData] = "<table></table>"
	assert.False(t, NeedsBrowser(page))
}
