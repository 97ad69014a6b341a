package parsing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/stretchr/testify/require"
)

// loadPage renders a fixture page through the built-in source's selectors.
func loadPage(t *testing.T, source, fixture string) (Extractor, *ingestion.RawPage) {
	t.Helper()

	src, err := config.LoadSource(source)
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join("testdata", fixture))
	require.NoError(t, err)

	page, err := ingestion.PageFromHTML(src, "https://portal.example/"+fixture, string(html))
	require.NoError(t, err)

	ex, err := New(src)
	require.NoError(t, err)
	return ex, page
}
