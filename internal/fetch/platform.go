package fetch

import (
	"net/url"
	"strings"

	"github.com/jonathan/property-jobs/internal/config"
)

// DetectSource returns the source whose hosts serve urlStr, or nil if none
// does. Subdomains of a configured host match.
func DetectSource(urlStr string, sources []*config.Source) *config.Source {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return nil
	}

	for _, src := range sources {
		for _, h := range src.Hosts() {
			h = strings.ToLower(h)
			if host == h || strings.HasSuffix(host, "."+h) {
				return src
			}
		}
	}
	return nil
}

// BuiltinSources loads every embedded source.
func BuiltinSources() ([]*config.Source, error) {
	names := config.BuiltinSourceNames()
	sources := make([]*config.Source, 0, len(names))
	for _, name := range names {
		src, err := config.LoadSource(name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
