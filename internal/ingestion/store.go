package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// pageExt is the extension of stored page files.
const pageExt = ".json"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// PageStore keeps captured pages as one JSON file each in a directory.
type PageStore struct {
	dir string
}

// NewPageStore returns a store rooted at dir. The directory is created on first save.
func NewPageStore(dir string) *PageStore {
	return &PageStore{dir: dir}
}

// Dir returns the store's directory.
func (s *PageStore) Dir() string { return s.dir }

// PathFor returns the file a page called name is stored in.
func (s *PageStore) PathFor(name string) string {
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	if name == "" {
		name = "page"
	}
	return filepath.Join(s.dir, name+pageExt)
}

// Save writes page under name and returns the file path.
func (s *PageStore) Save(name string, page *RawPage) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := page.ToJSON()
	if err != nil {
		return "", err
	}

	p := s.PathFor(name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write page file: %w", err)
	}
	return p, nil
}

// Load reads the page called name.
func (s *PageStore) Load(name string) (*RawPage, error) {
	return ReadPage(s.PathFor(name))
}

// Fresh reports whether the page called name exists and was written within ttl.
// A zero ttl never expires.
func (s *PageStore) Fresh(name string, ttl time.Duration) bool {
	info, err := os.Stat(s.PathFor(name))
	if err != nil {
		return false
	}
	return ttl == 0 || time.Since(info.ModTime()) < ttl
}

// List returns the paths of all stored pages in name order.
func (s *PageStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != pageExt {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadPage reads a page file written by PageStore.Save.
func ReadPage(path string) (*RawPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("page not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	var page RawPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", path, err)
	}
	return &page, nil
}

// Remove deletes the page called name. Removing an absent page is not an error.
func (s *PageStore) Remove(name string) error {
	if err := os.Remove(s.PathFor(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove page: %w", err)
	}
	return nil
}
