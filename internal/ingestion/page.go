// Package ingestion models the raw data captured from a job page (named text
// fields and HTML table fragments) and turns HTML into that model.
package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrMissingField is returned when a page has no value for a field or table.
	ErrMissingField = errors.New("missing field")
	// ErrTypeMismatch is returned when a stored value is not a string.
	ErrTypeMismatch = errors.New("value is not a string")
)

// RawPage is everything captured from one job page, keyed by the logical
// field and table names of the page's source.
type RawPage struct {
	Source     string            `json:"source"`
	URL        string            `json:"url,omitempty"`
	CapturedAt string            `json:"captured_at,omitempty"` // RFC3339 format
	Hash       string            `json:"hash,omitempty"`        // SHA256 hex digest of fields and tables
	Fields     map[string]string `json:"fields"`
	Tables     map[string]string `json:"tables"`

	mistyped map[string]bool
}

// NewRawPage creates an empty page for source.
func NewRawPage(source, url string) *RawPage {
	return &RawPage{
		Source:     source,
		URL:        url,
		CapturedAt: time.Now().UTC().Format(time.RFC3339),
		Fields:     map[string]string{},
		Tables:     map[string]string{},
	}
}

// Field returns the raw text captured for key.
func (p *RawPage) Field(key string) (string, error) {
	if p.mistyped[fieldKey(key)] {
		return "", fmt.Errorf("field %q: %w", key, ErrTypeMismatch)
	}
	v, ok := p.Fields[key]
	if !ok {
		return "", fmt.Errorf("field %q: %w", key, ErrMissingField)
	}
	return v, nil
}

// Table returns the HTML fragment captured for key.
func (p *RawPage) Table(key string) (string, error) {
	if p.mistyped[tableKey(key)] {
		return "", fmt.Errorf("table %q: %w", key, ErrTypeMismatch)
	}
	v, ok := p.Tables[key]
	if !ok {
		return "", fmt.Errorf("table %q: %w", key, ErrMissingField)
	}
	return v, nil
}

// Seal records the content hash of the page.
func (p *RawPage) Seal() {
	p.Hash = computeHash(p.Fields, p.Tables)
}

// computeHash hashes fields and tables in key order so equal pages hash equally.
func computeHash(fields, tables map[string]string) string {
	h := sha256.New()
	for _, m := range []map[string]string{fields, tables} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.Write([]byte(k))
			h.Write([]byte{0})
			h.Write([]byte(m[k]))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func fieldKey(k string) string { return "f:" + k }
func tableKey(k string) string { return "t:" + k }

// rawPageJSON mirrors RawPage with loosely typed values so stored pages with
// non-string values still load.
type rawPageJSON struct {
	Source     string         `json:"source"`
	URL        string         `json:"url,omitempty"`
	CapturedAt string         `json:"captured_at,omitempty"`
	Hash       string         `json:"hash,omitempty"`
	Fields     map[string]any `json:"fields"`
	Tables     map[string]any `json:"tables"`
}

// UnmarshalJSON accepts any JSON value per field. Non-string values are kept
// out of Fields/Tables and reported as ErrTypeMismatch on access; null is
// treated as missing.
func (p *RawPage) UnmarshalJSON(data []byte) error {
	var raw rawPageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = RawPage{
		Source:     raw.Source,
		URL:        raw.URL,
		CapturedAt: raw.CapturedAt,
		Hash:       raw.Hash,
		Fields:     make(map[string]string, len(raw.Fields)),
		Tables:     make(map[string]string, len(raw.Tables)),
	}

	load := func(src map[string]any, dst map[string]string, key func(string) string) {
		for k, v := range src {
			switch s := v.(type) {
			case string:
				dst[k] = s
			case nil:
			default:
				if p.mistyped == nil {
					p.mistyped = map[string]bool{}
				}
				p.mistyped[key(k)] = true
			}
		}
	}
	load(raw.Fields, p.Fields, fieldKey)
	load(raw.Tables, p.Tables, tableKey)

	return nil
}

// ToJSON marshals the page to pretty-printed JSON
func (p *RawPage) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page to JSON: %w", err)
	}
	return jsonBytes, nil
}
