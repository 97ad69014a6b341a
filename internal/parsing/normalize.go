package parsing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
)

// FilterNotes turns a free-text notes blob into a sorted list of unique lines.
// Slashes are removed first so "N/A" and "NA" compare equal, then any line
// containing an unwanted marker and any empty line is dropped. Repeated lines
// collapse to one.
func FilterNotes(blob string, unwanted []string) []string {
	lines := strings.Split(strings.ReplaceAll(blob, "/", ""), "\n")

	seen := make(map[string]bool, len(lines))
	notes := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" || seen[line] || containsAny(line, unwanted) {
			continue
		}
		seen[line] = true
		notes = append(notes, line)
	}
	sort.Strings(notes)
	return notes
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Abbreviate applies each replacement to s in order.
func Abbreviate(s string, abbrs []config.Abbreviation) string {
	for _, a := range abbrs {
		s = strings.ReplaceAll(s, a.From, a.To)
	}
	return s
}

// ParseFloorplan reports whether a floorplan flag reads as yes.
func ParseFloorplan(raw string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(raw)), "YES")
}

// capture returns the first group of re's leftmost match in s, trimmed, or ""
// when re is nil or does not match.
func capture(re *regexp.Regexp, s string) string {
	if re == nil {
		return ""
	}
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// field returns the raw text for key, or "" if it is missing or not text.
func field(p *ingestion.RawPage, key string) string {
	v, err := p.Field(key)
	if err != nil {
		return ""
	}
	return v
}
