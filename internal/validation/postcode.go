// Package validation normalises raw portal values (postcodes, phone numbers,
// appointment times) into canonical form and checks finished job records.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/property-jobs/internal/types"
)

// PostcodePattern is the mainland-UK postcode grammar.
const PostcodePattern = `[A-Z]{1,2}[0-9R][0-9A-Z]? [0-9][A-Z]{2}`

var (
	postcodeFull   = regexp.MustCompile(`^` + PostcodePattern + `$`)
	postcodeSearch = regexp.MustCompile(PostcodePattern)
)

// placeholders are tokens the portals use for "no value" inside addresses.
var placeholders = []string{"N/A"}

// ValidatePostcode uppercases raw and reports whether the whole of it is a
// mainland-UK postcode. The canonical form is returned on success.
func ValidatePostcode(raw string) (string, bool) {
	pc := strings.ToUpper(strings.TrimSpace(raw))
	if !postcodeFull.MatchString(pc) {
		return "", false
	}
	return pc, true
}

// NewPostalAddress builds an address, dropping the postcode if it is invalid.
func NewPostalAddress(street, postcode string) types.PostalAddress {
	pc, _ := ValidatePostcode(postcode)
	return types.PostalAddress{Street: street, Postcode: pc}
}

// SplitAddress separates a free-text address into street and postcode.
// The first postcode found anywhere in raw is removed along with any
// placeholder tokens; the remainder, trimmed of whitespace and commas at
// both ends, is the street.
func SplitAddress(raw string) types.PostalAddress {
	postcode := postcodeSearch.FindString(raw)

	street := raw
	if postcode != "" {
		street = strings.ReplaceAll(street, postcode, "")
	}
	for _, p := range placeholders {
		street = strings.ReplaceAll(street, p, "")
	}

	return NewPostalAddress(trimStreet(street), postcode)
}

// trimStreet trims whitespace and runs of commas (",," is common) from both ends.
func trimStreet(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
