package validation

import (
	"strconv"
	"strings"
	"time"
)

// composedLayout is the intermediate form partial extracts are joined into.
const composedLayout = "02-01-2006 15:04"

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// MonthNumber converts a three-letter month name (any case) to 1-12.
func MonthNumber(name string) (int, bool) {
	n, ok := monthNumbers[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// ExpandYear turns a two-digit year into a four-digit one in the 2000s.
func ExpandYear(yy string) (string, bool) {
	if len(yy) != 2 || digitsOnly(yy) != yy {
		return "", false
	}
	n, err := strconv.Atoi(yy)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(2000 + n), true
}

// ComposeTime joins separately extracted date and time parts into a
// timestamp. Parts must already be zero-padded digits (dd, mm, yyyy, HH, MM);
// anything else, including impossible dates, yields false.
func ComposeTime(day, month, year, hour, minute string) (*time.Time, bool) {
	composed := day + "-" + month + "-" + year + " " + hour + ":" + minute
	if len(composed) != len(composedLayout) {
		return nil, false
	}
	return ParseLayout(composedLayout, composed)
}

// ParseLayout parses raw with a Go time layout, returning false on mismatch.
func ParseLayout(layout, raw string) (*time.Time, bool) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return nil, false
	}
	return &t, true
}
