package validation

import (
	"regexp"
	"strings"
)

// TelTemplate pairs a display format with the exact digit pattern it formats.
// Every non-space character of Format stands for one digit.
type TelTemplate struct {
	Format  string
	Pattern *regexp.Regexp
}

func tel(format, pattern string) TelTemplate {
	return TelTemplate{Format: format, Pattern: regexp.MustCompile(pattern)}
}

// mixedExchanges are the six-digit area codes (Cumbria, the Lake District and
// the Borders) whose local numbers are four or five digits long.
const mixedExchanges = `(?:013873|015242|01539[456]|01697[347]|01768[347]|019467)`

// TelTemplates is the UK numbering table. FormatTel keeps the last matching
// entry, so narrower patterns are listed after the ranges they overlap.
var TelTemplates = []TelTemplate{
	tel("01### ### ###", `^01\d{9}$`),
	tel("01### #####", `^01\d{8}$`),
	tel("02# #### ####", `^02\d{9}$`),
	tel("03## ### ####", `^03\d{9}$`),
	tel("05## ### ####", `^05\d{9}$`),
	tel("07### ### ###", `^07\d{9}$`),
	tel("08## ### ####", `^08\d{9}$`),
	tel("0800 ######", `^0800\d{6}$`),
	tel("09## ### ####", `^09\d{9}$`),
	tel("011# ### ####", `^011\d{8}$`),
	tel("01#1 ### ####", `^01\d1\d{7}$`),
	tel("0##### ####", `^`+mixedExchanges+`\d{4}$`),
	tel("0##### #####", `^`+mixedExchanges+`\d{5}$`),
}

// FormatTel reduces raw to its digits and lays them out using the UK
// numbering table. It reports false if no template fits.
func FormatTel(raw string) (string, bool) {
	digits := digitsOnly(raw)
	if digits == "" {
		return "", false
	}

	var match *TelTemplate
	for i := range TelTemplates {
		if TelTemplates[i].Pattern.MatchString(digits) {
			match = &TelTemplates[i]
		}
	}
	if match == nil {
		return "", false
	}

	return applyTemplate(match.Format, digits)
}

// applyTemplate consumes one digit per non-space template character.
func applyTemplate(format, digits string) (string, bool) {
	var sb strings.Builder
	queue := []rune(digits)
	for _, c := range format {
		if c == ' ' {
			sb.WriteRune(' ')
			continue
		}
		if len(queue) == 0 {
			return "", false
		}
		sb.WriteRune(queue[0])
		queue = queue[1:]
	}
	if len(queue) != 0 {
		return "", false
	}
	return strings.TrimSpace(sb.String()), true
}

// IsFormattedTel reports whether s is already in canonical form.
func IsFormattedTel(s string) bool {
	formatted, ok := FormatTel(s)
	return ok && formatted == s
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
