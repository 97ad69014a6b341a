package ingestion

import (
	"regexp"
	"strings"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v]+`)
	anySpace    = regexp.MustCompile(`\s+`)
	blankRun    = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes captured multi-line text while keeping its lines:
// line endings become LF, non-breaking spaces become spaces, runs of spaces
// inside a line collapse to one and lines are trimmed. At most one blank line
// is kept between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = NormalizeLineEndings(content)
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inline whitespace and trims both ends.
func cleanLine(line string) string {
	return strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
}

// CleanCell flattens a table cell to a single trimmed line.
func CleanCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(anySpace.ReplaceAllString(s, " "))
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
