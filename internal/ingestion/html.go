package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/property-jobs/internal/config"
)

// PageFromHTML projects a rendered job page onto src's field and table
// selectors. Selectors that match nothing leave their key absent so the
// extractors see a missing field.
func PageFromHTML(src *config.Source, url, html string) (*RawPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := NewRawPage(src.Name(), url)

	for key, selector := range src.Fields() {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		page.Fields[key] = CleanText(elementText(sel))
	}

	for key, selector := range src.Tables() {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		var b strings.Builder
		var outerErr error
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			fragment, err := goquery.OuterHtml(s)
			if err != nil {
				outerErr = err
				return false
			}
			b.WriteString(fragment)
			return true
		})
		if outerErr != nil {
			return nil, fmt.Errorf("failed to render table %q: %w", key, outerErr)
		}
		page.Tables[key] = b.String()
	}

	page.Seal()
	return page, nil
}

// elementText returns the visible text of an element. Form controls report
// their value and line breaks become newlines.
func elementText(sel *goquery.Selection) string {
	switch goquery.NodeName(sel) {
	case "input":
		v, _ := sel.Attr("value")
		return v
	case "textarea":
		return sel.Text()
	}

	clone := sel.Clone()
	clone.Find("br").ReplaceWithHtml("\n")
	return clone.Text()
}
