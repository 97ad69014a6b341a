package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is an HTML table flattened to rows of cleaned cell text.
type Table struct {
	Rows [][]string
}

// ParseTables returns every table in an HTML fragment, in document order.
// A fragment with no tables yields an empty slice and no error.
func ParseTables(fragment string) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		// nested tables are flattened separately
		if t.ParentsFiltered("table").Length() > 0 {
			return
		}
		var tbl Table
		t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if !tr.Closest("table").IsSelection(t) {
				return
			}
			var row []string
			tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, CleanCell(cell.Text()))
			})
			if len(row) > 0 {
				tbl.Rows = append(tbl.Rows, row)
			}
		})
		tables = append(tables, tbl)
	})
	return tables, nil
}

// Header returns the first row, used as column names.
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Records maps every row after the header to its column names. Cells beyond
// the header width are dropped; short rows leave trailing columns empty.
func (t Table) Records() []map[string]string {
	header := t.Header()
	if len(header) == 0 {
		return nil
	}
	records := make([]map[string]string, 0, len(t.Rows)-1)
	for _, row := range t.Rows[1:] {
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

// HasColumns reports whether the header contains every named column.
func (t Table) HasColumns(cols ...string) bool {
	have := make(map[string]bool, len(t.Header()))
	for _, h := range t.Header() {
		have[h] = true
	}
	for _, c := range cols {
		if !have[c] {
			return false
		}
	}
	return true
}

// Transpose treats each table as label/value rows and merges them into one
// record keyed by label. The first occurrence of a label wins. Rows with a
// single cell map their label to "".
func Transpose(tables []Table) map[string]string {
	out := make(map[string]string)
	for _, t := range tables {
		for _, row := range t.Rows {
			label := row[0]
			if label == "" {
				continue
			}
			if _, seen := out[label]; seen {
				continue
			}
			value := ""
			if len(row) > 1 {
				value = row[1]
			}
			out[label] = value
		}
	}
	return out
}
