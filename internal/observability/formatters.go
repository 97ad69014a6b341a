// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/property-jobs/internal/parsing"
	"github.com/jonathan/property-jobs/internal/pipeline"
	"github.com/jonathan/property-jobs/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintJobRecord outputs a short summary of an extracted job.
func (p *Printer) PrintJobRecord(rec *types.JobRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ID:        %s\n", rec.ID))
	sb.WriteString(fmt.Sprintf("Client:    %s\n", rec.Client.Name))
	if rec.Agent.Name != "" {
		sb.WriteString(fmt.Sprintf("Agent:     %s\n", rec.Agent.Name))
	}
	sb.WriteString(fmt.Sprintf("Vendor:    %s\n", rec.Vendor))
	sb.WriteString(fmt.Sprintf("When:      %s\n", rec.Appointment))
	if !rec.Appointment.Address.IsZero() {
		sb.WriteString(fmt.Sprintf("Where:     %s\n", rec.Appointment.Address))
	}
	sb.WriteString(fmt.Sprintf("Property:  %s, %s beds\n", orDash(rec.PropertyType), orDash(rec.Bedrooms)))
	sb.WriteString(fmt.Sprintf("Photos:    %d (floorplan: %t)\n", rec.PhotoCount, rec.Floorplan))

	if len(rec.Notes) > 0 {
		sb.WriteString("\nNotes:\n")
		writeList(&sb, rec.Notes)
	}

	if len(rec.History) > 0 {
		history := make([]string, 0, len(rec.History))
		for _, h := range rec.History {
			history = append(history, fmt.Sprintf("%s %s: %s", h.Date, h.Author, h.Note))
		}
		sb.WriteString("\nHistory:\n")
		writeList(&sb, history)
	}

	p.printBox("EXTRACTED JOB", strings.TrimRight(sb.String(), "\n"))
}

// PrintProblems outputs the fields that could not be extracted cleanly.
func (p *Printer) PrintProblems(problems []*parsing.FieldError) {
	if len(problems) == 0 {
		return
	}

	lines := make([]string, 0, len(problems))
	for _, fe := range problems {
		lines = append(lines, fmt.Sprintf("%s: %v", fe.Field, fe.Kind))
	}
	p.printBox(fmt.Sprintf("FIELD PROBLEMS (%d)", len(problems)), strings.Join(lines, "\n"))
}

// PrintRunSummary outputs the totals of a batch run and lists failed pages.
func (p *Printer) PrintRunSummary(s *pipeline.Summary) {
	if s == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:       %s\n", s.RunID))
	sb.WriteString(fmt.Sprintf("Source:    %s\n", s.Source))
	sb.WriteString(fmt.Sprintf("Pages:     %d\n", s.Pages))
	sb.WriteString(fmt.Sprintf("Extracted: %d\n", s.Extracted))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", s.Failed))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond)))

	var failed, withProblems []string
	for _, r := range s.Results {
		switch {
		case r.Failed():
			failed = append(failed, r.Page+": "+r.Error)
		case len(r.Problems) > 0:
			withProblems = append(withProblems, fmt.Sprintf("%s: %d problems", r.Page, len(r.Problems)))
		}
	}

	if len(failed) > 0 {
		sb.WriteString("\nFailed pages:\n")
		writeList(&sb, failed)
	}
	if len(withProblems) > 0 {
		sb.WriteString("\nIncomplete pages:\n")
		writeList(&sb, withProblems)
	}

	p.printBox("RUN SUMMARY", strings.TrimRight(sb.String(), "\n"))
}

// writeList writes up to maxItemsToShow bullet lines and a count of the rest.
func writeList(sb *strings.Builder, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
