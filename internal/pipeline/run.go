// Package pipeline runs extraction over a directory of captured pages.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/jonathan/property-jobs/internal/parsing"
	"github.com/jonathan/property-jobs/internal/schemas"
	"github.com/jonathan/property-jobs/internal/types"
	"github.com/jonathan/property-jobs/internal/validation"
	rootschemas "github.com/jonathan/property-jobs/schemas"
)

// Steps and categories reported through ProgressEvent.
const (
	StepLoadPage = "load_page"
	StepExtract  = "extract"
	StepValidate = "validate"
	StepWrite    = "write_record"
	StepSummary  = "summary"

	CategoryIngestion  = "ingestion"
	CategoryParsing    = "parsing"
	CategoryValidation = "validation"
	CategoryOutput     = "output"
)

// SummaryFile is the name of the run summary written to the output directory.
const SummaryFile = "summary.json"

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Page     string `json:"page,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs. It may be called from
// several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for a batch run
type RunOptions struct {
	Source     *config.Source
	PagesDir   string
	OutDir     string
	Workers    int
	Format     string // config.FormatJSON or config.FormatText
	Validate   bool
	Verbose    bool
	OnProgress ProgressCallback
}

// PageResult is the outcome for one page. A page that could not be read,
// belongs to another source or fails validation has Error set.
type PageResult struct {
	Page     string           `json:"page"`
	Output   string           `json:"output,omitempty"`
	JobID    string           `json:"job_id,omitempty"`
	Error    string           `json:"error,omitempty"`
	Problems []string         `json:"problems,omitempty"`
	Record   *types.JobRecord `json:"-"`
}

// Failed reports whether the page produced no usable record.
func (r PageResult) Failed() bool { return r.Error != "" }

// Summary describes a completed run. Results follow the order of the pages.
type Summary struct {
	RunID      uuid.UUID    `json:"run_id"`
	Source     string       `json:"source"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Pages      int          `json:"pages"`
	Extracted  int          `json:"extracted"`
	Failed     int          `json:"failed"`
	Results    []PageResult `json:"results"`
}

// Run extracts a record from every page in opts.PagesDir, writing one output
// file per page and a summary to opts.OutDir. Individual page failures are
// recorded in the summary; only setup errors and cancellation fail the run.
func Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("run requires a source")
	}
	if opts.Workers <= 0 {
		opts.Workers = config.DefaultWorkers
	}
	if opts.Format == "" {
		opts.Format = config.FormatJSON
	}

	ex, err := parsing.New(opts.Source)
	if err != nil {
		return nil, err
	}

	paths, err := ingestion.NewPageStore(opts.PagesDir).List()
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := &Summary{
		RunID:     uuid.New(),
		Source:    opts.Source.Name(),
		StartedAt: time.Now().UTC(),
		Pages:     len(paths),
		Results:   make([]PageResult, len(paths)),
	}
	runID := summary.RunID.String()

	if opts.Verbose {
		log.Printf("[RUN %s] Extracting %d pages from %s with %d workers", runID, len(paths), opts.PagesDir, opts.Workers)
	}

	var done atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			// each goroutine owns its slot
			summary.Results[i] = processPage(ex, path, opts, runID)

			n := done.Add(1)
			if opts.Verbose {
				log.Printf("[RUN %s] %d/%d %s", runID, n, len(paths), filepath.Base(path))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range summary.Results {
		if r.Failed() {
			summary.Failed++
		} else {
			summary.Extracted++
		}
	}
	summary.FinishedAt = time.Now().UTC()

	if err := writeSummary(summary, opts); err != nil {
		return nil, err
	}

	emitProgress(opts, ProgressEvent{
		Step:     StepSummary,
		Category: CategoryOutput,
		Message:  fmt.Sprintf("Extracted %d of %d pages", summary.Extracted, summary.Pages),
		RunID:    runID,
		Content:  summary,
	})

	return summary, nil
}

// processPage runs one page through load, extract, validate and write.
func processPage(ex parsing.Extractor, path string, opts RunOptions, runID string) PageResult {
	name := filepath.Base(path)
	result := PageResult{Page: name}

	fail := func(step, category string, err error) PageResult {
		result.Error = err.Error()
		emitProgress(opts, ProgressEvent{Step: step, Category: category, Message: result.Error, RunID: runID, Page: name})
		return result
	}

	page, err := ingestion.ReadPage(path)
	if err != nil {
		return fail(StepLoadPage, CategoryIngestion, err)
	}
	if page.Source != "" && page.Source != opts.Source.Name() {
		return fail(StepLoadPage, CategoryIngestion,
			fmt.Errorf("page was captured for source %q, not %q", page.Source, opts.Source.Name()))
	}

	rec := parsing.MapJob(ex, page)
	result.Record = rec
	result.JobID = rec.ID
	for _, fe := range parsing.Diagnose(ex, page, rec) {
		result.Problems = append(result.Problems, fe.Error())
	}
	emitProgress(opts, ProgressEvent{
		Step:     StepExtract,
		Category: CategoryParsing,
		Message:  fmt.Sprintf("Extracted job %q with %d field problems", rec.ID, len(result.Problems)),
		RunID:    runID,
		Page:     name,
	})

	if opts.Validate {
		if err := validation.ValidateRecord(rec); err != nil {
			return fail(StepValidate, CategoryValidation, err)
		}
		if err := schemas.ValidateJobRecord(rec); err != nil {
			return fail(StepValidate, CategoryValidation, err)
		}
	}

	out, err := writeRecord(rec, name, opts)
	if err != nil {
		return fail(StepWrite, CategoryOutput, err)
	}
	result.Output = filepath.Base(out)
	emitProgress(opts, ProgressEvent{Step: StepWrite, Category: CategoryOutput, Message: "Wrote " + result.Output, RunID: runID, Page: name})

	return result
}

// writeRecord writes rec next to its siblings, named after the page file.
func writeRecord(rec *types.JobRecord, pageName string, opts RunOptions) (string, error) {
	base := strings.TrimSuffix(pageName, filepath.Ext(pageName))

	var data []byte
	var ext string
	switch opts.Format {
	case config.FormatText:
		data, ext = []byte(rec.String()), ".txt"
	default:
		b, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal record: %w", err)
		}
		data, ext = b, ".record.json"
	}

	path := filepath.Join(opts.OutDir, base+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write record: %w", err)
	}
	return path, nil
}

func writeSummary(s *Summary, opts RunOptions) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if opts.Validate {
		if err := schemas.ValidateBuiltin(rootschemas.RunSummaryFile, data); err != nil {
			return fmt.Errorf("run summary does not match schema: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(opts.OutDir, SummaryFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// emitProgress calls the progress callback if configured
func emitProgress(opts RunOptions, event ProgressEvent) {
	if opts.OnProgress != nil {
		opts.OnProgress(event)
	}
}
