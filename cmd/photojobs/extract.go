package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/jonathan/property-jobs/internal/observability"
	"github.com/jonathan/property-jobs/internal/parsing"
	"github.com/jonathan/property-jobs/internal/schemas"
	"github.com/jonathan/property-jobs/internal/validation"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a job record from one stored page",
	Long:  "Extract a job record from a stored page JSON file and print it as JSON or as a plain-text job sheet.",
	RunE:  runExtract,
}

var (
	extractSource   string
	extractPage     string
	extractOut      string
	extractFormat   string
	extractValidate bool
	extractVerbose  bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractSource, "source", "s", "", "Source name (ka, hs) or path to a source YAML file")
	extractCmd.Flags().StringVarP(&extractPage, "page", "p", "", "Path to stored page JSON file (required)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Write the record to this file instead of stdout")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "Output format: json or text")
	extractCmd.Flags().BoolVar(&extractValidate, "validate", false, "Validate the record before writing it")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print the record summary and field problems to stderr")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if extractPage == "" {
		return fmt.Errorf("--page is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overrides := flagOverrides{
		source:   &extractSource,
		format:   &extractFormat,
		validate: &extractValidate,
		verbose:  &extractVerbose,
	}
	if err := overrides.apply(cmd, &cfg); err != nil {
		return err
	}

	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}

	page, err := ingestion.ReadPage(extractPage)
	if err != nil {
		return err
	}
	if page.Source != "" && page.Source != src.Name() {
		return fmt.Errorf("page was captured for source %q, not %q", page.Source, src.Name())
	}

	ex, err := parsing.New(src)
	if err != nil {
		return err
	}
	rec := parsing.MapJob(ex, page)

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintJobRecord(rec)
		printer.PrintProblems(parsing.Diagnose(ex, page, rec))
	}

	if cfg.ValidateRecords {
		if err := validation.ValidateRecord(rec); err != nil {
			return err
		}
		if err := schemas.ValidateJobRecord(rec); err != nil {
			return fmt.Errorf("record does not validate against schema: %w", err)
		}
	}

	var output []byte
	if cfg.Format == config.FormatText {
		output = []byte(rec.String() + "\n")
	} else {
		b, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = append(b, '\n')
	}

	if extractOut == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}
	if err := os.WriteFile(extractOut, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", extractOut)
	return nil
}
