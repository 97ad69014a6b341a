package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/property-jobs/internal/observability"
	"github.com/jonathan/property-jobs/internal/pipeline"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Extract job records from every stored page in a directory",
	Long: `Extracts every stored page in --pages concurrently, writing one record file per page and a
summary.json to --out. Pages that fail are listed in the summary and make the command exit non-zero.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runSource          string
	runPages           string
	runOut             string
	runFormat          string
	runWorkers         int
	runValidateRecords bool
	runVerbose         bool
)

func init() {
	runCommand.Flags().StringVarP(&runSource, "source", "s", "", "Source name (ka, hs) or path to a source YAML file")
	runCommand.Flags().StringVar(&runPages, "pages", "", "Directory of stored pages")
	runCommand.Flags().StringVarP(&runOut, "out", "o", "", "Directory to write records and summary.json to")
	runCommand.Flags().StringVarP(&runFormat, "format", "f", "", "Record format: json or text")
	runCommand.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Pages extracted concurrently")
	runCommand.Flags().BoolVar(&runValidateRecords, "validate", false, "Validate records and the run summary")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overrides := flagOverrides{
		source:   &runSource,
		pages:    &runPages,
		out:      &runOut,
		format:   &runFormat,
		workers:  &runWorkers,
		validate: &runValidateRecords,
		verbose:  &runVerbose,
	}
	if err := overrides.apply(cmd, &cfg); err != nil {
		return err
	}

	if cfg.Pages == "" {
		return fmt.Errorf("--pages is required (via flag or config)")
	}
	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		Source:   src,
		PagesDir: cfg.Pages,
		OutDir:   cfg.Out,
		Workers:  cfg.Workers,
		Format:   cfg.Format,
		Validate: cfg.ValidateRecords,
		Verbose:  cfg.Verbose,
	}
	if cfg.Verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			if e.Page != "" {
				log.Printf("[%s] %s: %s", e.Step, e.Page, e.Message)
			}
		}
	}

	summary, err := pipeline.Run(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintRunSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d pages failed", summary.Failed, summary.Pages)
	}
	return nil
}
