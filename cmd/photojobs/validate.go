package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/property-jobs/internal/schemas"
	"github.com/jonathan/property-jobs/internal/types"
	"github.com/jonathan/property-jobs/internal/validation"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a job record JSON file",
	Long:  "Validates a job record JSON file against the job record schema and the record field rules (postcodes, phone numbers, status).",
	RunE:  runValidate,
}

var validateJSON string

func init() {
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to job record JSON file (required)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateJSON == "" {
		return fmt.Errorf("--json is required")
	}

	if err := schemas.ValidateJobRecordFile(validateJSON); err != nil {
		var schemaLoadErr *schemas.SchemaLoadError
		if errors.As(err, &schemaLoadErr) {
			return fmt.Errorf("could not load schema: %w", err)
		}
		return err
	}

	data, err := os.ReadFile(validateJSON)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	var rec types.JobRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("failed to parse record: %w", err)
	}
	if err := validation.ValidateRecord(&rec); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", validateJSON)
	return nil
}
