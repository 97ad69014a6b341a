// Package main provides the photojobs CLI, which captures job pages from
// property-photography portals and extracts structured job records from them.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photojobs",
	Short: "Extract property-photography jobs from agent portals",
	Long: `photojobs turns job pages captured from estate agent portals into structured job records.

Configuration can be loaded from a JSON file using --config and from PHOTOJOBS_* environment
variables (a .env file is read if present). Command-line flags override both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
