package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List built-in sources or print one source definition",
	Long:  "Without --source, lists the built-in sources. With --source, prints that source's definition as YAML, which can be copied and edited into a custom source file.",
	RunE:  runSources,
}

var sourcesName string

func init() {
	sourcesCmd.Flags().StringVarP(&sourcesName, "source", "s", "", "Source name (ka, hs) or path to a source YAML file")

	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if sourcesName == "" {
		for _, name := range config.BuiltinSourceNames() {
			src, err := config.LoadSource(name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%-4s %-6s %-14s %s\n", src.Name(), src.Kind(), src.Client(), strings.Join(src.Hosts(), ","))
		}
		return nil
	}

	src, err := config.LoadSource(sourcesName)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal source: %w", err)
	}
	_, err = out.Write(data)
	return err
}
