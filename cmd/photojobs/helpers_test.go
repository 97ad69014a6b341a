package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the CLI in-process with args and returns what it wrote.
// Flag values are reset first, since commands keep them in package variables.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	for _, env := range []string{config.EnvSource, config.EnvPages, config.EnvOut, config.EnvStore, config.EnvWorkers, config.EnvTimeout} {
		t.Setenv(env, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// storeFixture projects a parsing fixture through a built-in source and
// saves it to dir under name.
func storeFixture(t *testing.T, dir, source, fixture, name string) string {
	t.Helper()

	src, err := config.LoadSource(source)
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join("..", "..", "internal", "parsing", "testdata", fixture))
	require.NoError(t, err)

	page, err := ingestion.PageFromHTML(src, "https://portal.example/"+fixture, string(html))
	require.NoError(t, err)

	path, err := ingestion.NewPageStore(dir).Save(name, page)
	require.NoError(t, err)
	return path
}
