// Package schemas embeds the JSON Schemas for the files photojobs writes.
package schemas

import "embed"

// Schema file names.
const (
	JobRecordFile  = "job_record.schema.json"
	RunSummaryFile = "run_summary.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the contents of the named schema file.
func Load(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files.
func Names() []string {
	return []string{JobRecordFile, RunSummaryFile}
}
