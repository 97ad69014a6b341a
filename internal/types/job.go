package types

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the lifecycle state of a job.
type Status string

const (
	// StatusActive is set by extraction.
	StatusActive Status = "ACTIVE"
	// StatusArchived is reserved for downstream workflow.
	StatusArchived Status = "ARCHIVED"
)

// HistoryEntry is one row of a job's system history.
type HistoryEntry struct {
	Date   string `json:"date"`
	Author string `json:"author"`
	Note   string `json:"note"`
}

// JobRecord completely describes one photoshoot commissioned through a portal.
// Not every source populates every field; absent values are empty or nil.
type JobRecord struct {
	ID                   string            `json:"id,omitempty"`
	Source               string            `json:"source,omitempty"`
	Client               ContactablePerson `json:"client"`
	Agent                Agent             `json:"agent"`
	Vendor               Vendor            `json:"vendor"`
	Appointment          Appointment       `json:"appointment"`
	PropertyType         string            `json:"property_type,omitempty"`
	Bedrooms             string            `json:"bedrooms,omitempty"`
	Notes                []string          `json:"notes,omitempty"`
	Floorplan            bool              `json:"floorplan"`
	PhotoCount           int               `json:"photo_count" validate:"min=0"`
	Folder               string            `json:"folder,omitempty"`
	SpecificRequirements map[string]string `json:"specific_requirements,omitempty" validate:"omitempty,dive,keys,required,endkeys"`
	History              []HistoryEntry    `json:"history,omitempty"`
	Status               Status            `json:"status" validate:"oneof=ACTIVE ARCHIVED"`
}

// NewJobRecord returns an empty, active record.
func NewJobRecord() *JobRecord {
	return &JobRecord{Status: StatusActive}
}

// String renders the record as a plain-text job sheet.
func (j *JobRecord) String() string {
	var sb strings.Builder

	section := func(title, body string) {
		sb.WriteString(title)
		sb.WriteString(":\n")
		sb.WriteString(body)
		sb.WriteString("\n")
	}

	floorplan := "No"
	if j.Floorplan {
		floorplan = "Yes"
	}

	section("ID", j.ID)
	section("CLIENT", j.Client.String())
	section("AGENT", j.Agent.String())
	section("VENDOR", j.Vendor.String())
	section("APPOINTMENT", j.Appointment.String())
	section("ADDRESS", j.Appointment.Address.String())
	section("PROPERTY", j.PropertyType)
	section("BEDS", j.Bedrooms)
	section("FOLDER", j.Folder)
	section("NOTES", strings.Join(j.Notes, "\n"))
	section("FLOORPLAN", floorplan)
	section("PHOTOS", fmt.Sprintf("%d", j.PhotoCount))
	section("SPECIFICS", j.specifics())

	history := make([]string, 0, len(j.History))
	for _, h := range j.History {
		history = append(history, fmt.Sprintf("%-11s %-5s %s", clip(h.Date, 11), clip(h.Author, 5), clip(h.Note, 60)))
	}
	sb.WriteString("SYSTEM NOTES:\n")
	sb.WriteString(strings.Join(history, "\n"))

	return sb.String()
}

// specifics lists requirements sorted by name so the sheet is stable.
func (j *JobRecord) specifics() string {
	names := make([]string, 0, len(j.SpecificRequirements))
	for name := range j.SpecificRequirements {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+": "+j.SpecificRequirements[name])
	}
	return strings.Join(lines, "\n")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
