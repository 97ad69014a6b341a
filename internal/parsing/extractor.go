// Package parsing turns captured job pages into job records. Each portal has
// an Extractor built from its compiled source configuration; extraction of a
// field never fails, it yields an empty value instead.
package parsing

import (
	"time"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/jonathan/property-jobs/internal/types"
)

// Extractor reads the fields of one portal's job page.
type Extractor interface {
	Source() *config.Source
	ExtractID(p *ingestion.RawPage) string
	ExtractAgent(p *ingestion.RawPage) types.Agent
	ExtractVendor(p *ingestion.RawPage) types.Vendor
	ExtractPropertyType(p *ingestion.RawPage) string
	ExtractBeds(p *ingestion.RawPage) string
	ExtractFloorplan(p *ingestion.RawPage) bool
	ExtractPhotos(p *ingestion.RawPage) int
	ExtractNotes(p *ingestion.RawPage) []string
	ExtractAddress(p *ingestion.RawPage) types.PostalAddress
	ExtractTime(p *ingestion.RawPage) *time.Time
}

// RequirementsExtractor is implemented by portals that list per-room photo requirements.
type RequirementsExtractor interface {
	ExtractRequirements(p *ingestion.RawPage) map[string]string
}

// HistoryExtractor is implemented by portals that expose a job's history.
type HistoryExtractor interface {
	ExtractHistory(p *ingestion.RawPage) []types.HistoryEntry
}

// diagnoser is implemented by extractors that can explain empty fields.
type diagnoser interface {
	diagnose(p *ingestion.RawPage, rec *types.JobRecord) []*FieldError
}

// pageBinder is implemented by extractors that can prepare a page once for
// several field lookups. The returned extractor is only used for that page.
type pageBinder interface {
	forPage(p *ingestion.RawPage) Extractor
}

// bind returns ex prepared for p when ex supports it.
func bind(ex Extractor, p *ingestion.RawPage) Extractor {
	if b, ok := ex.(pageBinder); ok {
		return b.forPage(p)
	}
	return ex
}

// New returns the extractor for src's kind.
func New(src *config.Source) (Extractor, error) {
	switch src.Kind() {
	case config.KindKA:
		return NewKA(src)
	case config.KindHS:
		return NewHS(src)
	default:
		return nil, &SourceKindError{Source: src.Name(), Kind: src.Kind()}
	}
}

// MapJob builds a fresh record from page. The record is never partially
// failed: fields the page does not support stay empty.
func MapJob(ex Extractor, p *ingestion.RawPage) *types.JobRecord {
	ex = bind(ex, p)
	src := ex.Source()

	rec := types.NewJobRecord()
	rec.Source = src.Name()
	rec.Client = types.ContactablePerson{Name: src.Client()}
	rec.ID = ex.ExtractID(p)
	rec.Agent = ex.ExtractAgent(p)
	rec.Vendor = ex.ExtractVendor(p)
	rec.Appointment = types.Appointment{
		Address: ex.ExtractAddress(p),
		When:    ex.ExtractTime(p),
	}
	rec.PropertyType = ex.ExtractPropertyType(p)
	rec.Bedrooms = ex.ExtractBeds(p)
	rec.Notes = ex.ExtractNotes(p)
	rec.Floorplan = ex.ExtractFloorplan(p)
	rec.PhotoCount = ex.ExtractPhotos(p)

	if re, ok := ex.(RequirementsExtractor); ok {
		rec.SpecificRequirements = re.ExtractRequirements(p)
	}
	if he, ok := ex.(HistoryExtractor); ok {
		rec.History = he.ExtractHistory(p)
	}
	return rec
}

// Diagnose reports, field by field, why rec (built from p by ex) is missing
// values. It does not change rec.
func Diagnose(ex Extractor, p *ingestion.RawPage, rec *types.JobRecord) []*FieldError {
	d, ok := bind(ex, p).(diagnoser)
	if !ok {
		return nil
	}
	return d.diagnose(p, rec)
}
