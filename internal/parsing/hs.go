package parsing

import (
	"time"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/jonathan/property-jobs/internal/types"
	"github.com/jonathan/property-jobs/internal/validation"
)

// HS extracts jobs from House Simple pages. The page is a run of label/value
// tables which are merged into one record and read by label.
//
// An HS returned by NewHS parses the data tables on every call. MapJob and
// Diagnose bind a copy to the page so the tables are parsed once.
type HS struct {
	src *config.Source

	page    *ingestion.RawPage
	data    map[string]string
	dataErr error
}

// NewHS returns a House Simple extractor for src.
func NewHS(src *config.Source) (*HS, error) {
	if src.Kind() != config.KindHS {
		return nil, &SourceKindError{Source: src.Name(), Kind: src.Kind()}
	}
	return &HS{src: src}, nil
}

func (h *HS) Source() *config.Source { return h.src }

// forPage returns a copy of h holding p's parsed record.
func (h *HS) forPage(p *ingestion.RawPage) Extractor {
	data, err := h.parse(p)
	return &HS{src: h.src, page: p, data: data, dataErr: err}
}

// record returns the merged label/value record of p's data tables.
func (h *HS) record(p *ingestion.RawPage) (map[string]string, error) {
	if h.page != nil && h.page == p {
		return h.data, h.dataErr
	}
	return h.parse(p)
}

func (h *HS) parse(p *ingestion.RawPage) (map[string]string, error) {
	fragment, err := p.Table(config.TableData)
	if err != nil {
		return nil, err
	}
	tables, err := ingestion.ParseTables(fragment)
	if err != nil {
		return nil, err
	}
	return ingestion.Transpose(tables), nil
}

// value returns the value labelled for field, or "" when the page or the
// label is missing.
func (h *HS) value(p *ingestion.RawPage, field string) string {
	label, ok := h.src.Label(field)
	if !ok {
		return ""
	}
	rec, err := h.record(p)
	if err != nil {
		return ""
	}
	return rec[label]
}

func (h *HS) ExtractID(p *ingestion.RawPage) string {
	return h.value(p, config.FieldID)
}

// ExtractAgent returns an empty agent; House Simple pages do not name one.
func (h *HS) ExtractAgent(*ingestion.RawPage) types.Agent {
	return types.Agent{}
}

// ExtractVendor returns the vendor's name. No numbers are published.
func (h *HS) ExtractVendor(p *ingestion.RawPage) types.Vendor {
	return types.Vendor{Name: h.value(p, config.FieldVendor)}
}

func (h *HS) ExtractPropertyType(p *ingestion.RawPage) string {
	return h.value(p, config.FieldPropertyType)
}

func (h *HS) ExtractBeds(p *ingestion.RawPage) string {
	return h.value(p, config.FieldBeds)
}

func (h *HS) ExtractFloorplan(*ingestion.RawPage) bool {
	return h.src.DefaultFloorplan()
}

func (h *HS) ExtractPhotos(*ingestion.RawPage) int {
	return h.src.DefaultPhotos()
}

func (h *HS) ExtractNotes(*ingestion.RawPage) []string {
	return nil
}

func (h *HS) ExtractAddress(p *ingestion.RawPage) types.PostalAddress {
	return validation.SplitAddress(h.value(p, config.FieldAddress))
}

// ExtractTime parses appointments written as "25/12/2018 @ 12:00".
func (h *HS) ExtractTime(p *ingestion.RawPage) *time.Time {
	raw := h.value(p, config.FieldAppointment)
	if raw == "" {
		return nil
	}
	t, _ := validation.ParseLayout(h.src.TimeLayout(), raw)
	return t
}

// hsFields are the labelled fields in record order.
var hsFields = []struct {
	name  string
	field string
	ok    func(r *types.JobRecord) bool
}{
	{"id", config.FieldID, nil},
	{"vendor.name", config.FieldVendor, nil},
	{"appointment.address.postcode", config.FieldAddress, func(r *types.JobRecord) bool { return r.Appointment.Address.Postcode != "" }},
	{"appointment.when", config.FieldAppointment, func(r *types.JobRecord) bool { return r.Appointment.When != nil }},
	{"property_type", config.FieldPropertyType, nil},
	{"bedrooms", config.FieldBeds, nil},
}

func (h *HS) diagnose(p *ingestion.RawPage, rec *types.JobRecord) []*FieldError {
	data, err := h.record(p)
	if err != nil {
		if _, terr := p.Table(config.TableData); terr != nil {
			return []*FieldError{newFieldError(config.TableData, terr)}
		}
		return []*FieldError{{Field: config.TableData, Kind: ErrFormatMismatch}}
	}

	var errs []*FieldError
	for _, f := range hsFields {
		label, _ := h.src.Label(f.field)
		raw, ok := data[label]
		if !ok {
			errs = append(errs, &FieldError{Field: f.name, Kind: ErrMissingField})
			continue
		}
		if f.ok != nil && !f.ok(rec) {
			errs = append(errs, &FieldError{Field: f.name, Kind: ErrFormatMismatch, Raw: raw})
		}
	}
	return errs
}
