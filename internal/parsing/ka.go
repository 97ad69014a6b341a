package parsing

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/jonathan/property-jobs/internal/types"
	"github.com/jonathan/property-jobs/internal/validation"
)

// Column headings of the Key Agent job tables.
const (
	colRequirement = "Specific Requirement"
	colFiles       = "Files required"
	colDate        = "Date Created"
	colAuthor      = "Created By"
	colNote        = "Note"
)

// KA extracts jobs from Key Agent pages, whose fields are free text parsed
// with the source's patterns.
type KA struct {
	src *config.Source
}

// NewKA returns a Key Agent extractor for src.
func NewKA(src *config.Source) (*KA, error) {
	if src.Kind() != config.KindKA {
		return nil, &SourceKindError{Source: src.Name(), Kind: src.Kind()}
	}
	return &KA{src: src}, nil
}

func (k *KA) Source() *config.Source { return k.src }

// ExtractID returns the job reference when it is entirely digits.
func (k *KA) ExtractID(p *ingestion.RawPage) string {
	id := field(p, config.FieldID)
	if re := k.src.Pattern(config.PatternID); re == nil || !re.MatchString(id) {
		return ""
	}
	return id
}

// ExtractAgent takes the branch name from the notes blob, which is the only
// place it appears, and the phone numbers from the agent block.
func (k *KA) ExtractAgent(p *ingestion.RawPage) types.Agent {
	notes := field(p, config.FieldNotes)
	agent := field(p, config.FieldAgent)

	tel, _ := validation.FormatTel(capture(k.src.Pattern(config.PatternAgentTel), agent))
	mob, _ := validation.FormatTel(capture(k.src.Pattern(config.PatternAgentMob), agent))

	return types.Agent{
		ContactablePerson: types.ContactablePerson{
			Name:   capture(k.src.Pattern(config.PatternAgentName), notes),
			Phone1: tel,
			Phone2: mob,
		},
	}
}

// ExtractVendor reads the vendor's name and numbers. The second number is
// the mobile, or the evening number when there is no mobile.
func (k *KA) ExtractVendor(p *ingestion.RawPage) types.Vendor {
	vendor := field(p, config.FieldVendor)

	mob := capture(k.src.Pattern(config.PatternVendorMob), vendor)
	eve := capture(k.src.Pattern(config.PatternVendorEve), vendor)
	if mob == "" {
		mob = eve
	}

	return types.Vendor{
		Name:   capture(k.src.Pattern(config.PatternVendorName), vendor),
		Phone1: capture(k.src.Pattern(config.PatternVendorDay), vendor),
		Phone2: mob,
		Phone3: eve,
	}
}

func (k *KA) ExtractPropertyType(p *ingestion.RawPage) string {
	return field(p, config.FieldPropertyType)
}

func (k *KA) ExtractBeds(p *ingestion.RawPage) string {
	return field(p, config.FieldBeds)
}

func (k *KA) ExtractFloorplan(p *ingestion.RawPage) bool {
	raw, err := p.Field(config.FieldFloorplan)
	if err != nil {
		return k.src.DefaultFloorplan()
	}
	return ParseFloorplan(raw)
}

// ExtractPhotos reads the "<N> photos" requirement, falling back to the
// source default.
func (k *KA) ExtractPhotos(p *ingestion.RawPage) int {
	n, err := strconv.Atoi(capture(k.src.Pattern(config.PatternPhotoCount), field(p, config.FieldPhotos)))
	if err != nil || n < 0 {
		return k.src.DefaultPhotos()
	}
	return n
}

func (k *KA) ExtractNotes(p *ingestion.RawPage) []string {
	raw, err := p.Field(config.FieldNotes)
	if err != nil {
		return nil
	}
	return FilterNotes(raw, k.src.UnwantedNotes())
}

func (k *KA) ExtractAddress(p *ingestion.RawPage) types.PostalAddress {
	return validation.SplitAddress(field(p, config.FieldAddress))
}

// ExtractTime parses appointments written as "Fri-08 Feb 19 0000".
func (k *KA) ExtractTime(p *ingestion.RawPage) *time.Time {
	raw := field(p, config.FieldAppointment)
	if raw == "" {
		return nil
	}

	month, ok := validation.MonthNumber(capture(k.src.Pattern(config.PatternTimeMonth), raw))
	if !ok {
		return nil
	}
	year, ok := validation.ExpandYear(capture(k.src.Pattern(config.PatternTimeYear), raw))
	if !ok {
		return nil
	}

	t, _ := validation.ComposeTime(
		capture(k.src.Pattern(config.PatternTimeDay), raw),
		fmt.Sprintf("%02d", month),
		year,
		capture(k.src.Pattern(config.PatternTimeHour), raw),
		capture(k.src.Pattern(config.PatternTimeMin), raw),
	)
	return t
}

// ExtractRequirements maps each requirement in the requirements table to the
// number of files wanted. A missing or malformed table yields nil.
func (k *KA) ExtractRequirements(p *ingestion.RawPage) map[string]string {
	t, ok := k.table(p, config.TableSpecificRequirements, colRequirement, colFiles)
	if !ok {
		return nil
	}

	reqs := make(map[string]string)
	for _, row := range t.Records() {
		reqs[row[colRequirement]] = row[colFiles]
	}
	return reqs
}

// ExtractHistory returns the job's history rows with the source's
// abbreviations applied. A missing or malformed table yields nil.
func (k *KA) ExtractHistory(p *ingestion.RawPage) []types.HistoryEntry {
	t, ok := k.table(p, config.TableHistory, colDate, colAuthor, colNote)
	if !ok {
		return nil
	}

	abbrs := k.src.Abbreviations()
	records := t.Records()
	history := make([]types.HistoryEntry, 0, len(records))
	for _, row := range records {
		history = append(history, types.HistoryEntry{
			Date:   Abbreviate(row[colDate], abbrs),
			Author: Abbreviate(row[colAuthor], abbrs),
			Note:   Abbreviate(row[colNote], abbrs),
		})
	}
	return history
}

// table returns the first table of fragment key when it has all of cols.
func (k *KA) table(p *ingestion.RawPage, key string, cols ...string) (ingestion.Table, bool) {
	fragment, err := p.Table(key)
	if err != nil {
		return ingestion.Table{}, false
	}
	tables, err := ingestion.ParseTables(fragment)
	if err != nil || len(tables) == 0 || !tables[0].HasColumns(cols...) {
		return ingestion.Table{}, false
	}
	return tables[0], true
}

// fieldCheck ties a record field to the raw value it came from. ok reports
// whether the raw value produced a usable result; nil means any value does.
type fieldCheck struct {
	name  string
	key   string
	table bool
	ok    func(raw string, r *types.JobRecord) bool
}

func (k *KA) checks() []fieldCheck {
	return []fieldCheck{
		{name: "id", key: config.FieldID, ok: func(_ string, r *types.JobRecord) bool { return r.ID != "" }},
		{name: "agent.name", key: config.FieldNotes, ok: func(_ string, r *types.JobRecord) bool { return r.Agent.Name != "" }},
		{name: "agent.phone1", key: config.FieldAgent, ok: func(_ string, r *types.JobRecord) bool { return r.Agent.Phone1 != "" }},
		{name: "agent.phone2", key: config.FieldAgent, ok: func(_ string, r *types.JobRecord) bool { return r.Agent.Phone2 != "" }},
		{name: "vendor.name", key: config.FieldVendor, ok: func(_ string, r *types.JobRecord) bool { return r.Vendor.Name != "" }},
		{name: "vendor.phone1", key: config.FieldVendor, ok: func(_ string, r *types.JobRecord) bool { return r.Vendor.Phone1 != "" }},
		{name: "appointment.address.postcode", key: config.FieldAddress, ok: func(_ string, r *types.JobRecord) bool {
			return r.Appointment.Address.Postcode != ""
		}},
		{name: "appointment.when", key: config.FieldAppointment, ok: func(_ string, r *types.JobRecord) bool { return r.Appointment.When != nil }},
		{name: "property_type", key: config.FieldPropertyType},
		{name: "bedrooms", key: config.FieldBeds},
		{name: "notes", key: config.FieldNotes},
		{name: "floorplan", key: config.FieldFloorplan},
		{name: "photo_count", key: config.FieldPhotos, ok: func(raw string, _ *types.JobRecord) bool {
			return capture(k.src.Pattern(config.PatternPhotoCount), raw) != ""
		}},
		{name: "specific_requirements", key: config.TableSpecificRequirements, table: true, ok: func(_ string, r *types.JobRecord) bool {
			return r.SpecificRequirements != nil
		}},
		{name: "history", key: config.TableHistory, table: true, ok: func(_ string, r *types.JobRecord) bool { return r.History != nil }},
	}
}

func (k *KA) diagnose(p *ingestion.RawPage, rec *types.JobRecord) []*FieldError {
	var errs []*FieldError
	for _, c := range k.checks() {
		var raw string
		var err error
		if c.table {
			raw, err = p.Table(c.key)
		} else {
			raw, err = p.Field(c.key)
		}
		if err != nil {
			errs = append(errs, newFieldError(c.name, err))
			continue
		}
		if c.ok == nil || c.ok(raw, rec) {
			continue
		}
		fe := &FieldError{Field: c.name, Kind: ErrFormatMismatch}
		if !c.table {
			fe.Raw = raw
		}
		errs = append(errs, fe)
	}
	return errs
}
