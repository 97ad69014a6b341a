package config

import (
	"embed"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed sources/*.yaml
var builtinSources embed.FS

// Source kinds select the extractor implementation.
const (
	KindKA = "ka"
	KindHS = "hs"
)

// Logical field keys shared by field selectors, table selectors and labels.
const (
	FieldID           = "id"
	FieldAgent        = "agent"
	FieldVendor       = "vendor"
	FieldNotes        = "notes"
	FieldAppointment  = "appointment"
	FieldAddress      = "address"
	FieldPropertyType = "property_type"
	FieldBeds         = "beds"
	FieldFloorplan    = "floorplan"
	FieldPhotos       = "photos"

	TableSpecificRequirements = "specific_requirements"
	TableHistory              = "history"
	TableData                 = "data"
)

// Pattern names used by the KA extractor.
const (
	PatternID         = "id"
	PatternAgentName  = "agent_name"
	PatternAgentTel   = "agent_tel"
	PatternAgentMob   = "agent_mob"
	PatternVendorName = "vendor_name"
	PatternVendorDay  = "vendor_day"
	PatternVendorMob  = "vendor_mob"
	PatternVendorEve  = "vendor_eve"
	PatternPhotoCount = "photo_count"
	PatternTimeDay    = "time_day"
	PatternTimeMonth  = "time_month"
	PatternTimeYear   = "time_year"
	PatternTimeHour   = "time_hour"
	PatternTimeMin    = "time_min"
)

// requiredPatterns lists the patterns each kind cannot work without.
var requiredPatterns = map[string][]string{
	KindKA: {
		PatternID, PatternAgentName, PatternAgentTel, PatternAgentMob,
		PatternVendorName, PatternVendorDay, PatternVendorMob, PatternVendorEve,
		PatternPhotoCount, PatternTimeDay, PatternTimeMonth, PatternTimeYear,
		PatternTimeHour, PatternTimeMin,
	},
}

// requiredLabels lists the table labels each kind cannot work without.
var requiredLabels = map[string][]string{
	KindHS: {FieldID, FieldAddress, FieldBeds, FieldPropertyType, FieldAppointment, FieldVendor},
}

// Abbreviation replaces From with To in history text.
type Abbreviation struct {
	From string `yaml:"from" json:"from" validate:"required"`
	To   string `yaml:"to" json:"to"`
}

// SourceFile is the on-disk YAML form of a source's extraction rules.
type SourceFile struct {
	Name             string            `yaml:"name" validate:"required"`
	Kind             string            `yaml:"kind" validate:"required,oneof=ka hs"`
	Client           string            `yaml:"client"`
	Hosts            []string          `yaml:"hosts,omitempty" validate:"omitempty,dive,hostname"`
	TimeLayout       string            `yaml:"time_layout,omitempty" validate:"required_if=Kind hs"`
	Fields           map[string]string `yaml:"fields,omitempty" validate:"omitempty,dive,required"`
	Tables           map[string]string `yaml:"tables,omitempty" validate:"omitempty,dive,required"`
	Patterns         map[string]string `yaml:"patterns,omitempty"`
	Labels           map[string]string `yaml:"labels,omitempty" validate:"omitempty,dive,required"`
	UnwantedNotes    []string          `yaml:"unwanted_notes,omitempty" validate:"omitempty,dive,required"`
	Abbreviations    []Abbreviation    `yaml:"abbreviations,omitempty" validate:"omitempty,dive"`
	DefaultFloorplan bool              `yaml:"default_floorplan"`
	DefaultPhotos    int               `yaml:"default_photos" validate:"min=0"`
}

// SourceError reports a source definition that cannot be used.
type SourceError struct {
	Source  string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Source is a compiled, read-only set of extraction rules for one portal.
// It is safe for concurrent use and is passed explicitly to extractors.
type Source struct {
	file     SourceFile
	patterns map[string]*regexp.Regexp
}

// Compile validates f and compiles its patterns.
func (f SourceFile) Compile() (*Source, error) {
	name := f.Name
	if name == "" {
		name = "(unnamed)"
	}

	validate := validator.New()
	if err := validate.Struct(f); err != nil {
		return nil, &SourceError{Source: name, Message: "invalid definition", Cause: err}
	}

	patterns := make(map[string]*regexp.Regexp, len(f.Patterns))
	for key, expr := range f.Patterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &SourceError{Source: name, Message: fmt.Sprintf("pattern %q does not compile", key), Cause: err}
		}
		patterns[key] = re
	}

	for _, key := range requiredPatterns[f.Kind] {
		if _, ok := patterns[key]; !ok {
			return nil, &SourceError{Source: name, Message: fmt.Sprintf("missing pattern %q", key)}
		}
	}
	for _, key := range requiredLabels[f.Kind] {
		if _, ok := f.Labels[key]; !ok {
			return nil, &SourceError{Source: name, Message: fmt.Sprintf("missing label %q", key)}
		}
	}

	return &Source{file: f.clone(), patterns: patterns}, nil
}

func (f SourceFile) clone() SourceFile {
	out := f
	out.Fields = cloneMap(f.Fields)
	out.Tables = cloneMap(f.Tables)
	out.Patterns = cloneMap(f.Patterns)
	out.Labels = cloneMap(f.Labels)
	out.Hosts = append([]string(nil), f.Hosts...)
	out.UnwantedNotes = append([]string(nil), f.UnwantedNotes...)
	out.Abbreviations = append([]Abbreviation(nil), f.Abbreviations...)
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ParseSource decodes and compiles a YAML source definition.
func ParseSource(data []byte) (*Source, error) {
	var f SourceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &SourceError{Source: "(yaml)", Message: "failed to parse YAML", Cause: err}
	}
	return f.Compile()
}

// LoadSourceFile reads a source definition from disk.
func LoadSourceFile(p string) (*Source, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", p, err)
	}
	return ParseSource(data)
}

// BuiltinSourceNames lists the embedded source definitions.
func BuiltinSourceNames() []string {
	entries, err := builtinSources.ReadDir("sources")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// BuiltinSource returns the raw YAML of an embedded source.
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtinSources.ReadFile(path.Join("sources", name+".yaml"))
	if err != nil {
		return nil, &SourceError{
			Source:  name,
			Message: fmt.Sprintf("unknown source (known: %s)", strings.Join(BuiltinSourceNames(), ", ")),
		}
	}
	return data, nil
}

// LoadSource resolves nameOrPath as a built-in source name first, then as a
// path to a YAML file.
func LoadSource(nameOrPath string) (*Source, error) {
	if data, err := BuiltinSource(nameOrPath); err == nil {
		return ParseSource(data)
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return LoadSourceFile(nameOrPath)
	}
	_, err := BuiltinSource(nameOrPath)
	return nil, err
}

// Name is the short source identifier, e.g. "ka".
func (s *Source) Name() string { return s.file.Name }

// Kind selects the extractor implementation.
func (s *Source) Kind() string { return s.file.Kind }

// Client is the commissioning client's display name.
func (s *Source) Client() string { return s.file.Client }

// TimeLayout is the Go layout appointment times are written in.
func (s *Source) TimeLayout() string { return s.file.TimeLayout }

// DefaultFloorplan is used when the portal gives no per-job floorplan flag.
func (s *Source) DefaultFloorplan() bool { return s.file.DefaultFloorplan }

// DefaultPhotos is used when the portal gives no per-job photo count.
func (s *Source) DefaultPhotos() int { return s.file.DefaultPhotos }

// Pattern returns the compiled pattern called name, or nil.
func (s *Source) Pattern(name string) *regexp.Regexp { return s.patterns[name] }

// Label returns the table row label for a logical field.
func (s *Source) Label(field string) (string, bool) {
	l, ok := s.file.Labels[field]
	return l, ok
}

// Hosts returns the portal host names the source's pages are served from.
func (s *Source) Hosts() []string { return append([]string(nil), s.file.Hosts...) }

// Fields returns a copy of the logical field → CSS selector table.
func (s *Source) Fields() map[string]string { return cloneMap(s.file.Fields) }

// Tables returns a copy of the logical table → CSS selector table.
func (s *Source) Tables() map[string]string { return cloneMap(s.file.Tables) }

// UnwantedNotes returns a copy of the note blacklist.
func (s *Source) UnwantedNotes() []string {
	return append([]string(nil), s.file.UnwantedNotes...)
}

// Abbreviations returns a copy of the ordered abbreviation list.
func (s *Source) Abbreviations() []Abbreviation {
	return append([]Abbreviation(nil), s.file.Abbreviations...)
}

// Definition returns a copy of the source's YAML form.
func (s *Source) Definition() SourceFile { return s.file.clone() }

// MarshalYAML renders the source back to its YAML form.
func (s *Source) MarshalYAML() (any, error) { return s.file, nil }
