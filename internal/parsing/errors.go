package parsing

import (
	"errors"
	"fmt"

	"github.com/jonathan/property-jobs/internal/ingestion"
)

// Kinds of field-level extraction failure. They never abort extraction; they
// are only reported by Diagnose.
var (
	// ErrMissingField means the page has no raw value for the field.
	ErrMissingField = ingestion.ErrMissingField
	// ErrFormatMismatch means the raw value did not match the field's pattern.
	ErrFormatMismatch = errors.New("format mismatch")
	// ErrTypeMismatch means the raw value was not text.
	ErrTypeMismatch = ingestion.ErrTypeMismatch
)

// FieldError describes why one record field came out empty.
type FieldError struct {
	Field string
	Kind  error
	Raw   string
}

func (e *FieldError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("field %s: %v: %q", e.Field, e.Kind, e.Raw)
	}
	return fmt.Sprintf("field %s: %v", e.Field, e.Kind)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// newFieldError classifies err, as returned by a RawPage accessor, for field.
func newFieldError(field string, err error) *FieldError {
	kind := ErrMissingField
	if errors.Is(err, ErrTypeMismatch) {
		kind = ErrTypeMismatch
	}
	return &FieldError{Field: field, Kind: kind}
}

// SourceKindError is returned when an extractor is built for the wrong kind of source.
type SourceKindError struct {
	Source string
	Kind   string
}

func (e *SourceKindError) Error() string {
	return fmt.Sprintf("source %s: unsupported kind %q", e.Source, e.Kind)
}
