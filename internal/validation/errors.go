package validation

import (
	"fmt"
	"strings"
)

// Error represents a general validation error
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FieldError is a single invariant broken by a record.
type FieldError struct {
	Field string
	Rule  string
	Value any
}

// RecordError lists every invariant a job record breaks.
type RecordError struct {
	JobID  string
	Errors []FieldError
}

func (e *RecordError) Error() string {
	var sb strings.Builder
	if e.JobID != "" {
		sb.WriteString(fmt.Sprintf("job %s is invalid:", e.JobID))
	} else {
		sb.WriteString("job is invalid:")
	}
	for _, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %s failed %q (%v);", fe.Field, fe.Rule, fe.Value))
	}
	return strings.TrimSuffix(sb.String(), ";")
}
