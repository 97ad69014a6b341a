package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/property-jobs/internal/types"
)

var validate = newValidator()

// newValidator returns a validator that knows the "postcode" and "uktel" tags.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("postcode", func(fl validator.FieldLevel) bool {
		pc, ok := ValidatePostcode(fl.Field().String())
		return ok && pc == fl.Field().String()
	})
	_ = v.RegisterValidation("uktel", func(fl validator.FieldLevel) bool {
		return IsFormattedTel(fl.Field().String())
	})
	return v
}

// Struct validates any value tagged with the package's rules.
func Struct(s any) error {
	return validate.Struct(s)
}

// ValidateRecord checks the invariants of a finished job record: canonical
// postcodes and phone numbers, a known status and a non-negative photo count.
func ValidateRecord(rec *types.JobRecord) error {
	if rec == nil {
		return &Error{Message: "record is nil"}
	}

	err := validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Message: "record could not be validated", Cause: err}
	}

	recErr := &RecordError{JobID: rec.ID, Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		recErr.Errors = append(recErr.Errors, FieldError{
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
			Value: fe.Value(),
		})
	}
	return recErr
}
