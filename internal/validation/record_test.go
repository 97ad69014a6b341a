package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/property-jobs/internal/types"
)

func TestValidateRecord_Valid(t *testing.T) {
	rec := types.NewJobRecord()
	rec.ID = "1000623765"
	rec.Agent.Phone1 = "01908 222 343"
	rec.Appointment.Address = types.PostalAddress{Street: "29 Test Street", Postcode: "MK4 4FY"}
	rec.SpecificRequirements = map[string]string{"StreetScape": "1"}

	assert.NoError(t, ValidateRecord(rec))
}

func TestValidateRecord_EmptyRecordIsValid(t *testing.T) {
	assert.NoError(t, ValidateRecord(types.NewJobRecord()))
}

func TestValidateRecord_Invalid(t *testing.T) {
	rec := types.NewJobRecord()
	rec.ID = "7"
	rec.Agent.Phone1 = "01908222343"
	rec.Appointment.Address.Postcode = "mk4 4fy"
	rec.PhotoCount = -1
	rec.Status = "DELETED"

	err := ValidateRecord(rec)
	require.Error(t, err)

	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "7", recErr.JobID)

	rules := map[string]string{}
	for _, fe := range recErr.Errors {
		rules[fe.Field[strings.LastIndex(fe.Field, ".")+1:]] = fe.Rule
	}
	assert.Len(t, recErr.Errors, 4)
	assert.Equal(t, "uktel", rules["Phone1"])
	assert.Equal(t, "postcode", rules["Postcode"])
	assert.Equal(t, "min", rules["PhotoCount"])
	assert.Equal(t, "oneof", rules["Status"])
	assert.Contains(t, err.Error(), "job 7 is invalid")
}

func TestValidateRecord_Nil(t *testing.T) {
	err := ValidateRecord(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record is nil")
}
