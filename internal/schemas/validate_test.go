package schemas

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/property-jobs/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobRecordSchema = "../../schemas/job_record.schema.json"

func TestValidateJSON_ValidJSON(t *testing.T) {
	err := ValidateJSON(jobRecordSchema, filepath.Join("testdata", "valid_record.json"))
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	err := ValidateJSON(jobRecordSchema, filepath.Join("testdata", "missing_field.json"))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
	assert.Contains(t, err.Error(), "floorplan")
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	err := ValidateJSON(jobRecordSchema, filepath.Join("testdata", "type_mismatch.json"))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Len(t, validationErr.Errors, 2)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_record.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	err := ValidateJSON(jobRecordSchema, "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	tmpDir := t.TempDir()
	malformedJSON := filepath.Join(tmpDir, "malformed.json")
	require.NoError(t, os.WriteFile(malformedJSON, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(jobRecordSchema, malformedJSON)
	require.Error(t, err)
}

func TestValidateJobRecord(t *testing.T) {
	when := time.Date(2018, time.December, 8, 15, 0, 0, 0, time.UTC)

	rec := types.NewJobRecord()
	rec.ID = "HSS103120"
	rec.Source = "hs"
	rec.Client.Name = "House Simple"
	rec.Vendor.Name = "joe blogs"
	rec.Appointment = types.Appointment{
		Address: types.PostalAddress{Street: "37 Testy Road, Testtown, Bedfordshire", Postcode: "MK41 5DA"},
		When:    &when,
	}
	rec.Floorplan = true
	rec.PhotoCount = 20

	assert.NoError(t, ValidateJobRecord(rec))

	assert.NoError(t, ValidateJobRecord(types.NewJobRecord()), "empty record is valid")

	rec.PhotoCount = -1
	rec.Status = "DONE"
	err := ValidateJobRecord(rec)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 2)
}

func TestValidateJobRecordFile(t *testing.T) {
	assert.NoError(t, ValidateJobRecordFile(filepath.Join("testdata", "valid_record.json")))
	assert.Error(t, ValidateJobRecordFile(filepath.Join("testdata", "missing_field.json")))

	err := ValidateJobRecordFile(filepath.Join("testdata", "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	assert.Error(t, ValidateJobRecordFile(bad))
}

func TestValidateBuiltin_UnknownSchema(t *testing.T) {
	err := ValidateBuiltin("missing.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.schema.json", loadErr.Path)
}

func TestValidateBuiltin_CachesSchema(t *testing.T) {
	first, err := builtin("job_record.schema.json")
	require.NoError(t, err)
	second, err := builtin("job_record.schema.json")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestValidateJSON_NestedFieldValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	jsonContent := `{"person": {}}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
	// Check that the field path includes nested field
	found := false
	for _, fieldErr := range validationErr.Errors {
		if fieldErr.Field != "" {
			found = true
			break
		}
	}
	assert.True(t, found, "should include field path in error")
}
