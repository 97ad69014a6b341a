package parsing

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsByKind(t *testing.T) {
	ka, err := config.LoadSource("ka")
	require.NoError(t, err)
	hs, err := config.LoadSource("hs")
	require.NoError(t, err)

	ex, err := New(ka)
	require.NoError(t, err)
	assert.IsType(t, &KA{}, ex)
	assert.Same(t, ka, ex.Source())

	ex, err = New(hs)
	require.NoError(t, err)
	assert.IsType(t, &HS{}, ex)

	_, err = NewKA(hs)
	var kindErr *SourceKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "hs", kindErr.Kind)

	_, err = NewHS(ka)
	require.ErrorAs(t, err, &kindErr)
}

func TestMapJob_Idempotent(t *testing.T) {
	for _, tc := range []struct{ source, fixture string }{
		{"ka", "ka_job.html"},
		{"hs", "hs_job.html"},
	} {
		t.Run(tc.source, func(t *testing.T) {
			ex, page := loadPage(t, tc.source, tc.fixture)

			first := MapJob(ex, page)
			second := MapJob(ex, page)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("second extraction differs (-first +second):\n%s", diff)
			}
			assert.NotSame(t, first, second)
		})
	}
}

func TestDiagnose_KAFieldKinds(t *testing.T) {
	ex, _ := loadPage(t, "ka", "ka_job.html")

	var page ingestion.RawPage
	require.NoError(t, json.Unmarshal([]byte(`{
		"source": "ka",
		"fields": {"id": "12A", "vendor": 42, "appointment": "Fri-08 Xyz 19 0000"},
		"tables": {}
	}`), &page))

	rec := MapJob(ex, &page)
	assert.Equal(t, "", rec.ID)
	assert.Equal(t, "", rec.Vendor.Name)
	assert.Nil(t, rec.Appointment.When)

	kinds := map[string]error{}
	for _, e := range Diagnose(ex, &page, rec) {
		kinds[e.Field] = e.Kind
	}

	assert.Equal(t, map[string]error{
		"id":                           ErrFormatMismatch,
		"agent.name":                   ErrMissingField,
		"agent.phone1":                 ErrMissingField,
		"agent.phone2":                 ErrMissingField,
		"vendor.name":                  ErrTypeMismatch,
		"vendor.phone1":                ErrTypeMismatch,
		"appointment.address.postcode": ErrMissingField,
		"appointment.when":             ErrFormatMismatch,
		"property_type":                ErrMissingField,
		"bedrooms":                     ErrMissingField,
		"notes":                        ErrMissingField,
		"floorplan":                    ErrMissingField,
		"photo_count":                  ErrMissingField,
		"specific_requirements":        ErrMissingField,
		"history":                      ErrMissingField,
	}, kinds)
}

func TestFieldError(t *testing.T) {
	err := &FieldError{Field: "id", Kind: ErrFormatMismatch, Raw: "12A"}
	assert.Equal(t, `field id: format mismatch: "12A"`, err.Error())
	assert.ErrorIs(t, err, ErrFormatMismatch)

	err = &FieldError{Field: "notes", Kind: ErrMissingField}
	assert.Equal(t, "field notes: missing field", err.Error())
}
