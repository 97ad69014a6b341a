package parsing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/property-jobs/internal/config"
	"github.com/jonathan/property-jobs/internal/ingestion"
	"github.com/jonathan/property-jobs/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKA_ExtractID(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")
	assert.Equal(t, "1000623765", ex.ExtractID(page))

	page.Fields[config.FieldID] = "HIP-1000623765"
	assert.Equal(t, "", ex.ExtractID(page))
}

func TestKA_ExtractAgent(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	a := ex.ExtractAgent(page)
	assert.Equal(t, "Connells - Stony Stratford", a.Name)
	assert.Equal(t, "01908 222 343", a.Phone1)
	assert.Equal(t, "01908 111 999", a.Phone2)
}

func TestKA_ExtractVendor(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	v := ex.ExtractVendor(page)
	assert.Equal(t, "Mrs Sue Blogs", v.Name)
	assert.Equal(t, "07891 123 211", v.Phone1)
	assert.Equal(t, "07991 332 456", v.Phone2, "evening number stands in for a missing mobile")
	assert.Equal(t, "07991 332 456", v.Phone3)
}

func TestKA_ExtractVendor_PrefersMobile(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")
	page.Fields[config.FieldVendor] = "Mr Tom Smith DAY: 01234 567890 MOB: 07700 900123 EVE: 01234 111222 Email: tom@example.com"

	v := ex.ExtractVendor(page)
	assert.Equal(t, "Mr Tom Smith", v.Name)
	assert.Equal(t, "07700 900123", v.Phone2)
	assert.Equal(t, "01234 111222", v.Phone3)
}

func TestKA_SimpleFields(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	assert.Equal(t, "House", ex.ExtractPropertyType(page))
	assert.Equal(t, "3", ex.ExtractBeds(page))
	assert.True(t, ex.ExtractFloorplan(page))
	assert.Equal(t, 20, ex.ExtractPhotos(page))
}

func TestKA_ExtractPhotos_DefaultsToZero(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	page.Fields[config.FieldPhotos] = "photos as agreed"
	assert.Equal(t, 0, ex.ExtractPhotos(page))

	delete(page.Fields, config.FieldPhotos)
	assert.Equal(t, 0, ex.ExtractPhotos(page))
}

func TestKA_ExtractFloorplan(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	page.Fields[config.FieldFloorplan] = "No"
	assert.False(t, ex.ExtractFloorplan(page))

	delete(page.Fields, config.FieldFloorplan)
	assert.False(t, ex.ExtractFloorplan(page))
}

func TestKA_ExtractNotes(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	assert.Equal(t, []string{
		"Agency Preferences: Nice photos only please",
		"General Notes: Take every angle.",
		"Please get shots of the approach",
	}, ex.ExtractNotes(page))
}

func TestKA_ExtractAppointment(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	addr := ex.ExtractAddress(page)
	assert.Equal(t, "29, Test Street Testville, Milton Keynes", addr.Street)
	assert.Equal(t, "MK4 4FY", addr.Postcode)

	when := ex.ExtractTime(page)
	require.NotNil(t, when)
	assert.Equal(t, time.Date(2019, time.February, 8, 0, 0, 0, 0, time.UTC), *when)

	appt := types.Appointment{Address: addr, When: when}
	assert.Equal(t, "Fri 08 Feb @ 00:00", appt.String())
}

func TestKA_ExtractTime_Malformed(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	for _, raw := range []string{"", "TBC", "Fri-08 Xyz 19 0000", "Fri-31 Feb 19 1200", "Fri-08 Feb 19 25"} {
		page.Fields[config.FieldAppointment] = raw
		assert.Nil(t, ex.ExtractTime(page), raw)
	}
}

func TestKA_ExtractRequirements(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	reqs := ex.(RequirementsExtractor).ExtractRequirements(page)
	assert.Equal(t, map[string]string{"StreetScape": "1", "Kitchen": "2"}, reqs)
}

func TestKA_ExtractRequirements_Malformed(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")
	rx := ex.(RequirementsExtractor)

	page.Tables[config.TableSpecificRequirements] = "<table><tr><th>Room</th><th>Count</th></tr><tr><td>Hall</td><td>1</td></tr></table>"
	assert.Nil(t, rx.ExtractRequirements(page))

	page.Tables[config.TableSpecificRequirements] = "<p>No requirements</p>"
	assert.Nil(t, rx.ExtractRequirements(page))

	delete(page.Tables, config.TableSpecificRequirements)
	assert.Nil(t, rx.ExtractRequirements(page))
}

func TestKA_ExtractHistory(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")

	history := ex.(HistoryExtractor).ExtractHistory(page)
	assert.Equal(t, []types.HistoryEntry{
		{Date: "04/02/2019 10:12", Author: "SC", Note: "Confirmed appt"},
		{Date: "05/02/2019 09:30", Author: "SC", Note: "Changed : "},
	}, history)
}

func TestKA_ExtractHistory_Missing(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")
	delete(page.Tables, config.TableHistory)

	assert.Nil(t, ex.(HistoryExtractor).ExtractHistory(page))
}

func TestKA_MapJob(t *testing.T) {
	ex, page := loadPage(t, "ka", "ka_job.html")
	when := time.Date(2019, time.February, 8, 0, 0, 0, 0, time.UTC)

	want := &types.JobRecord{
		ID:     "1000623765",
		Source: "ka",
		Client: types.ContactablePerson{Name: "KeyAGENT"},
		Agent: types.Agent{ContactablePerson: types.ContactablePerson{
			Name:   "Connells - Stony Stratford",
			Phone1: "01908 222 343",
			Phone2: "01908 111 999",
		}},
		Vendor: types.Vendor{
			Name:   "Mrs Sue Blogs",
			Phone1: "07891 123 211",
			Phone2: "07991 332 456",
			Phone3: "07991 332 456",
		},
		Appointment: types.Appointment{
			Address: types.PostalAddress{Street: "29, Test Street Testville, Milton Keynes", Postcode: "MK4 4FY"},
			When:    &when,
		},
		PropertyType: "House",
		Bedrooms:     "3",
		Notes: []string{
			"Agency Preferences: Nice photos only please",
			"General Notes: Take every angle.",
			"Please get shots of the approach",
		},
		Floorplan:            true,
		PhotoCount:           20,
		SpecificRequirements: map[string]string{"StreetScape": "1", "Kitchen": "2"},
		History: []types.HistoryEntry{
			{Date: "04/02/2019 10:12", Author: "SC", Note: "Confirmed appt"},
			{Date: "05/02/2019 09:30", Author: "SC", Note: "Changed : "},
		},
		Status: types.StatusActive,
	}

	got := MapJob(ex, page)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapJob() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Diagnose(ex, page, got))
}

func TestKA_EmptyPage(t *testing.T) {
	ex, _ := loadPage(t, "ka", "ka_job.html")
	page := ingestion.NewRawPage("ka", "")

	rec := MapJob(ex, page)
	assert.Equal(t, "", rec.ID)
	assert.Equal(t, "KeyAGENT", rec.Client.Name)
	assert.Nil(t, rec.Appointment.When)
	assert.Nil(t, rec.Notes)
	assert.Nil(t, rec.SpecificRequirements)
	assert.Nil(t, rec.History)
	assert.Equal(t, 0, rec.PhotoCount)
	assert.Equal(t, types.StatusActive, rec.Status)
}
