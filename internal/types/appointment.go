package types

import "time"

// AppointmentLayout is the human rendering of an appointment time ("Fri 08 Feb @ 00:00").
const AppointmentLayout = "Mon 02 Jan @ 15:04"

// Appointment is where and when a shoot takes place. When is nil until a time is agreed.
type Appointment struct {
	Address PostalAddress `json:"address"`
	When    *time.Time    `json:"when,omitempty"`
}

// String returns the appointment time in AppointmentLayout, or "TBA" when unset.
func (a Appointment) String() string {
	if a.When == nil {
		return "TBA"
	}
	return a.When.Format(AppointmentLayout)
}
