package types

import "fmt"

// ContactablePerson holds the name and validated phone numbers of a party to a job.
// It is embedded by value in Agent and used directly as the job's client.
type ContactablePerson struct {
	Name             string `json:"name,omitempty"`
	Phone1           string `json:"phone1,omitempty" validate:"omitempty,uktel"`
	Phone2           string `json:"phone2,omitempty" validate:"omitempty,uktel"`
	Notes            string `json:"notes,omitempty"`
	SecondaryContact string `json:"secondary_contact,omitempty"`
}

func (c ContactablePerson) String() string {
	return fmt.Sprintf("%s (%s) (%s)", c.Name, c.Phone1, c.Phone2)
}

// Agent is the estate agency branch selling the property.
type Agent struct {
	ContactablePerson
	Address PostalAddress `json:"address"`
}

// Vendor is the property owner. Phone numbers are kept as captured:
// Phone1 is the day number, Phone2 the mobile (or evening when no mobile
// was given) and Phone3 the evening number.
type Vendor struct {
	Name   string `json:"name,omitempty"`
	Phone1 string `json:"phone1,omitempty"`
	Phone2 string `json:"phone2,omitempty"`
	Phone3 string `json:"phone3,omitempty"`
}

func (v Vendor) String() string {
	return fmt.Sprintf("%s (%s) (%s)", orNA(v.Name), orNA(v.Phone1), orNA(v.Phone2))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
