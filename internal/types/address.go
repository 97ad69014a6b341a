// Package types provides the domain value types for property-photography jobs.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PostalAddress is a street address with an optional mainland-UK postcode.
// Postcode is either empty or canonical uppercase ("MK4 4FY").
type PostalAddress struct {
	Street   string `json:"street,omitempty"`
	Postcode string `json:"postcode,omitempty" validate:"omitempty,postcode"`
}

// String renders the address as "<street>, <postcode>".
func (a PostalAddress) String() string {
	return a.Street + ", " + a.Postcode
}

// IsZero reports whether neither street nor postcode is known.
func (a PostalAddress) IsZero() bool {
	return a.Street == "" && a.Postcode == ""
}
