package types

import "strings"

// Vehicle is a car registered to a client.
type Vehicle struct {
	ID       int    `json:"id"`
	Plate    string `json:"plate"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	ClientID int    `json:"clientId"`
}

// EntityID returns the vehicle id.
func (v Vehicle) EntityID() int { return v.ID }

// Clone returns an independent copy of the vehicle.
func (v Vehicle) Clone() Vehicle { return v }

// NormalizePlate trims and upper-cases a licence plate so that "abc-1234 "
// and "ABC-1234" identify the same vehicle.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Normalize canonicalizes the plate and trims the free-text fields.
func (v *Vehicle) Normalize() {
	v.Plate = NormalizePlate(v.Plate)
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
}

// Validate checks the fields that do not depend on other records. Plate
// uniqueness and the client reference are checked against the store.
func (v Vehicle) Validate() error {
	if v.Plate == "" {
		return Invalid("plate", ErrPlateRequired)
	}
	if v.Year < 0 {
		return Invalid("year", ErrInvalidYear)
	}
	return nil
}
