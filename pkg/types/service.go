package types

import "strings"

// Service is a billable unit of labour offered by the workshop.
type Service struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// EntityID returns the service id.
func (s Service) EntityID() int { return s.ID }

// Clone returns an independent copy of the service.
func (s Service) Clone() Service { return s }

// UnitPrice returns the catalog price of one unit.
func (s Service) UnitPrice() float64 { return s.Price }

// Normalize trims the description.
func (s *Service) Normalize() {
	s.Description = strings.TrimSpace(s.Description)
}

// Validate rejects negative prices.
func (s Service) Validate() error {
	if s.Price < 0 {
		return Invalid("price", ErrNegativePrice)
	}
	return nil
}
