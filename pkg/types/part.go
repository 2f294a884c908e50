package types

import "strings"

// Part is a stock item that can be used on a service order.
type Part struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Code  string  `json:"code"`
	Stock int     `json:"stock"`
	Price float64 `json:"price"`
}

// EntityID returns the part id.
func (p Part) EntityID() int { return p.ID }

// Clone returns an independent copy of the part.
func (p Part) Clone() Part { return p }

// UnitPrice returns the catalog price of one unit.
func (p Part) UnitPrice() float64 { return p.Price }

// Normalize trims the text fields.
func (p *Part) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.TrimSpace(p.Code)
}

// Validate rejects negative stock and prices.
func (p Part) Validate() error {
	if p.Stock < 0 {
		return Invalid("stock", ErrNegativeStock)
	}
	if p.Price < 0 {
		return Invalid("price", ErrNegativePrice)
	}
	return nil
}
