// Package garage exposes the workshop collections as typed tables over a
// store.Store. Every write runs as a single store mutation: ids, reference
// checks and cascades are all computed against the mutation's draft, so
// concurrent callers never observe a half-applied change.
package garage

import (
	"time"

	"github.com/mesh-intelligence/planu/internal/store"
)

// Garage bundles the table accessors for one store.
type Garage struct {
	Clients  *ClientTable
	Vehicles *VehicleTable
	Parts    *PartTable
	Services *ServiceTable
	Orders   *OrderTable
}

// Option configures a Garage.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used to default an order's entry date.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns the tables backed by st.
func New(st *store.Store, opts ...Option) *Garage {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Garage{
		Clients:  &ClientTable{store: st},
		Vehicles: &VehicleTable{store: st},
		Parts:    &PartTable{store: st},
		Services: &ServiceTable{store: st},
		Orders:   &OrderTable{store: st, now: o.now},
	}
}
