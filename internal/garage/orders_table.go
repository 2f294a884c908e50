// This file implements the service orders table.
package garage

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

func pickOrders(s *types.State) []types.ServiceOrder { return s.ServiceOrders }

// OrderTable reads and writes service orders.
type OrderTable struct {
	store *store.Store
	now   func() time.Time
}

// List returns every order, newest first.
func (t *OrderTable) List(ctx context.Context) ([]types.ServiceOrder, error) {
	return store.Read(ctx, t.store, pickOrders)
}

// ListByClient returns the orders of clientID.
func (t *OrderTable) ListByClient(ctx context.Context, clientID int) ([]types.ServiceOrder, error) {
	return listWhere(ctx, t.store, pickOrders, func(o types.ServiceOrder) bool {
		return o.ClientID == clientID
	})
}

// Get returns the order with id or ErrNotFound.
func (t *OrderTable) Get(ctx context.Context, id int) (types.ServiceOrder, error) {
	return get(ctx, t.store, pickOrders, id)
}

// Create stores a new order. Repeated line item ids are merged into one item
// and each item records the current catalog price of its service or part.
// An empty status means in progress; an empty entry date means today.
func (t *OrderTable) Create(ctx context.Context, in types.ServiceOrder) (types.ServiceOrder, error) {
	var out types.ServiceOrder
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		o, err := t.prepare(draft, in, nil)
		if err != nil {
			return err
		}
		o.ID = draft.NextID(types.ServiceOrdersCollection)
		draft.ServiceOrders = prepend(draft.ServiceOrders, o)
		markDirty()
		out = o.Clone()
		return nil
	})
	if err != nil {
		return types.ServiceOrder{}, err
	}
	return out, nil
}

// Update replaces every field of order id with those of in. Items already on
// the order keep the price they were recorded with; new items take the
// current catalog price.
func (t *OrderTable) Update(ctx context.Context, id int, in types.ServiceOrder) (types.ServiceOrder, error) {
	return t.Edit(ctx, id, func(o *types.ServiceOrder) error {
		*o = in
		return nil
	})
}

// Edit runs change on a copy of the stored order and saves the result if it
// still validates, pricing line items the way Update does. The read and the
// write happen in one mutation.
func (t *OrderTable) Edit(ctx context.Context, id int, change func(*types.ServiceOrder) error) (types.ServiceOrder, error) {
	if err := checkID(id); err != nil {
		return types.ServiceOrder{}, err
	}
	var out types.ServiceOrder
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		i := indexOf(draft.ServiceOrders, id)
		if i < 0 {
			return types.ErrNotFound
		}
		edited := draft.ServiceOrders[i].Clone()
		if err := change(&edited); err != nil {
			return err
		}
		o, err := t.prepare(draft, edited, &draft.ServiceOrders[i])
		if err != nil {
			return err
		}
		o.ID = id
		draft.ServiceOrders[i] = o
		markDirty()
		out = o.Clone()
		return nil
	})
	if err != nil {
		return types.ServiceOrder{}, err
	}
	return out, nil
}

// UpdateStatus moves order id to status.
func (t *OrderTable) UpdateStatus(ctx context.Context, id int, status string) (types.ServiceOrder, error) {
	if err := checkID(id); err != nil {
		return types.ServiceOrder{}, err
	}
	if !types.ValidStatus(status) {
		return types.ServiceOrder{}, types.Invalid("status", fmt.Errorf("%w: %q", types.ErrInvalidStatus, status))
	}
	var out types.ServiceOrder
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		i := indexOf(draft.ServiceOrders, id)
		if i < 0 {
			return types.ErrNotFound
		}
		draft.ServiceOrders[i].Status = status
		markDirty()
		out = draft.ServiceOrders[i].Clone()
		return nil
	})
	if err != nil {
		return types.ServiceOrder{}, err
	}
	return out, nil
}

// Delete removes order id.
func (t *OrderTable) Delete(ctx context.Context, id int) (bool, error) {
	return deleteWith(ctx, t.store, id, deleteOrder)
}

// prepare normalizes in and checks it against draft. prev is the stored
// order on update and nil on create.
func (t *OrderTable) prepare(draft *types.State, in types.ServiceOrder, prev *types.ServiceOrder) (types.ServiceOrder, error) {
	o := in.Clone()
	o.Normalize()
	if o.Status == "" {
		o.Status = types.StatusInProgress
	}
	if o.EntryDate == "" {
		o.EntryDate = t.now().Format(types.EntryDateLayout)
	}
	if err := o.Validate(); err != nil {
		return o, err
	}

	if err := mustExist(draft.Clients, "clientId", o.ClientID); err != nil {
		return o, err
	}
	vi := indexOf(draft.Vehicles, o.VehicleID)
	if vi < 0 {
		return o, types.Invalid("vehicleId", fmt.Errorf("%w: %d", types.ErrReferenceNotFound, o.VehicleID))
	}
	if owner := draft.Vehicles[vi].ClientID; owner != o.ClientID {
		return o, types.Invalid("vehicleId", fmt.Errorf("%w: vehicle %d belongs to client %d",
			types.ErrVehicleClientMismatch, o.VehicleID, owner))
	}

	var prevServices, prevParts []types.LineItem
	if prev != nil {
		prevServices, prevParts = prev.Services, prev.Parts
	}
	if err := priceItems(o.Services, prevServices, "services", draft.Services); err != nil {
		return o, err
	}
	if err := priceItems(o.Parts, prevParts, "parts", draft.Parts); err != nil {
		return o, err
	}
	return o, nil
}

// pricedEntity is a catalog record with a unit price.
type pricedEntity[T any] interface {
	types.Entity[T]
	UnitPrice() float64
}

// priceItems checks that every item references a record in catalog and sets
// its price: the price already recorded in prev when the id was on the order
// before, the catalog price otherwise.
func priceItems[T pricedEntity[T]](items, prev []types.LineItem, field string, catalog []T) error {
	recorded := make(map[int]float64, len(prev))
	for _, item := range prev {
		recorded[item.ID] = item.Price
	}
	for i := range items {
		ci := indexOf(catalog, items[i].ID)
		if ci < 0 {
			return types.Invalid(field, fmt.Errorf("%w: %d", types.ErrReferenceNotFound, items[i].ID))
		}
		if price, ok := recorded[items[i].ID]; ok {
			items[i].Price = price
			continue
		}
		items[i].Price = catalog[ci].UnitPrice()
	}
	return nil
}
