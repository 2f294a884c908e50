// This file implements the vehicles table.
package garage

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

func pickVehicles(s *types.State) []types.Vehicle { return s.Vehicles }

// VehicleTable reads and writes vehicles.
type VehicleTable struct {
	store *store.Store
}

// List returns every vehicle, newest first.
func (t *VehicleTable) List(ctx context.Context) ([]types.Vehicle, error) {
	return store.Read(ctx, t.store, pickVehicles)
}

// ListByClient returns the vehicles owned by clientID.
func (t *VehicleTable) ListByClient(ctx context.Context, clientID int) ([]types.Vehicle, error) {
	return listWhere(ctx, t.store, pickVehicles, func(v types.Vehicle) bool {
		return v.ClientID == clientID
	})
}

// Get returns the vehicle with id or ErrNotFound.
func (t *VehicleTable) Get(ctx context.Context, id int) (types.Vehicle, error) {
	return get(ctx, t.store, pickVehicles, id)
}

// Create stores a new vehicle. The plate is normalized and must not belong
// to another vehicle; the owning client must exist.
func (t *VehicleTable) Create(ctx context.Context, in types.Vehicle) (types.Vehicle, error) {
	var out types.Vehicle
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		v := in
		if err := checkVehicle(draft, &v, 0); err != nil {
			return err
		}
		v.ID = draft.NextID(types.VehiclesCollection)
		draft.Vehicles = prepend(draft.Vehicles, v)
		markDirty()
		out = v
		return nil
	})
	if err != nil {
		return types.Vehicle{}, err
	}
	return out, nil
}

// Update replaces every field of vehicle id with those of in. Orders that
// already reference the vehicle are left as they are.
func (t *VehicleTable) Update(ctx context.Context, id int, in types.Vehicle) (types.Vehicle, error) {
	return t.Edit(ctx, id, func(v *types.Vehicle) error {
		*v = in
		return nil
	})
}

// Edit runs change on a copy of the stored vehicle and saves the result if it
// still validates. The read and the write happen in one mutation, so fields
// change leaves alone keep whatever a concurrent writer stored last.
func (t *VehicleTable) Edit(ctx context.Context, id int, change func(*types.Vehicle) error) (types.Vehicle, error) {
	if err := checkID(id); err != nil {
		return types.Vehicle{}, err
	}
	var out types.Vehicle
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		i := indexOf(draft.Vehicles, id)
		if i < 0 {
			return types.ErrNotFound
		}
		v := draft.Vehicles[i].Clone()
		if err := change(&v); err != nil {
			return err
		}
		if err := checkVehicle(draft, &v, id); err != nil {
			return err
		}
		v.ID = id
		draft.Vehicles[i] = v
		markDirty()
		out = v
		return nil
	})
	if err != nil {
		return types.Vehicle{}, err
	}
	return out, nil
}

// Delete removes vehicle id and every order for it.
func (t *VehicleTable) Delete(ctx context.Context, id int) (bool, error) {
	return deleteWith(ctx, t.store, id, deleteVehicle)
}

// checkVehicle normalizes v and validates it against draft. self is the id
// of the vehicle being updated, or 0 on create.
func checkVehicle(draft *types.State, v *types.Vehicle, self int) error {
	v.Normalize()
	if err := v.Validate(); err != nil {
		return err
	}
	if err := mustExist(draft.Clients, "clientId", v.ClientID); err != nil {
		return err
	}
	for _, other := range draft.Vehicles {
		if other.ID != self && types.NormalizePlate(other.Plate) == v.Plate {
			return types.Invalid("plate", fmt.Errorf("%w: %s", types.ErrPlateTaken, v.Plate))
		}
	}
	return nil
}
