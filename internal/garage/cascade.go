// This file holds the delete cascades. Each one edits a draft in place and
// reports whether the primary record existed; dependents are removed in the
// same draft so the whole cascade commits or fails as one.
package garage

import (
	"context"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

// cascadeFunc deletes id from draft and everything that depends on it.
type cascadeFunc func(draft *types.State, id int) bool

// deleteWith runs cascade as one mutation. The draft is only persisted when
// the primary record existed.
func deleteWith(ctx context.Context, st *store.Store, id int, cascade cascadeFunc) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	var deleted bool
	err := st.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		deleted = cascade(draft, id)
		if deleted {
			markDirty()
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func deleteClient(draft *types.State, id int) bool {
	var ok bool
	if draft.Clients, ok = removeByID(draft.Clients, id); !ok {
		return false
	}
	owned := make(map[int]bool)
	draft.Vehicles, _ = removeWhere(draft.Vehicles, func(v types.Vehicle) bool {
		if v.ClientID == id {
			owned[v.ID] = true
			return true
		}
		return false
	})
	draft.ServiceOrders, _ = removeWhere(draft.ServiceOrders, func(o types.ServiceOrder) bool {
		return o.ClientID == id || owned[o.VehicleID]
	})
	return true
}

func deleteVehicle(draft *types.State, id int) bool {
	var ok bool
	if draft.Vehicles, ok = removeByID(draft.Vehicles, id); !ok {
		return false
	}
	draft.ServiceOrders, _ = removeWhere(draft.ServiceOrders, func(o types.ServiceOrder) bool {
		return o.VehicleID == id
	})
	return true
}

func deletePart(draft *types.State, id int) bool {
	var ok bool
	if draft.Parts, ok = removeByID(draft.Parts, id); !ok {
		return false
	}
	for i := range draft.ServiceOrders {
		draft.ServiceOrders[i].Parts, _ = types.StripLineItem(draft.ServiceOrders[i].Parts, id)
	}
	return true
}

func deleteService(draft *types.State, id int) bool {
	var ok bool
	if draft.Services, ok = removeByID(draft.Services, id); !ok {
		return false
	}
	for i := range draft.ServiceOrders {
		draft.ServiceOrders[i].Services, _ = types.StripLineItem(draft.ServiceOrders[i].Services, id)
	}
	return true
}

func deleteOrder(draft *types.State, id int) bool {
	var ok bool
	draft.ServiceOrders, ok = removeByID(draft.ServiceOrders, id)
	return ok
}
