// This file implements the services table.
package garage

import (
	"context"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

func pickServices(s *types.State) []types.Service { return s.Services }

// ServiceTable reads and writes the service catalog.
type ServiceTable struct {
	store *store.Store
}

// List returns every service, newest first.
func (t *ServiceTable) List(ctx context.Context) ([]types.Service, error) {
	return store.Read(ctx, t.store, pickServices)
}

// Get returns the service with id or ErrNotFound.
func (t *ServiceTable) Get(ctx context.Context, id int) (types.Service, error) {
	return get(ctx, t.store, pickServices, id)
}

// Create stores a new service.
func (t *ServiceTable) Create(ctx context.Context, in types.Service) (types.Service, error) {
	var out types.Service
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		s := in
		s.Normalize()
		if err := s.Validate(); err != nil {
			return err
		}
		s.ID = draft.NextID(types.ServicesCollection)
		draft.Services = prepend(draft.Services, s)
		markDirty()
		out = s
		return nil
	})
	if err != nil {
		return types.Service{}, err
	}
	return out, nil
}

// Update replaces every field of service id with those of in.
func (t *ServiceTable) Update(ctx context.Context, id int, in types.Service) (types.Service, error) {
	return t.Edit(ctx, id, func(s *types.Service) error {
		*s = in
		return nil
	})
}

// Edit applies change to service id in a single mutation, like ClientTable.Edit.
func (t *ServiceTable) Edit(ctx context.Context, id int, change func(*types.Service) error) (types.Service, error) {
	if err := checkID(id); err != nil {
		return types.Service{}, err
	}
	var out types.Service
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		i := indexOf(draft.Services, id)
		if i < 0 {
			return types.ErrNotFound
		}
		s := draft.Services[i].Clone()
		if err := change(&s); err != nil {
			return err
		}
		s.Normalize()
		if err := s.Validate(); err != nil {
			return err
		}
		s.ID = id
		draft.Services[i] = s
		markDirty()
		out = s
		return nil
	})
	if err != nil {
		return types.Service{}, err
	}
	return out, nil
}

// Delete removes service id and strips it from every order.
func (t *ServiceTable) Delete(ctx context.Context, id int) (bool, error) {
	return deleteWith(ctx, t.store, id, deleteService)
}
