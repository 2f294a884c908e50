// This file implements the parts table.
package garage

import (
	"context"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

func pickParts(s *types.State) []types.Part { return s.Parts }

// PartTable reads and writes parts.
type PartTable struct {
	store *store.Store
}

// List returns every part, newest first.
func (t *PartTable) List(ctx context.Context) ([]types.Part, error) {
	return store.Read(ctx, t.store, pickParts)
}

// Get returns the part with id or ErrNotFound.
func (t *PartTable) Get(ctx context.Context, id int) (types.Part, error) {
	return get(ctx, t.store, pickParts, id)
}

// Create stores a new part.
func (t *PartTable) Create(ctx context.Context, in types.Part) (types.Part, error) {
	var out types.Part
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		p := in
		p.Normalize()
		if err := p.Validate(); err != nil {
			return err
		}
		p.ID = draft.NextID(types.PartsCollection)
		draft.Parts = prepend(draft.Parts, p)
		markDirty()
		out = p
		return nil
	})
	if err != nil {
		return types.Part{}, err
	}
	return out, nil
}

// Update replaces every field of part id with those of in. Prices already
// captured on orders do not change.
func (t *PartTable) Update(ctx context.Context, id int, in types.Part) (types.Part, error) {
	return t.Edit(ctx, id, func(p *types.Part) error {
		*p = in
		return nil
	})
}

// Edit applies change to part id in a single mutation, like ClientTable.Edit.
func (t *PartTable) Edit(ctx context.Context, id int, change func(*types.Part) error) (types.Part, error) {
	if err := checkID(id); err != nil {
		return types.Part{}, err
	}
	var out types.Part
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		i := indexOf(draft.Parts, id)
		if i < 0 {
			return types.ErrNotFound
		}
		p := draft.Parts[i].Clone()
		if err := change(&p); err != nil {
			return err
		}
		p.Normalize()
		if err := p.Validate(); err != nil {
			return err
		}
		p.ID = id
		draft.Parts[i] = p
		markDirty()
		out = p
		return nil
	})
	if err != nil {
		return types.Part{}, err
	}
	return out, nil
}

// Delete removes part id and strips it from every order. The orders stay.
func (t *PartTable) Delete(ctx context.Context, id int) (bool, error) {
	return deleteWith(ctx, t.store, id, deletePart)
}
