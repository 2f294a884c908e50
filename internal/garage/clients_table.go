// This file implements the clients table.
package garage

import (
	"context"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

func pickClients(s *types.State) []types.Client { return s.Clients }

// ClientTable reads and writes clients.
type ClientTable struct {
	store *store.Store
}

// List returns every client, newest first.
func (t *ClientTable) List(ctx context.Context) ([]types.Client, error) {
	return store.Read(ctx, t.store, pickClients)
}

// Get returns the client with id or ErrNotFound.
func (t *ClientTable) Get(ctx context.Context, id int) (types.Client, error) {
	return get(ctx, t.store, pickClients, id)
}

// Create assigns the next client id to in and stores it.
func (t *ClientTable) Create(ctx context.Context, in types.Client) (types.Client, error) {
	var out types.Client
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		c := in
		c.Normalize()
		if err := c.Validate(); err != nil {
			return err
		}
		c.ID = draft.NextID(types.ClientsCollection)
		draft.Clients = prepend(draft.Clients, c)
		markDirty()
		out = c.Clone()
		return nil
	})
	if err != nil {
		return types.Client{}, err
	}
	return out, nil
}

// Update replaces every field of client id with those of in. Returns
// ErrNotFound, without writing anything, when there is no such client.
func (t *ClientTable) Update(ctx context.Context, id int, in types.Client) (types.Client, error) {
	return t.Edit(ctx, id, func(c *types.Client) error {
		*c = in
		return nil
	})
}

// Edit runs change on a copy of the stored client and saves the result if it
// still validates. The read and the write happen in one mutation, so fields
// change leaves alone keep whatever a concurrent writer stored last.
func (t *ClientTable) Edit(ctx context.Context, id int, change func(*types.Client) error) (types.Client, error) {
	if err := checkID(id); err != nil {
		return types.Client{}, err
	}
	var out types.Client
	err := t.store.Mutate(ctx, func(draft *types.State, markDirty func()) error {
		i := indexOf(draft.Clients, id)
		if i < 0 {
			return types.ErrNotFound
		}
		c := draft.Clients[i].Clone()
		if err := change(&c); err != nil {
			return err
		}
		c.Normalize()
		if err := c.Validate(); err != nil {
			return err
		}
		c.ID = id
		draft.Clients[i] = c
		markDirty()
		out = c.Clone()
		return nil
	})
	if err != nil {
		return types.Client{}, err
	}
	return out, nil
}

// Delete removes client id together with its vehicles and every order that
// names the client or one of those vehicles. Reports whether the client
// existed.
func (t *ClientTable) Delete(ctx context.Context, id int) (bool, error) {
	return deleteWith(ctx, t.store, id, deleteClient)
}
