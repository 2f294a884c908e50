package garage

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

// indexOf returns the position of the record with id, or -1.
func indexOf[T types.Entity[T]](items []T, id int) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

// prepend puts item at the front of items. New records are listed first.
func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// removeWhere drops every item for which drop reports true and returns the
// remaining items and the number removed.
func removeWhere[T any](items []T, drop func(T) bool) ([]T, int) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out, len(items) - len(out)
}

// removeByID drops the record with id and reports whether it was present.
func removeByID[T types.Entity[T]](items []T, id int) ([]T, bool) {
	out, n := removeWhere(items, func(item T) bool { return item.EntityID() == id })
	return out, n > 0
}

// checkID rejects ids that can never be assigned.
func checkID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", types.ErrInvalidID, id)
	}
	return nil
}

// get returns a copy of the record with id from the collection pick selects.
// Returns ErrNotFound if there is no such record.
func get[T types.Entity[T]](ctx context.Context, st *store.Store, pick func(*types.State) []T, id int) (T, error) {
	var out T
	if err := checkID(id); err != nil {
		return out, err
	}
	err := st.View(ctx, func(s *types.State) error {
		items := pick(s)
		i := indexOf(items, id)
		if i < 0 {
			return types.ErrNotFound
		}
		out = items[i].Clone()
		return nil
	})
	return out, err
}

// listWhere returns copies of the records in the collection pick selects
// for which keep reports true.
func listWhere[T types.Cloner[T]](ctx context.Context, st *store.Store, pick func(*types.State) []T, keep func(T) bool) ([]T, error) {
	out := []T{}
	err := st.View(ctx, func(s *types.State) error {
		for _, item := range pick(s) {
			if keep(item) {
				out = append(out, item.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mustExist reports a ValidationError for field when id is not in items.
func mustExist[T types.Entity[T]](items []T, field string, id int) error {
	if indexOf(items, id) < 0 {
		return types.Invalid(field, fmt.Errorf("%w: %d", types.ErrReferenceNotFound, id))
	}
	return nil
}
