// Package seed provides the dataset a store starts from when it has no
// readable snapshot.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/mesh-intelligence/planu/internal/snapshot"
	"github.com/mesh-intelligence/planu/pkg/types"
)

//go:embed default.json
var defaultJSON []byte

// Default returns a fresh copy of the built-in workshop dataset.
func Default() (*types.State, error) {
	st, rep, err := snapshot.Decode(defaultJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding default seed: %w", err)
	}
	if n := rep.Total(); n > 0 {
		return nil, fmt.Errorf("decoding default seed: %d records dropped", n)
	}
	return st, nil
}

// Empty returns a state with every collection empty, for stores that should
// start blank.
func Empty() *types.State {
	return types.NewState()
}
