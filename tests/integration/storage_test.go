// Snapshot recovery and backend selection, observed through the binary.
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/planu/pkg/types"
)

// TestBackendWritesItsSnapshotFile verifies the file name per backend.
func TestBackendWritesItsSnapshotFile(t *testing.T) {
	tests := []struct {
		backend string
		want    string
		absent  string
	}{
		{types.BackendJSON, types.JSONSnapshotFile, types.SQLiteSnapshotFile},
		{types.BackendSQLite, types.SQLiteSnapshotFile, types.JSONSnapshotFile},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			env := NewTestEnv(t, tt.backend)
			env.MustRun("init")

			assert.FileExists(t, filepath.Join(env.DataDir, tt.want))
			assert.NoFileExists(t, filepath.Join(env.DataDir, tt.absent))
		})
	}
}

// TestJSONSnapshotIsReadable verifies the JSON snapshot layout on disk.
func TestJSONSnapshotIsReadable(t *testing.T) {
	env := NewTestEnv(t, types.BackendJSON)
	env.MustRun("clients", "create", "--name", "Ana")

	data, err := os.ReadFile(filepath.Join(env.DataDir, types.JSONSnapshotFile))
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"clients", "vehicles", "parts", "services", "serviceOrders"} {
		assert.Contains(t, doc, key)
	}

	var state types.State
	require.NoError(t, json.Unmarshal(data, &state))
	require.NotEmpty(t, state.Clients)
	assert.Equal(t, "Ana", state.Clients[0].Name)
}

// TestCorruptSnapshotIsReseeded verifies that an unreadable snapshot is
// replaced with the default dataset instead of failing the command.
func TestCorruptSnapshotIsReseeded(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			env.MustRun("init")
			env.MustRun("clients", "create", "--name", "Lost on reseed")

			snapshotPath := types.Config{Backend: backend, DataDir: env.DataDir}.SnapshotPath()
			require.NoError(t, os.WriteFile(snapshotPath, []byte("{ not a snapshot"), 0o644))

			result := env.MustRun("--log-level", "warn", "--json", "clients", "list")
			clients := ParseJSON[[]types.Client](t, result.Stdout)
			assert.Len(t, clients, 4)
			assert.NotEmpty(t, result.Stderr, "reseeding is logged")

			// The reseeded snapshot is valid for the next process.
			assert.Len(t, MustJSON[[]types.Client](env, "clients", "list"), 4)
		})
	}
}

// TestUnwritableDataDirIsSystemError verifies exit code 2 when the snapshot
// cannot be written.
func TestUnwritableDataDirIsSystemError(t *testing.T) {
	env := NewTestEnv(t, types.BackendJSON)
	blocker := filepath.Join(env.TempDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	result := env.Run("--data-dir", filepath.Join(blocker, "data"), "clients", "list")
	assert.Equal(t, 2, result.ExitCode)
	assert.Contains(t, result.Stderr, "Error:")
}
