package types

import (
	"errors"
	"path/filepath"
)

// Config holds backend selection and the data directory for the store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Snapshot file names, one per backend.
const (
	JSONSnapshotFile   = "planu.json"
	SQLiteSnapshotFile = "planu.db"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// SnapshotPath returns the location of the durable snapshot for the
// configured backend. An empty DataDir resolves to the working directory.
func (c Config) SnapshotPath() string {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(dir, SQLiteSnapshotFile)
	}
	return filepath.Join(dir, JSONSnapshotFile)
}
