package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/planu/pkg/types"
)

// FileCodec stores the snapshot as one JSON document at Path.
type FileCodec struct {
	Path string
}

// NewFileCodec returns a FileCodec for path.
func NewFileCodec(path string) *FileCodec {
	return &FileCodec{Path: path}
}

// Load reads and decodes the snapshot file. A missing file is ErrNotFound;
// any other read failure or undecodable content is ErrCorrupt.
func (c *FileCodec) Load(_ context.Context) (*types.State, Report, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Report{}, fmt.Errorf("%w: %s", ErrNotFound, c.Path)
		}
		return nil, Report{}, corrupt(err)
	}
	return Decode(data)
}

// Save encodes st and replaces the snapshot file atomically, creating parent
// directories as needed.
func (c *FileCodec) Save(_ context.Context, st *types.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	return writeAtomic(c.Path, data)
}

// writeAtomic writes data to path using the temp-file, fsync, rename
// pattern. Readers see either the old file or the new one, never a prefix.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
