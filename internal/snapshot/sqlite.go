package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/mesh-intelligence/planu/pkg/types"
)

const stateSchema = `CREATE TABLE IF NOT EXISTS state (
	bucket TEXT PRIMARY KEY,
	payload BLOB NOT NULL
)`

// SQLiteCodec stores the snapshot in a SQLite database at Path, one row per
// collection. Each save builds a complete database next to Path and renames
// it into place, so a damaged database is replaced rather than patched.
type SQLiteCodec struct {
	Path string
}

// NewSQLiteCodec returns a SQLiteCodec for path.
func NewSQLiteCodec(path string) *SQLiteCodec {
	return &SQLiteCodec{Path: path}
}

// Load reads every bucket of the state table. A missing file is ErrNotFound.
// A file that is not a database, lacks the state table, or holds no rows is
// ErrCorrupt.
func (c *SQLiteCodec) Load(ctx context.Context) (*types.State, Report, error) {
	if _, err := os.Stat(c.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Report{}, fmt.Errorf("%w: %s", ErrNotFound, c.Path)
		}
		return nil, Report{}, corrupt(err)
	}

	db, err := sql.Open("sqlite", c.Path)
	if err != nil {
		return nil, Report{}, corrupt(err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return nil, Report{}, corrupt(fmt.Errorf("select state: %w", err))
	}
	defer rows.Close()

	fields := make(map[string]json.RawMessage)
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, Report{}, corrupt(fmt.Errorf("scan: %w", err))
		}
		fields[bucket] = json.RawMessage(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, Report{}, corrupt(err)
	}
	if len(fields) == 0 {
		return nil, Report{}, corrupt(errors.New("state table is empty"))
	}
	return decodeFields(fields)
}

// Save writes st into a fresh database file and renames it over Path.
func (c *SQLiteCodec) Save(ctx context.Context, st *types.State) error {
	payloads, err := collectionPayloads(st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.db")
	if err != nil {
		return fmt.Errorf("creating temp database: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp database: %w", err)
	}

	if err := writeBuckets(ctx, tmpName, payloads); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp database: %w", err)
	}
	return nil
}

// writeBuckets creates the state table in the database at path and stores
// one row per payload inside a single transaction.
func writeBuckets(ctx context.Context, path string, payloads map[string][]byte) (retErr error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("close sqlite: %w", err)
		}
	}()

	if _, err := db.ExecContext(ctx, stateSchema); err != nil {
		return fmt.Errorf("create state table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	buckets := append(append([]string{}, types.CollectionNames...), sequencesField)
	for _, bucket := range buckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, payloads[bucket],
		); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
