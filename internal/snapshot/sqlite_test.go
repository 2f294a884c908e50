package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/planu/pkg/types"
)

func TestSQLiteCodecLoadMissing(t *testing.T) {
	c := NewSQLiteCodec(filepath.Join(t.TempDir(), "planu.db"))

	_, _, err := c.Load(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLiteCodecRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "planu.db")
	c := NewSQLiteCodec(path)
	ctx := context.Background()

	st := sampleState()
	st.Sequences[types.ClientsCollection] = 3
	require.NoError(t, c.Save(ctx, st))

	got, _, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestSQLiteCodecStoresOneRowPerBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planu.db")
	require.NoError(t, NewSQLiteCodec(path).Save(context.Background(), sampleState()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count))
	assert.Equal(t, len(types.CollectionNames)+1, count)
}

func TestSQLiteCodecGarbageFileIsCorruptAndReplaceable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planu.db")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a sqlite database, just some text"), 0o644))
	c := NewSQLiteCodec(path)
	ctx := context.Background()

	_, _, err := c.Load(ctx)
	require.True(t, errors.Is(err, ErrCorrupt))

	require.NoError(t, c.Save(ctx, sampleState()))
	got, _, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestSQLiteCodecEmptyTableIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planu.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(stateSchema)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, _, err = NewSQLiteCodec(path).Load(context.Background())
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestSQLiteCodecSequencesOnlyIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planu.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(stateSchema)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO state (bucket, payload) VALUES ('sequences', '{"clients":3}')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, _, err = NewSQLiteCodec(path).Load(context.Background())
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestSQLiteCodecReportsDroppedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planu.db")
	ctx := context.Background()
	require.NoError(t, NewSQLiteCodec(path).Save(ctx, sampleState()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE state SET payload = ? WHERE bucket = ?`,
		`[{"id":1,"name":"Ana"},{"id":"2","name":"Bruno"}]`, types.ClientsCollection)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	got, rep, err := NewSQLiteCodec(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState().Clients, got.Clients)
	assert.Equal(t, map[string]int{types.ClientsCollection: 1}, rep.Dropped)
}
