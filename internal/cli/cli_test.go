package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

type cliEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("PLANU_CONFIG_DIR", "")
	t.Setenv("PLANU_DATA_DIR", "")
	t.Setenv("PLANU_BACKEND", "")
	t.Setenv("PLANU_LOG_LEVEL", "")
	t.Setenv("PLANU_LOG_FORMAT", "")
	dir := t.TempDir()
	return &cliEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

func (e *cliEnv) run(args ...string) (stdout, stderr string, code int) {
	e.t.Helper()
	var out, errBuf bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code = Run(full, &out, &errBuf)
	return out.String(), errBuf.String(), code
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	stdout, stderr, code := e.run(args...)
	require.Equal(e.t, exitSuccess, code, "planu %v\nstdout: %s\nstderr: %s", args, stdout, stderr)
	return stdout
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	code := Run([]string{"version"}, &out, &out)
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out.String(), "planu v"+Version)
}

func TestInitWritesConfigAndSeededSnapshot(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("init", "--backend", "sqlite")
	assert.Contains(t, out, "planu initialized")

	data, err := os.ReadFile(filepath.Join(env.configDir, "config.yaml"))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, env.dataDir, cfg.DataDir)
	assert.FileExists(t, filepath.Join(env.dataDir, types.SQLiteSnapshotFile))

	// The backend now comes from config.yaml.
	clients := decode[[]types.Client](t, env.mustRun("--json", "clients", "list"))
	assert.Len(t, clients, 4)
}

func TestConfigPrintsEffectiveSettings(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("config", "--log-level", "debug")
	var cfg configFile
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, types.BackendJSON, cfg.Backend)
	assert.Equal(t, env.dataDir, cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestClientVehicleOrderWorkflow(t *testing.T) {
	env := newCLIEnv(t)

	client := decode[types.Client](t, env.mustRun("--json", "clients", "create", "--name", "Ana", "--phone", "555-0101"))
	assert.Equal(t, 5, client.ID)

	vehicle := decode[types.Vehicle](t, env.mustRun("--json", "vehicles", "create",
		"--plate", "abc-1234", "--make", "Fiat", "--client", fmt.Sprint(client.ID)))
	assert.Equal(t, "ABC-1234", vehicle.Plate)

	order := decode[types.ServiceOrder](t, env.mustRun("--json", "orders", "create",
		"--client", fmt.Sprint(client.ID), "--vehicle", fmt.Sprint(vehicle.ID),
		"--date", "2025-09-10", "--service", "201", "--service", "201:2", "--part", "101:1"))
	assert.Equal(t, []types.LineItem{{ID: 201, Qty: 3, Price: 150}}, order.Services)
	assert.Equal(t, types.StatusInProgress, order.Status)

	out := env.mustRun("orders", "status", fmt.Sprint(order.ID), types.StatusCompleted)
	assert.Contains(t, out, "is now completed")

	byClient := decode[[]types.ServiceOrder](t, env.mustRun("--json", "orders", "list", "--client", fmt.Sprint(client.ID)))
	require.Len(t, byClient, 1)
	assert.Equal(t, types.StatusCompleted, byClient[0].Status)

	out = env.mustRun("clients", "delete", fmt.Sprint(client.ID))
	assert.Contains(t, out, "Deleted client")
	vehicles := decode[[]types.Vehicle](t, env.mustRun("--json", "vehicles", "list", "--client", fmt.Sprint(client.ID)))
	assert.Empty(t, vehicles)
	byClient = decode[[]types.ServiceOrder](t, env.mustRun("--json", "orders", "list", "--client", fmt.Sprint(client.ID)))
	assert.Empty(t, byClient)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	env := newCLIEnv(t)

	updated := decode[types.Part](t, env.mustRun("--json", "parts", "update", "102", "--stock", "3"))
	assert.Equal(t, types.Part{ID: 102, Name: "Brake pad", Code: "PF-002", Stock: 3, Price: 120.5}, updated)

	svc := decode[types.Service](t, env.mustRun("--json", "services", "update", "203", "--price", "275"))
	assert.Equal(t, "Brake system inspection", svc.Description)
	assert.Equal(t, 275.0, svc.Price)
}

func TestTextListOutput(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("services", "list")
	assert.Contains(t, out, "DESCRIPTION")
	assert.Contains(t, out, "Oil and filter change")
	assert.Contains(t, out, "150.00")
}

func TestUserErrorsExitOne(t *testing.T) {
	env := newCLIEnv(t)

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown record", []string{"clients", "get", "999"}, "not found"},
		{"bad id", []string{"vehicles", "get", "abc"}, "invalid entity ID"},
		{"missing name", []string{"clients", "create"}, "name is required"},
		{"plate taken", []string{"vehicles", "create", "--plate", "rOz-1295", "--client", "2"}, "plate already registered"},
		{"vehicle of other client", []string{"orders", "create", "--client", "2", "--vehicle", "1"}, "does not belong"},
		{"bad status", []string{"orders", "status", "974", "finished"}, "invalid status"},
		{"bad line item", []string{"orders", "create", "--client", "1", "--vehicle", "1", "--part", "x:1"}, "invalid id"},
		{"delete missing", []string{"parts", "delete", "4040"}, "not found"},
		{"unknown backend", []string{"--backend", "postgres", "clients", "list"}, "unknown backend"},
		{"missing required flag", []string{"orders", "create", "--client", "1"}, "vehicle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := env.run(tt.args...)
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, stderr, tt.msg)
		})
	}
}

func TestUnwritableDataDirExitsTwo(t *testing.T) {
	env := newCLIEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	env.dataDir = filepath.Join(blocker, "data")

	_, stderr, code := env.run("clients", "list")
	assert.Equal(t, exitSysError, code)
	assert.Contains(t, stderr, "open store")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(types.ErrNotFound))
	assert.Equal(t, exitUserError, exitCode(types.Invalid("name", types.ErrNameRequired)))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("save: %w", store.ErrPersist)))
	assert.Equal(t, exitSysError, exitCode(systemError(errors.New("disk"))))
}

func TestParseLineItems(t *testing.T) {
	items, err := parseLineItems([]string{"201", "202:3", " 203 : 2 "})
	require.NoError(t, err)
	assert.Equal(t, []types.LineItem{{ID: 201, Qty: 1}, {ID: 202, Qty: 3}, {ID: 203, Qty: 2}}, items)

	_, err = parseLineItems([]string{"201:x"})
	assert.Error(t, err)
	assert.Equal(t, "201:1,202:3", formatLineItems([]types.LineItem{{ID: 201, Qty: 1}, {ID: 202, Qty: 3}}))
}

func TestMetricsFile(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(t.TempDir(), "planu.prom")

	env.mustRun("--metrics-file", path, "clients", "create", "--name", "Ana")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `planu_store_mutations_total{outcome="committed"} 1`)
	assert.Contains(t, string(data), "planu_store_persist_duration_seconds_count")
}

func TestInitEmpty(t *testing.T) {
	env := newCLIEnv(t)

	env.mustRun("init", "--empty")
	assert.Empty(t, decode[[]types.Client](t, env.mustRun("--json", "clients", "list")))

	client := decode[types.Client](t, env.mustRun("--json", "clients", "create", "--name", "First"))
	assert.Equal(t, 1, client.ID)
}
