// Shared helpers for planu CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/planu/internal/garage"
	"github.com/mesh-intelligence/planu/internal/seed"
	"github.com/mesh-intelligence/planu/internal/snapshot"
	"github.com/mesh-intelligence/planu/internal/store"
	"github.com/mesh-intelligence/planu/pkg/types"
)

// newCodec returns the snapshot codec for cfg's backend.
func newCodec(cfg types.Config) (store.Codec, error) {
	switch cfg.Backend {
	case types.BackendJSON:
		return snapshot.NewFileCodec(cfg.SnapshotPath()), nil
	case types.BackendSQLite:
		return snapshot.NewSQLiteCodec(cfg.SnapshotPath()), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}

// openGarage opens the store for the current configuration. The caller must
// call the returned close function.
func (s *session) openGarage(ctx context.Context) (*garage.Garage, func(), error) {
	cfg, err := s.storeConfig()
	if err != nil {
		return nil, nil, err
	}
	codec, err := newCodec(cfg)
	if err != nil {
		return nil, nil, err
	}
	defaults := seed.Empty()
	if !s.emptySeed {
		if defaults, err = seed.Default(); err != nil {
			return nil, nil, systemError(err)
		}
	}
	opts := []store.Option{store.WithLogger(s.logger.With("snapshot", cfg.SnapshotPath()))}
	var reg *prometheus.Registry
	if s.metricsFile != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, store.WithMetrics(reg))
	}
	st, err := store.Open(ctx, codec, defaults, opts...)
	if err != nil {
		s.writeMetrics(reg)
		return nil, nil, systemError(fmt.Errorf("open store: %w", err))
	}
	return garage.New(st), func() {
		st.Close()
		s.writeMetrics(reg)
	}, nil
}

// writeMetrics writes the gathered store metrics to --metrics-file. A write
// failure is logged and does not change the command result.
func (s *session) writeMetrics(reg *prometheus.Registry) {
	if reg == nil {
		return
	}
	if err := prometheus.WriteToTextfile(s.metricsFile, reg); err != nil {
		s.logger.Warn("write metrics", "path", s.metricsFile, "error", err)
	}
}

// withGarage opens the store, runs fn and closes the store.
func (s *session) withGarage(ctx context.Context, fn func(g *garage.Garage) error) error {
	g, closeStore, err := s.openGarage(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(g)
}

// parseID parses a record id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, arg)
	}
	return id, nil
}

// parseLineItems parses "id:qty" or "id" (qty 1) values.
func parseLineItems(values []string) ([]types.LineItem, error) {
	items := make([]types.LineItem, 0, len(values))
	for _, v := range values {
		idPart, qtyPart, hasQty := strings.Cut(v, ":")
		id, err := strconv.Atoi(strings.TrimSpace(idPart))
		if err != nil {
			return nil, fmt.Errorf("line item %q: invalid id", v)
		}
		qty := 1
		if hasQty {
			if qty, err = strconv.Atoi(strings.TrimSpace(qtyPart)); err != nil {
				return nil, fmt.Errorf("line item %q: invalid quantity", v)
			}
		}
		items = append(items, types.LineItem{ID: id, Qty: qty})
	}
	return items, nil
}

// formatLineItems renders items as "id:qty" pairs separated by commas.
func formatLineItems(items []types.LineItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%d:%d", item.ID, item.Qty)
	}
	return strings.Join(parts, ",")
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeTable writes a header and rows as aligned columns.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// render writes v as JSON in --json mode and as a table otherwise.
func (s *session) render(w io.Writer, v any, header []string, rows [][]string) error {
	if s.jsonMode {
		return writeJSON(w, v)
	}
	return writeTable(w, header, rows)
}

// renderDeleted reports the outcome of a delete. A missing record is an
// error so scripts can tell the cases apart by exit code.
func (s *session) renderDeleted(w io.Writer, kind string, id int, deleted bool) error {
	if !deleted {
		return fmt.Errorf("%s %d: %w", kind, id, types.ErrNotFound)
	}
	if s.jsonMode {
		return writeJSON(w, map[string]any{"id": id, "deleted": true})
	}
	_, err := fmt.Fprintf(w, "Deleted %s %d\n", kind, id)
	return err
}

func itoa(n int) string { return strconv.Itoa(n) }

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
