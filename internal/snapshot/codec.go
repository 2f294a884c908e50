// Package snapshot converts the store State to and from its durable form.
//
// Two codecs are provided: FileCodec keeps the whole document in a single
// JSON file replaced atomically on every save, and SQLiteCodec keeps one
// JSON payload per collection in a SQLite table updated in one transaction.
// Both report a missing snapshot as ErrNotFound and an unreadable one as
// ErrCorrupt; Load never returns any other error. Records skipped while
// decoding an otherwise readable snapshot are counted in a Report.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/planu/pkg/types"
)

// Load outcomes other than success.
var (
	ErrNotFound = errors.New("snapshot not found")
	ErrCorrupt  = errors.New("snapshot corrupt")
)

// sequencesField carries the id high-water marks next to the collections.
const sequencesField = "sequences"

// corrupt wraps cause so that errors.Is(err, ErrCorrupt) holds.
func corrupt(cause error) error {
	return fmt.Errorf("%w: %w", ErrCorrupt, cause)
}

// Report lists what Decode left out of an otherwise readable snapshot.
type Report struct {
	// Dropped counts records that did not fit their entity type, keyed by
	// collection name. Collections with nothing dropped are absent.
	Dropped map[string]int
}

// Total is the number of dropped records across all collections.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

func (r *Report) drop(collection string, n int) {
	if n == 0 {
		return
	}
	if r.Dropped == nil {
		r.Dropped = make(map[string]int)
	}
	r.Dropped[collection] += n
}

// Decode parses a snapshot document. Blank input, null, anything other than
// a JSON object, or an object holding none of the collections is corrupt.
// Inside the object each collection is decoded on its own: a missing or
// non-array field becomes an empty collection and a record that does not fit
// its entity type is dropped and counted in the Report, so one damaged field
// does not cost the rest of the document. Unknown fields are ignored.
func Decode(data []byte) (*types.State, Report, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, Report{}, corrupt(errors.New("empty document"))
	}
	if trimmed[0] != '{' {
		return nil, Report{}, corrupt(errors.New("document is not an object"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, Report{}, corrupt(err)
	}
	return decodeFields(fields)
}

// decodeFields builds a State from raw per-collection payloads. A field set
// without any collection is corrupt.
func decodeFields(fields map[string]json.RawMessage) (*types.State, Report, error) {
	if !hasCollection(fields) {
		return nil, Report{}, corrupt(errors.New("empty document"))
	}

	var rep Report
	st := types.NewState()
	st.Clients = decodeRecords[types.Client](fields, types.ClientsCollection, &rep)
	st.Vehicles = decodeRecords[types.Vehicle](fields, types.VehiclesCollection, &rep)
	st.Parts = decodeRecords[types.Part](fields, types.PartsCollection, &rep)
	st.Services = decodeRecords[types.Service](fields, types.ServicesCollection, &rep)
	st.ServiceOrders = decodeRecords[types.ServiceOrder](fields, types.ServiceOrdersCollection, &rep)
	for i := range st.ServiceOrders {
		fillOrderDefaults(&st.ServiceOrders[i])
	}

	if raw, ok := fields[sequencesField]; ok {
		var seq map[string]int
		if err := json.Unmarshal(raw, &seq); err == nil {
			for name, high := range seq {
				if high > 0 {
					st.Sequences[name] = high
				}
			}
		}
	}
	return st, rep, nil
}

func hasCollection(fields map[string]json.RawMessage) bool {
	for _, name := range types.CollectionNames {
		if _, ok := fields[name]; ok {
			return true
		}
	}
	return false
}

// decodeRecords decodes the named JSON array record by record, skipping and
// counting records that fail to decode. A missing or non-array payload
// yields an empty slice.
func decodeRecords[T any](fields map[string]json.RawMessage, name string, rep *Report) []T {
	out := []T{}
	raw := fields[name]
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			rep.drop(name, 1)
			continue
		}
		out = append(out, rec)
	}
	return out
}

// fillOrderDefaults replaces line item lists missing from an older snapshot
// with empty ones.
func fillOrderDefaults(o *types.ServiceOrder) {
	if o.Services == nil {
		o.Services = []types.LineItem{}
	}
	if o.Parts == nil {
		o.Parts = []types.LineItem{}
	}
}

// document fixes the on-disk field order and guarantees every collection is
// written as an array.
type document struct {
	Clients       []types.Client       `json:"clients"`
	Vehicles      []types.Vehicle      `json:"vehicles"`
	Parts         []types.Part         `json:"parts"`
	Services      []types.Service      `json:"services"`
	ServiceOrders []types.ServiceOrder `json:"serviceOrders"`
	Sequences     map[string]int       `json:"sequences,omitempty"`
}

func newDocument(st *types.State) document {
	st = st.Clone()
	for i := range st.ServiceOrders {
		fillOrderDefaults(&st.ServiceOrders[i])
	}
	return document{
		Clients:       st.Clients,
		Vehicles:      st.Vehicles,
		Parts:         st.Parts,
		Services:      st.Services,
		ServiceOrders: st.ServiceOrders,
		Sequences:     st.Sequences,
	}
}

// Encode renders st as an indented JSON document terminated by a newline.
func Encode(st *types.State) ([]byte, error) {
	data, err := json.MarshalIndent(newDocument(st), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// collectionPayloads renders each collection of st as its own JSON array,
// keyed by collection name, plus the sequences map.
func collectionPayloads(st *types.State) (map[string][]byte, error) {
	doc := newDocument(st)
	values := map[string]any{
		types.ClientsCollection:       doc.Clients,
		types.VehiclesCollection:      doc.Vehicles,
		types.PartsCollection:         doc.Parts,
		types.ServicesCollection:      doc.Services,
		types.ServiceOrdersCollection: doc.ServiceOrders,
		sequencesField:                doc.Sequences,
	}
	out := make(map[string][]byte, len(values))
	for name, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}
