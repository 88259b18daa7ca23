// Package reload carries component state across a full reload of the
// scripting environment. Before unload every live component is encoded under
// its stable type name and handed to a BlobStore that outlives the reload;
// afterwards the names are resolved against the new component catalog and
// the values are re-inserted without running activation.
package reload

import (
	"reflect"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"

	"github.com/plus3/hotreg/codec"
	"github.com/plus3/hotreg/ecs"
)

// Snapshot is the transportable form of every live component, grouped by
// type in storage creation order.
type Snapshot struct {
	Types []TypeBlob `json:"types"`
}

// TypeBlob holds every instance of one component type.
type TypeBlob struct {
	Name    string          `json:"name"`
	Schema  json.RawMessage `json:"schema,omitempty"`
	Records []Record        `json:"records"`
}

// Record is one (entity, payload) pair. Payload is a field-keyed object.
type Record struct {
	Entity  ecs.Entity      `json:"entity"`
	Payload json.RawMessage `json:"payload"`
}

// Len returns the total number of records.
func (s *Snapshot) Len() int {
	n := 0
	for _, t := range s.Types {
		n += len(t.Records)
	}
	return n
}

// Find returns the blob stored under name.
func (s *Snapshot) Find(name string) (TypeBlob, bool) {
	for _, t := range s.Types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeBlob{}, false
}

// Capture encodes every live component of w.
func Capture(w *ecs.World) (*Snapshot, error) {
	snap := &Snapshot{}
	for _, pool := range w.Pools() {
		if pool.Len() == 0 {
			continue
		}
		schema, err := schemaOf(pool.Name(), pool.Type())
		if err != nil {
			return nil, err
		}
		blob := TypeBlob{
			Name:    pool.Name(),
			Schema:  schema,
			Records: make([]Record, 0, pool.Len()),
		}
		for _, e := range pool.Entities() {
			bz, err := pool.Encode(e)
			if err != nil {
				return nil, err
			}
			blob.Records = append(blob.Records, Record{Entity: e, Payload: bz})
		}
		snap.Types = append(snap.Types, blob)
	}
	return snap, nil
}

func schemaOf(name string, t reflect.Type) ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	bz, err := r.ReflectFromType(t).MarshalJSON()
	if err != nil {
		return nil, eris.Wrapf(err, "component %s must be json serializable", name)
	}
	return bz, nil
}

// Marshal returns the byte form of s.
func (s *Snapshot) Marshal() ([]byte, error) {
	return codec.Encode(s)
}

// Unmarshal parses the byte form produced by Marshal.
func Unmarshal(bz []byte) (*Snapshot, error) {
	snap, err := codec.Decode[Snapshot](bz)
	if err != nil {
		return nil, eris.Wrap(err, "corrupted reload snapshot")
	}
	return &snap, nil
}
