package reload

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/wI2L/jsondiff"

	"github.com/plus3/hotreg/ecs"
)

// Bridge moves component state through a BlobStore at reload boundaries.
type Bridge struct {
	store  BlobStore
	logger zerolog.Logger
}

// NewBridge creates a bridge over store.
func NewBridge(store BlobStore, logger zerolog.Logger) *Bridge {
	return &Bridge{store: store, logger: logger}
}

// RestoreReport describes what a Restore recovered and what it left behind.
type RestoreReport struct {
	// Restored counts re-inserted components per type name.
	Restored map[string]int
	// Dropped lists type names that no longer resolve.
	Dropped []string
	// Drifted maps type names whose schema changed to the schema patch.
	Drifted map[string]string
	// Skipped counts records whose entity is no longer valid.
	Skipped int
}

// Total returns the number of re-inserted components.
func (r *RestoreReport) Total() int {
	n := 0
	for _, c := range r.Restored {
		n += c
	}
	return n
}

// Unload captures every component of w, stores the snapshot and drops the
// world's storages. Nothing is dropped if the snapshot cannot be stored.
func (b *Bridge) Unload(ctx context.Context, w *ecs.World) (*Snapshot, error) {
	snap, err := Capture(w)
	if err != nil {
		return nil, eris.Wrap(err, "capture components")
	}
	if err := b.store.Put(ctx, snap); err != nil {
		return nil, err
	}
	w.Unload()

	b.logger.Info().
		Int("types", len(snap.Types)).
		Int("components", snap.Len()).
		Msg("components captured for reload")
	return snap, nil
}

// Restore takes the stored snapshot, switches w to catalog and re-inserts
// every component whose type still resolves. Activation does not run. A
// missing type is logged and dropped; a payload that cannot be decoded
// aborts the restore.
func (b *Bridge) Restore(ctx context.Context, w *ecs.World, catalog *ecs.ComponentRegistry) (*RestoreReport, error) {
	snap, err := b.store.Take(ctx)
	if err != nil {
		return nil, err
	}
	w.Rebuild(catalog)
	return b.apply(w, snap)
}

func (b *Bridge) apply(w *ecs.World, snap *Snapshot) (*RestoreReport, error) {
	report := &RestoreReport{
		Restored: make(map[string]int),
		Drifted:  make(map[string]string),
	}

	for _, blob := range snap.Types {
		info, ok := w.Registry().Lookup(blob.Name)
		if !ok {
			b.logger.Warn().
				Err(eris.Wrapf(ecs.ErrDeserializationTypeMissing, "%q", blob.Name)).
				Int("records", len(blob.Records)).
				Msg("component type no longer exists, dropping its data")
			report.Dropped = append(report.Dropped, blob.Name)
			continue
		}

		if patch := b.drift(info, blob); patch != "" {
			report.Drifted[blob.Name] = patch
		}

		for _, rec := range blob.Records {
			if !w.Valid(rec.Entity) {
				report.Skipped++
				continue
			}
			if err := w.RestoreComponent(blob.Name, rec.Entity, rec.Payload); err != nil {
				return report, eris.Wrapf(err, "restore %s", blob.Name)
			}
			report.Restored[blob.Name]++
		}
	}

	b.logger.Info().
		Int("restored", report.Total()).
		Int("dropped_types", len(report.Dropped)).
		Int("skipped", report.Skipped).
		Msg("components restored after reload")
	return report, nil
}

// drift compares the stored schema with the current one. Field-keyed
// decoding tolerates the difference; the patch is only reported.
func (b *Bridge) drift(info ecs.ComponentInfo, blob TypeBlob) string {
	if len(blob.Schema) == 0 {
		return ""
	}
	current, err := schemaOf(info.Name, info.Type)
	if err != nil {
		b.logger.Warn().Err(err).Str("component", blob.Name).Msg("cannot build schema")
		return ""
	}
	patch, err := jsondiff.CompareJSON(blob.Schema, current)
	if err != nil {
		b.logger.Warn().Err(err).Str("component", blob.Name).Msg("cannot compare schemas")
		return ""
	}
	if len(patch) == 0 {
		return ""
	}
	b.logger.Warn().
		Str("component", blob.Name).
		Str("patch", patch.String()).
		Msg("component schema changed since unload")
	return patch.String()
}
