package reload

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNoSnapshot is returned by BlobStore.Take when nothing was stored.
var ErrNoSnapshot = eris.New("no reload snapshot stored")

// BlobStore keeps a snapshot across the reload boundary. Take hands the
// snapshot back exactly once.
type BlobStore interface {
	Put(ctx context.Context, snap *Snapshot) error
	Take(ctx context.Context) (*Snapshot, error)
}

// MemoryStore holds the snapshot's byte form in process memory, the way the
// native layer holds it while the scripting heap is discarded.
type MemoryStore struct {
	blob []byte
}

var _ BlobStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Put(_ context.Context, snap *Snapshot) error {
	bz, err := snap.Marshal()
	if err != nil {
		return err
	}
	m.blob = bz
	return nil
}

func (m *MemoryStore) Take(_ context.Context) (*Snapshot, error) {
	if m.blob == nil {
		return nil, ErrNoSnapshot
	}
	bz := m.blob
	m.blob = nil
	return Unmarshal(bz)
}

// Size returns the length of the stored byte form.
func (m *MemoryStore) Size() int {
	return len(m.blob)
}
