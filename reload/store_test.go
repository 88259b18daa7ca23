package reload_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/host"
	"github.com/plus3/hotreg/reload"
)

func sampleSnapshot() *reload.Snapshot {
	return &reload.Snapshot{Types: []reload.TypeBlob{
		{
			Name: "Position",
			Records: []reload.Record{
				{Entity: 1, Payload: []byte(`{"X":1,"Y":2}`)},
				{Entity: 2, Payload: []byte(`{"X":3,"Y":4}`)},
			},
		},
		{
			Name:    "Inventory",
			Records: []reload.Record{{Entity: 2, Payload: []byte(`{"Items":["a"],"Gold":1}`)}},
		},
	}}
}

func assertSameSnapshot(t *testing.T, want, got *reload.Snapshot) {
	t.Helper()
	require.Len(t, got.Types, len(want.Types))
	for i := range want.Types {
		assert.Equal(t, want.Types[i].Name, got.Types[i].Name)
		require.Len(t, got.Types[i].Records, len(want.Types[i].Records))
		for j, rec := range want.Types[i].Records {
			assert.Equal(t, rec.Entity, got.Types[i].Records[j].Entity)
			assert.JSONEq(t, string(rec.Payload), string(got.Types[i].Records[j].Payload))
		}
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := reload.NewMemoryStore()

	_, err := store.Take(ctx)
	assert.True(t, errors.Is(err, reload.ErrNoSnapshot))

	want := sampleSnapshot()
	require.NoError(t, store.Put(ctx, want))
	got, err := store.Take(ctx)
	require.NoError(t, err)
	assertSameSnapshot(t, want, got)

	assert.Zero(t, store.Size())
	_, err = store.Take(ctx)
	assert.True(t, errors.Is(err, reload.ErrNoSnapshot))
}

func newRedisStore(t *testing.T) (*reload.RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return reload.NewRedisStore(client, "test"), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	_, err := store.Take(ctx)
	assert.True(t, errors.Is(err, reload.ErrNoSnapshot))

	want := sampleSnapshot()
	require.NoError(t, store.Put(ctx, want))
	assert.True(t, mr.Exists("test:snapshot"))
	assert.True(t, mr.Exists("test:blobs"))

	order, err := mr.List("test:order")
	require.NoError(t, err)
	assert.Equal(t, []string{"Position", "Inventory"}, order)

	got, err := store.Take(ctx)
	require.NoError(t, err)
	assertSameSnapshot(t, want, got)

	assert.False(t, mr.Exists("test:snapshot"))
	_, err = store.Take(ctx)
	assert.True(t, errors.Is(err, reload.ErrNoSnapshot))
}

func TestRedisStoreReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	require.NoError(t, store.Put(ctx, sampleSnapshot()))
	require.NoError(t, store.Put(ctx, &reload.Snapshot{}))

	got, err := store.Take(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Types)
}

func TestRedisStoreCorruptBlob(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Put(ctx, sampleSnapshot()))
	mr.HSet("test:blobs", "Inventory", "{broken")

	_, err := store.Take(ctx)
	assert.Error(t, err)
}

func TestBridgeOverRedis(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	h := host.NewMemory()
	w := ecs.NewWorld(catalog(withPosition, withInventory), h)
	e := w.Create()
	_, err := ecs.AddValue(w, e, Inventory{Items: []string{"map"}, Gold: 7})
	require.NoError(t, err)

	bridge := reload.NewBridge(store, zerolog.Nop())
	_, err = bridge.Unload(ctx, w)
	require.NoError(t, err)

	report, err := bridge.Restore(ctx, w, catalog(withInventory, withPosition))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total())

	inv, err := ecs.Get[Inventory](w, e)
	require.NoError(t, err)
	assert.Equal(t, 7, inv.Gold)
}
