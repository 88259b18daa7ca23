package reload

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/plus3/hotreg/codec"
)

// RedisStore keeps the snapshot in Redis so it survives the process that
// hosts the scripting environment. Each type is one hash field keyed by its
// stable name; a list keeps the type order.
type RedisStore struct {
	Client *redis.Client
	prefix string
}

var _ BlobStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "hotreg"
	}
	return &RedisStore{Client: client, prefix: prefix}
}

func (r *RedisStore) headerKey() string { return r.prefix + ":snapshot" }
func (r *RedisStore) orderKey() string  { return r.prefix + ":order" }
func (r *RedisStore) blobsKey() string  { return r.prefix + ":blobs" }

func (r *RedisStore) Put(ctx context.Context, snap *Snapshot) error {
	names := make([]any, 0, len(snap.Types))
	fields := make(map[string]any, len(snap.Types))
	for _, t := range snap.Types {
		bz, err := codec.Encode(t)
		if err != nil {
			return eris.Wrapf(err, "encode blob for %s", t.Name)
		}
		names = append(names, t.Name)
		fields[t.Name] = bz
	}

	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.headerKey(), r.orderKey(), r.blobsKey())
		pipe.Set(ctx, r.headerKey(), strconv.Itoa(len(names)), 0)
		if len(names) > 0 {
			pipe.RPush(ctx, r.orderKey(), names...)
			pipe.HSet(ctx, r.blobsKey(), fields)
		}
		return nil
	})
	return eris.Wrap(err, "store reload snapshot")
}

func (r *RedisStore) Take(ctx context.Context) (*Snapshot, error) {
	var (
		header *redis.StringCmd
		order  *redis.StringSliceCmd
		blobs  *redis.MapStringStringCmd
	)
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		header = pipe.Get(ctx, r.headerKey())
		order = pipe.LRange(ctx, r.orderKey(), 0, -1)
		blobs = pipe.HGetAll(ctx, r.blobsKey())
		pipe.Del(ctx, r.headerKey(), r.orderKey(), r.blobsKey())
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, eris.Wrap(err, "take reload snapshot")
	}
	if errors.Is(header.Err(), redis.Nil) {
		return nil, ErrNoSnapshot
	}

	fields := blobs.Val()
	snap := &Snapshot{Types: make([]TypeBlob, 0, len(order.Val()))}
	for _, name := range order.Val() {
		raw, ok := fields[name]
		if !ok {
			return nil, eris.Errorf("corrupted reload snapshot: no blob for %q", name)
		}
		blob, err := codec.Decode[TypeBlob]([]byte(raw))
		if err != nil {
			return nil, eris.Wrapf(err, "corrupted reload snapshot: blob for %q", name)
		}
		snap.Types = append(snap.Types, blob)
	}
	return snap, nil
}
