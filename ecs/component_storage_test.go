package ecs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hotreg/ecs"
)

func TestStorageSetGet(t *testing.T) {
	w, _, _ := newTestWorld()
	s, err := ecs.StorageOf[Position](w)
	require.NoError(t, err)

	a, b := w.Create(), w.Create()
	p, err := s.Set(a, Position{X: 1, Y: 2})
	require.NoError(t, err)
	p.X = 10

	got, err := s.Get(a)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 10, Y: 2}, *got)

	_, err = s.Get(b)
	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))

	_, err = s.Set(a, Position{})
	assert.True(t, errors.Is(err, ecs.ErrDuplicateComponent))
	assert.Equal(t, 1, s.Len())
}

func TestStorageSwapRemove(t *testing.T) {
	w, _, _ := newTestWorld()
	s, err := ecs.StorageOf[Score](w)
	require.NoError(t, err)

	entities := make([]ecs.Entity, 5)
	for i := range entities {
		entities[i] = w.Create()
		_, err := s.Set(entities[i], Score(i*10))
		require.NoError(t, err)
	}

	// Removing from the middle moves the last value into the hole.
	require.NoError(t, s.Remove(entities[1]))
	assert.Equal(t, []ecs.Entity{entities[0], entities[4], entities[2], entities[3]}, s.Entities())

	for _, i := range []int{0, 2, 3, 4} {
		v, err := s.Get(entities[i])
		require.NoError(t, err)
		assert.Equal(t, Score(i*10), *v)
	}
	assert.False(t, s.Contains(entities[1]))

	// Removing the last element moves nothing.
	require.NoError(t, s.Remove(entities[3]))
	assert.Equal(t, []ecs.Entity{entities[0], entities[4], entities[2]}, s.Entities())

	err = s.Remove(entities[3])
	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))
	assert.Equal(t, 3, s.Len())
}

func TestStorageAcrossBlocks(t *testing.T) {
	w, _, _ := newTestWorld()
	s, err := ecs.StorageOf[Score](w)
	require.NoError(t, err)

	const n = 200
	entities := make([]ecs.Entity, n)
	for i := range entities {
		entities[i] = w.Create()
		_, err := s.Set(entities[i], Score(i))
		require.NoError(t, err)
	}

	first, err := s.Get(entities[0])
	require.NoError(t, err)

	// Growing the storage never moves existing values.
	more := w.Create()
	_, err = s.Set(more, Score(-1))
	require.NoError(t, err)
	again, err := s.Get(entities[0])
	require.NoError(t, err)
	assert.Same(t, first, again)

	for i := n - 1; i >= 0; i -= 2 {
		require.NoError(t, s.Remove(entities[i]))
	}
	require.NoError(t, s.Remove(more))
	assert.Equal(t, n/2, s.Len())

	for i := 0; i < n; i += 2 {
		v, err := s.Get(entities[i])
		require.NoError(t, err)
		assert.Equal(t, Score(i), *v)
	}

	sum := 0
	for e, v := range s.All() {
		assert.True(t, s.Contains(e))
		sum += int(*v)
	}
	assert.Equal(t, (n/2)*(n-2)/2, sum)
}

func TestStorageEntitiesIsACopy(t *testing.T) {
	w, _, _ := newTestWorld()
	s, err := ecs.StorageOf[Tag](w)
	require.NoError(t, err)

	e := w.Create()
	_, err = s.Set(e, Tag("player"))
	require.NoError(t, err)

	list := s.Entities()
	list[0] = ecs.Null
	assert.Equal(t, []ecs.Entity{e}, s.Entities())
}

func TestStorageEncode(t *testing.T) {
	w, _, _ := newTestWorld()
	s, err := ecs.StorageOf[Health](w)
	require.NoError(t, err)

	e := w.Create()
	_, err = s.Set(e, Health{Current: 3, Max: 5})
	require.NoError(t, err)

	bz, err := s.Encode(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Current":3,"Max":5}`, string(bz))

	_, err = s.Encode(w.Create())
	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))
}
