package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/host"
)

func TestMemoryLifecycle(t *testing.T) {
	h := host.NewMemory()

	a := h.Create()
	b := h.Create()
	assert.NotEqual(t, a, b)
	assert.True(t, h.Valid(a))
	assert.Equal(t, ecs.Vec3{X: 1, Y: 1, Z: 1}, h.Transform(a).Scale)

	var destroyed []ecs.Entity
	h.OnDestroy = func(e ecs.Entity) { destroyed = append(destroyed, e) }

	h.Destroy(a)
	h.Destroy(a)
	assert.False(t, h.Valid(a))
	assert.Equal(t, []ecs.Entity{a}, destroyed)

	c := h.Create()
	assert.NotEqual(t, a, c, "handles are not reused")
	assert.Equal(t, 2, h.Len())
}

func TestMemoryNamesAndEach(t *testing.T) {
	h := host.NewMemory()
	a := h.Create()
	b := h.Create()
	h.SetName(b, "door")

	name, ok := h.Name(b)
	assert.True(t, ok)
	assert.Equal(t, "door", name)
	_, ok = h.Name(a)
	assert.False(t, ok)

	var seen []ecs.Entity
	h.Each(func(e ecs.Entity) { seen = append(seen, e) })
	assert.Equal(t, []ecs.Entity{a, b}, seen)
}
