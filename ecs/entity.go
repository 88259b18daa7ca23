package ecs

import "strconv"

// Entity is an opaque handle owned by the native layer. The registry never
// allocates entities, it only associates component data with the handles it is given.
type Entity uint32

// Null is the handle the native layer uses for "no entity".
const Null Entity = 0xFFFFFFFF

// IsNull reports whether e is the null handle.
func (e Entity) IsNull() bool {
	return e == Null
}

func (e Entity) String() string {
	if e.IsNull() {
		return "null"
	}
	return strconv.FormatUint(uint64(e), 10)
}

// Vec3 is a three component vector as laid out by the native transform.
type Vec3 struct {
	X, Y, Z float32
}

// Quat is a rotation quaternion as laid out by the native transform.
type Quat struct {
	X, Y, Z, W float32
}

// Transform mirrors the native transform record. The native layer owns it;
// the registry only reads and writes it through Host.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// Host is the native collaborator. It owns entity identity and transform
// storage, and outlives every reload of the scripting environment.
type Host interface {
	Valid(Entity) bool
	Create() Entity
	Destroy(Entity)
	Name(Entity) (string, bool)
	SetName(Entity, string)
	Transform(Entity) Transform
	SetTransform(Entity, Transform)
	Each(fn func(Entity))
}
