package script

import (
	"github.com/rotisserie/eris"
	lua "github.com/yuin/gopher-lua"

	"github.com/plus3/hotreg/ecs"
)

// Behaviour is a component whose think callback is a global Lua function.
// The function is called as fn(self, dt, entity); self holds Vars, and any
// number fields it has after the call are written back to Vars, so script
// state lives in the component and survives reloads.
type Behaviour struct {
	Script string
	Vars   map[string]float64
}

func (*Behaviour) ComponentName() string { return "script.Behaviour" }

func (b *Behaviour) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	env := EnvironmentOf(frame.World)
	if env == nil {
		return eris.Wrap(ErrClosed, "no scripting environment installed")
	}
	vm := env.State()
	if vm == nil {
		return ErrClosed
	}

	self := vm.NewTable()
	for k, v := range b.Vars {
		self.RawSetString(k, lua.LNumber(v))
	}
	if _, err := env.Call(b.Script, self, lua.LNumber(frame.DeltaTime), lua.LNumber(e)); err != nil {
		return err
	}

	self.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			if b.Vars == nil {
				b.Vars = make(map[string]float64)
			}
			b.Vars[string(key)] = float64(n)
		}
	})
	return nil
}

// Install makes env the world's scripting environment and binds the world
// functions scripts may call:
//
//	position(e) -> x, y, z
//	set_position(e, x, y, z)
//	destroy_next(e)
//	frame() -> n
func Install(w *ecs.World, env *Environment) {
	*ecs.NewSingleton[*Environment](w).Get() = env

	env.Bind("position", func(L *lua.LState) int {
		t, err := w.Transform(ecs.Entity(L.CheckInt64(1)))
		if err != nil {
			L.RaiseError("%s", err)
			return 0
		}
		L.Push(lua.LNumber(t.Position.X))
		L.Push(lua.LNumber(t.Position.Y))
		L.Push(lua.LNumber(t.Position.Z))
		return 3
	})
	env.Bind("set_position", func(L *lua.LState) int {
		e := ecs.Entity(L.CheckInt64(1))
		t, err := w.Transform(e)
		if err != nil {
			L.RaiseError("%s", err)
			return 0
		}
		t.Position = ecs.Vec3{
			X: float32(L.CheckNumber(2)),
			Y: float32(L.CheckNumber(3)),
			Z: float32(L.CheckNumber(4)),
		}
		if err := w.SetTransform(e, t); err != nil {
			L.RaiseError("%s", err)
		}
		return 0
	})
	env.Bind("destroy_next", func(L *lua.LState) int {
		w.DestroyNext(ecs.Entity(L.CheckInt64(1)))
		return 0
	})
	env.Bind("frame", func(L *lua.LState) int {
		L.Push(lua.LNumber(w.Frame()))
		return 1
	})
}

// EnvironmentOf returns the environment installed in w, or nil.
func EnvironmentOf(w *ecs.World) *Environment {
	p := ecs.GetSingleton[*Environment](w)
	if p == nil {
		return nil
	}
	return *p
}
