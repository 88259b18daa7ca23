// Package script hosts the scripting environment: a Lua VM whose globals are
// rebuilt from scratch on every reload, and the Behaviour component that lets
// Lua functions think for entities.
package script

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

var (
	ErrUnknownFunction = eris.New("lua function not defined")
	ErrClosed          = eris.New("scripting environment is closed")
)

type chunk struct {
	name   string
	source string
}

// Environment wraps a single gopher-lua VM. Single-goroutine access only
// (frame thread). Reload discards the VM with every global it holds and
// loads the scripts again.
type Environment struct {
	dir        string
	vm         *lua.LState
	logger     zerolog.Logger
	chunks     []chunk
	bindings   map[string]lua.LGFunction
	generation int
}

// NewEnvironment creates a VM and loads every .lua file of dir. An empty dir
// starts an environment with no scripts.
func NewEnvironment(dir string, logger zerolog.Logger) (*Environment, error) {
	e := &Environment{
		dir:      dir,
		logger:   logger,
		bindings: make(map[string]lua.LGFunction),
	}
	if err := e.open(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Environment) open() error {
	vm := lua.NewState()
	vm.SetGlobal("GENERATION", lua.LNumber(e.generation))
	for name, fn := range e.bindings {
		vm.SetGlobal(name, vm.NewFunction(fn))
	}

	if err := e.loadDir(vm); err != nil {
		vm.Close()
		return err
	}
	for _, c := range e.chunks {
		if err := vm.DoString(c.source); err != nil {
			vm.Close()
			return eris.Wrapf(err, "load %s", c.name)
		}
	}
	e.vm = vm
	return nil
}

func (e *Environment) loadDir(vm *lua.LState) error {
	if e.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		if os.IsNotExist(err) {
			e.logger.Warn().Str("dir", e.dir).Msg("script directory does not exist")
			return nil
		}
		return eris.Wrapf(err, "read script directory %s", e.dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(e.dir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			return eris.Wrapf(err, "load %s", path)
		}
		e.logger.Debug().Str("file", path).Msg("loaded lua script")
	}
	return nil
}

// LoadString runs source in the current VM and keeps it so that later
// reloads run it again.
func (e *Environment) LoadString(name, source string) error {
	if e.vm == nil {
		return ErrClosed
	}
	if err := e.vm.DoString(source); err != nil {
		return eris.Wrapf(err, "load %s", name)
	}
	e.chunks = append(e.chunks, chunk{name: name, source: source})
	return nil
}

// Bind exposes fn to Lua as a global function, now and after every reload.
func (e *Environment) Bind(name string, fn lua.LGFunction) {
	e.bindings[name] = fn
	if e.vm != nil {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

// Reload closes the VM and loads every script into a fresh one. On failure
// the environment is left closed.
func (e *Environment) Reload() error {
	e.Close()
	e.generation++
	if err := e.open(); err != nil {
		return eris.Wrapf(err, "reload generation %d", e.generation)
	}
	e.logger.Info().Int("generation", e.generation).Msg("scripting environment reloaded")
	return nil
}

// Generation counts successful and failed reloads.
func (e *Environment) Generation() int {
	return e.generation
}

// Has reports whether a global function called name is defined.
func (e *Environment) Has(name string) bool {
	if e.vm == nil {
		return false
	}
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Call calls the global function name in protected mode and returns its
// first result.
func (e *Environment) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	if e.vm == nil {
		return lua.LNil, ErrClosed
	}
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return lua.LNil, eris.Wrapf(ErrUnknownFunction, "%q", name)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, eris.Wrapf(err, "call %s", name)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, nil
}

// State returns the live VM for building arguments.
func (e *Environment) State() *lua.LState {
	return e.vm
}

// Close releases the VM.
func (e *Environment) Close() {
	if e.vm != nil {
		e.vm.Close()
		e.vm = nil
	}
}
