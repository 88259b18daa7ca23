package script_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/plus3/hotreg/script"
)

func writeScript(t *testing.T, dir, name, source string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644))
}

func TestEnvironmentLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.lua", `function double(x) return x * 2 end`)
	writeScript(t, dir, "b.lua", `function quad(x) return double(double(x)) end`)
	writeScript(t, dir, "notes.txt", `this is not lua`)

	env, err := script.NewEnvironment(dir, zerolog.Nop())
	require.NoError(t, err)
	defer env.Close()

	assert.True(t, env.Has("double"))
	ret, err := env.Call("quad", lua.LNumber(3))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(12), ret)

	_, err = env.Call("missing")
	assert.True(t, errors.Is(err, script.ErrUnknownFunction))
}

func TestEnvironmentMissingDirectory(t *testing.T) {
	env, err := script.NewEnvironment(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	require.NoError(t, err)
	defer env.Close()
	assert.False(t, env.Has("anything"))
}

func TestEnvironmentBadScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `function (`)

	_, err := script.NewEnvironment(dir, zerolog.Nop())
	assert.Error(t, err)
}

func TestEnvironmentReload(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "speed.lua", `function speed() return 1 end`)

	env, err := script.NewEnvironment(dir, zerolog.Nop())
	require.NoError(t, err)
	defer env.Close()

	require.NoError(t, env.LoadString("counter", `counter = 0; function bump() counter = counter + 1; return counter end`))
	env.Bind("answer", func(L *lua.LState) int {
		L.Push(lua.LNumber(42))
		return 1
	})

	_, err = env.Call("bump")
	require.NoError(t, err)
	ret, err := env.Call("bump")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(2), ret)

	writeScript(t, dir, "speed.lua", `function speed() return 5 end`)
	require.NoError(t, env.Reload())
	assert.Equal(t, 1, env.Generation())

	// Globals are rebuilt: edited files take effect and Lua state starts over.
	ret, err = env.Call("speed")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(5), ret)

	ret, err = env.Call("bump")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(1), ret)

	ret, err = env.Call("answer")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestEnvironmentFailedReloadIsClosed(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ok.lua", `function ok() return true end`)

	env, err := script.NewEnvironment(dir, zerolog.Nop())
	require.NoError(t, err)

	writeScript(t, dir, "ok.lua", `function ok( return true end`)
	assert.Error(t, env.Reload())

	_, err = env.Call("ok")
	assert.True(t, errors.Is(err, script.ErrClosed))
	assert.Nil(t, env.State())
}

func TestEnvironmentCallError(t *testing.T) {
	env, err := script.NewEnvironment("", zerolog.Nop())
	require.NoError(t, err)
	defer env.Close()

	require.NoError(t, env.LoadString("boom", `function boom() error("kaboom") end`))
	_, err = env.Call("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}
