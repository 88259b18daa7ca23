package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/host"
	"github.com/plus3/hotreg/internal/config"
	"github.com/plus3/hotreg/reload"
	"github.com/plus3/hotreg/script"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Frame.TickRate = time.Millisecond
	cfg.Frame.Frames = 12
	cfg.Frame.ReloadEvery = 5
	cfg.Script.Dir = ""
	return cfg
}

func TestRunWithMemoryStore(t *testing.T) {
	var logs bytes.Buffer
	err := run(context.Background(), testConfig(), zerolog.New(&logs))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "scripting environment reloaded")
	assert.Contains(t, logs.String(), `"frames":12`)
}

func TestRunWithRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Reload.Store = "redis"
	cfg.Reload.RedisAddr = mr.Addr()

	require.NoError(t, run(context.Background(), cfg, zerolog.Nop()))
	assert.False(t, mr.Exists(cfg.Reload.KeyPrefix+":snapshot"))
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Frame.Frames = 0

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, run(ctx, cfg, zerolog.Nop()))
}

func TestReloadAllKeepsScriptState(t *testing.T) {
	env, err := script.NewEnvironment("", zerolog.Nop())
	require.NoError(t, err)
	defer env.Close()
	require.NoError(t, env.LoadString("default.lua", defaultScript))

	w := ecs.NewWorld(buildCatalog(ecs.DefaultCapacity), host.NewMemory())
	script.Install(w, env)
	require.NoError(t, spawnScene(w))

	walker, ok := w.Find("walker")
	require.True(t, ok)
	w.Tick(0.5)
	before, err := w.Transform(walker)
	require.NoError(t, err)
	assert.Equal(t, float32(1), before.Position.X)

	bridge := reload.NewBridge(reload.NewMemoryStore(), zerolog.Nop())
	require.NoError(t, reloadAll(context.Background(), bridge, w, env, ecs.DefaultCapacity))
	assert.Equal(t, 1, env.Generation())

	b, err := ecs.Get[script.Behaviour](w, walker)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Vars["dir"])
	assert.Equal(t, 2.0, b.Vars["speed"])

	w.Tick(0.5)
	after, err := w.Transform(walker)
	require.NoError(t, err)
	assert.Equal(t, float32(2), after.Position.X)
}

func TestOpenStoreRejectsUnknown(t *testing.T) {
	_, _, err := openStore(config.ReloadConfig{Store: "disk"})
	assert.Error(t, err)
}
