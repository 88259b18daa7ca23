package main

import (
	"context"
	_ "embed"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/host"
	"github.com/plus3/hotreg/internal/config"
	"github.com/plus3/hotreg/reload"
	"github.com/plus3/hotreg/script"
)

//go:embed default.lua
var defaultScript string

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file.")
	frames := flag.Int("frames", -1, "Override [frame] frames (0 runs until interrupted).")
	flag.Parse()

	bootstrap := zerolog.New(os.Stderr)
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("load config")
	}
	if *frames >= 0 {
		cfg.Frame.Frames = *frames
	}

	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("hotreload failed")
	}
}

func openStore(cfg config.ReloadConfig) (reload.BlobStore, func(), error) {
	switch cfg.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return reload.NewRedisStore(client, cfg.KeyPrefix), func() { client.Close() }, nil
	case "memory":
		return reload.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, eris.Errorf("unknown reload store %q", cfg.Store)
}

// run drives the world for the configured number of frames, reloading the
// scripting environment every ReloadEvery frames.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	store, closeStore, err := openStore(cfg.Reload)
	if err != nil {
		return err
	}
	defer closeStore()

	env, err := script.NewEnvironment(cfg.Script.Dir, logger)
	if err != nil {
		return err
	}
	defer env.Close()
	if !env.Has("wander") {
		if err := env.LoadString("default.lua", defaultScript); err != nil {
			return err
		}
	}

	h := host.NewMemory()
	w := ecs.NewWorld(buildCatalog(cfg.Registry.Capacity), h, ecs.WithLogger(logger))
	h.OnDestroy = w.OnNativeEntityDestroy
	script.Install(w, env)

	if err := spawnScene(w); err != nil {
		return err
	}
	w.SceneStart()
	beacon, _ := w.Find("beacon")

	bridge := reload.NewBridge(store, logger)
	ticker := time.NewTicker(cfg.Frame.TickRate)
	defer ticker.Stop()
	last := time.Now()

	for cfg.Frame.Frames == 0 || int(w.Frame()) < cfg.Frame.Frames {
		select {
		case <-ctx.Done():
			logger.Info().Uint64("frame", w.Frame()).Msg("interrupted")
			return nil
		case now := <-ticker.C:
			w.Tick(now.Sub(last).Seconds())
			last = now
		}

		if w.Valid(beacon) && w.Frame()%30 == 0 {
			w.HandleCollision(beacon, ecs.ContactInfo{RelativeSpeed: 2, Other: ecs.Null})
		}

		if cfg.Frame.ReloadEvery > 0 && int(w.Frame())%cfg.Frame.ReloadEvery == 0 {
			if err := reloadAll(ctx, bridge, w, env, cfg.Registry.Capacity); err != nil {
				return err
			}
		}
	}

	stats := w.CollectStats()
	logger.Info().
		Uint64("frames", w.Frame()).
		Int("entities", h.Len()).
		Int("components", stats.TotalComponents).
		Msg("done")
	return nil
}

// reloadAll performs one full reload: capture and drop every component,
// rebuild the scripting environment, then restore into a fresh catalog.
func reloadAll(ctx context.Context, bridge *reload.Bridge, w *ecs.World, env *script.Environment, capacity int) error {
	if _, err := bridge.Unload(ctx, w); err != nil {
		return eris.Wrap(err, "unload")
	}
	if err := env.Reload(); err != nil {
		return err
	}
	report, err := bridge.Restore(ctx, w, buildCatalog(capacity))
	if err != nil {
		return eris.Wrap(err, "restore")
	}
	if len(report.Dropped) > 0 || len(report.Drifted) > 0 {
		w.Logger().Warn().
			Strs("dropped", report.Dropped).
			Int("drifted", len(report.Drifted)).
			Msg("reload lost or changed component data")
	}
	return nil
}
