package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/host"
	"github.com/plus3/hotreg/reload"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	collisions := flag.Int("collisions", 100, "Collision contacts delivered per frame.")
	reloadEvery := flag.Int("reload-every", 0, "Frames between full unload/restore cycles (0 disables reloads).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu, mem or allocs.")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "allocs":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		logger.Fatal().Str("profile", *profileMode).Msg("unknown profile mode")
	}

	logger.Info().Msg("Starting ECS stress test...")

	// 1. Setup registry, host and world
	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	h := host.NewMemory()
	world := ecs.NewWorld(registry, h, ecs.WithLogger(logger.Level(zerolog.WarnLevel)))
	h.OnDestroy = world.OnNativeEntityDestroy

	// 2. Populate the world with initial entities
	logger.Info().Int("entities", *entityCount).Msg("Populating world...")
	for i := 0; i < *entityCount; i++ {
		spawnRandomEntity(world, rand.Intn(5)+1)
	}
	world.SceneStart()
	logger.Info().Msg("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:    *duration,
		Entities:    *entityCount,
		Components:  registry.Len(),
		Collisions:  *collisions,
		ReloadEvery: *reloadEvery,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
		ReloadTime: Stats{
			Samples: make([]time.Duration, 0),
		},
		GCPauseMetrics: *gcPauseMetrics,
	}

	bridge := reload.NewBridge(reload.NewMemoryStore(), logger.Level(zerolog.WarnLevel))

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", *duration).Msg("Running simulation...")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			world.Tick(float64(deltaTime) / float64(time.Second))
			deliverCollisions(world, h, *collisions)
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++

			// Keep the population roughly stable.
			for h.Len() < *entityCount {
				spawnRandomEntity(world, rand.Intn(5)+1)
			}

			if *reloadEvery > 0 && totalUpdates%int64(*reloadEvery) == 0 {
				reloadStart := time.Now()
				if err := reloadWorld(ctx, bridge, world); err != nil {
					logger.Fatal().Err(err).Msg("reload failed")
				}
				report.ReloadTime.Samples = append(report.ReloadTime.Samples, time.Since(reloadStart))
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.ReloadTime.Finalize()
	report.Lifecycle = world.GetStats()
	report.Registry = world.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().Msg("Simulation finished.")

	// 4. Generate report to console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate report")
	}
	fmt.Println("--- End of Report ---")
}

// deliverCollisions reports n contacts between random live entities.
func deliverCollisions(w *ecs.World, h *host.Memory, n int) {
	var live []ecs.Entity
	h.Each(func(e ecs.Entity) { live = append(live, e) })
	if len(live) < 2 {
		return
	}
	for i := 0; i < n; i++ {
		a, b := live[rand.Intn(len(live))], live[rand.Intn(len(live))]
		if !w.Valid(a) {
			continue
		}
		w.HandleCollision(a, ecs.ContactInfo{RelativeSpeed: rand.Float32(), Other: b})
	}
}

// reloadWorld runs a full unload/restore cycle against a freshly built catalog.
func reloadWorld(ctx context.Context, bridge *reload.Bridge, w *ecs.World) error {
	if _, err := bridge.Unload(ctx, w); err != nil {
		return err
	}
	catalog := ecs.NewComponentRegistry()
	registerComponents(catalog)
	_, err := bridge.Restore(ctx, w, catalog)
	return err
}
