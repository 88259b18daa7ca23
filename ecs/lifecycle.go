package ecs

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// Pass names used in logs and stats.
const (
	PassActivation = "activation"
	PassThink      = "think"
	PassCollision  = "collision"
)

// LifecycleStats provides statistics about lifecycle dispatch.
type LifecycleStats struct {
	Frames uint64
	Passes []PassStats
}

// PassStats provides dispatch statistics for a single pass.
type PassStats struct {
	Name           string
	ExecutionCount int64
	Callbacks      int64
	Failures       int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type passStatsInternal struct {
	name           string
	executionCount int64
	callbacks      int64
	failures       int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (p *passStatsInternal) record(d time.Duration) {
	p.executionCount++
	p.lastDuration = d
	p.totalDuration += d
	if d < p.minDuration {
		p.minDuration = d
	}
	if d > p.maxDuration {
		p.maxDuration = d
	}
}

type lifecycleStats struct {
	activation *passStatsInternal
	think      *passStatsInternal
	collision  *passStatsInternal
}

func newLifecycleStats() lifecycleStats {
	mk := func(name string) *passStatsInternal {
		return &passStatsInternal{name: name, minDuration: time.Duration(1<<63 - 1)}
	}
	return lifecycleStats{
		activation: mk(PassActivation),
		think:      mk(PassThink),
		collision:  mk(PassCollision),
	}
}

// invoke runs one component callback. Errors and panics are logged and
// counted; they never stop the surrounding sweep.
func (w *World) invoke(p *passStatsInternal, s iComponentStorage, e Entity, fn func() error) {
	p.callbacks++
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = eris.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}()
	if err != nil {
		p.failures++
		w.logger.Error().
			Err(err).
			Str("pass", p.name).
			Str("component", s.Name()).
			Uint32("entity", uint32(e)).
			Msg("component callback failed")
	}
}

func (w *World) activate(s iComponentStorage, e Entity) {
	start := time.Now()
	w.invoke(w.stats.activation, s, e, func() error { return s.start(e) })
	w.stats.activation.record(time.Since(start))
}

// SceneStart replays activation for every component of every activation
// storage, in storage creation order and dense order within a storage.
// Entities the host destroyed during the pass are purged before it returns.
func (w *World) SceneStart() {
	start := time.Now()
	storages := w.caps.activation
	for i := 0; i < len(storages); i++ {
		w.sweep(w.stats.activation, storages[i], func(s iComponentStorage, e Entity) error {
			return s.start(e)
		})
	}
	w.stats.activation.record(time.Since(start))
	w.commands.Flush(w)
}

// Tick runs one frame: the think pass, then queued commands, then the
// deferred destroy queue.
func (w *World) Tick(dt float64) {
	w.frame++
	frame := newUpdateFrame(dt, w)

	start := time.Now()
	// Storages created during the pass start thinking next frame.
	storages := w.caps.think[:len(w.caps.think):len(w.caps.think)]
	for _, s := range storages {
		w.sweep(w.stats.think, s, func(s iComponentStorage, e Entity) error {
			return s.think(frame, e)
		})
	}
	w.stats.think.record(time.Since(start))

	frame.Commands.Flush(w)
	w.drainDestroyQueue()
}

// sweep calls fn for every entity of s over a snapshot of its entity list.
// s rejects structural changes until the sweep is over.
func (w *World) sweep(p *passStatsInternal, s iComponentStorage, fn func(iComponentStorage, Entity) error) {
	s.beginSweep()
	defer s.endSweep()
	for _, e := range s.Entities() {
		if !s.Contains(e) {
			continue
		}
		w.invoke(p, s, e, func() error { return fn(s, e) })
	}
}

// HandleCollision delivers a contact of e to every collision storage that
// contains e, in storage creation order.
func (w *World) HandleCollision(e Entity, contact ContactInfo) {
	start := time.Now()
	storages := w.caps.collision
	for i := 0; i < len(storages); i++ {
		s := storages[i]
		if !s.Contains(e) {
			continue
		}
		w.invoke(w.stats.collision, s, e, func() error { return s.collide(e, contact) })
	}
	w.stats.collision.record(time.Since(start))
}

func (w *World) drainDestroyQueue() {
	for i := 0; i < len(w.destroyQueue); i++ {
		e := w.destroyQueue[i]
		if !w.Valid(e) {
			w.logger.Debug().Uint32("entity", uint32(e)).Msg("skipping destroy of invalid entity")
			continue
		}
		if err := w.Destroy(e); err != nil {
			w.logger.Error().Err(err).Uint32("entity", uint32(e)).Msg("deferred destroy failed")
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
}

// Run ticks the world at the given interval until the context is cancelled.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			w.Tick(dt)
		}
	}
}

// Frame returns the number of ticks run so far.
func (w *World) Frame() uint64 {
	return w.frame
}

// GetStats returns statistics about lifecycle dispatch.
func (w *World) GetStats() *LifecycleStats {
	stats := &LifecycleStats{Frames: w.frame}
	for _, internal := range []*passStatsInternal{w.stats.activation, w.stats.think, w.stats.collision} {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}
		stats.Passes = append(stats.Passes, PassStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			Callbacks:      internal.callbacks,
			Failures:       internal.failures,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		})
	}
	return stats
}
