// Package driver runs the flappy engine in real time. It measures and clamps
// the frame delta, forwards taps, delays the game-over prompt and persists
// the best score without blocking the loop.
package driver

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/score"
)

// Frame is what one loop iteration hands to renderers and listeners.
type Frame struct {
	Snapshot   *flappy.Snapshot
	Best       int
	NewBest    bool          // The finished run beat the previous best; cleared if the store holds a higher one
	ShowPrompt bool          // Game-over delay elapsed; restart is offered
	Dt         time.Duration // Clamped delta applied this frame
	Tapped     bool          // A tap was accepted since the previous frame
	Ended      bool          // The run ended during this frame
}

// Driver owns the loop side of one engine. Tap, Restart and Advance must be
// called from a single goroutine; Best, Wait and Close are safe anywhere.
type Driver struct {
	engine        *flappy.Engine
	store         score.Store
	now           func() time.Time
	tickRate      int
	maxDelta      time.Duration
	gameOverDelay time.Duration
	saveTimeout   time.Duration
	logger        *log.Logger
	listeners     []func(Frame)

	best     atomic.Int64
	newBest  atomic.Uint64 // generation of the run showing a new best, 0 for none
	gen      uint64
	tapped   bool
	last     time.Time
	promptAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	saves  errgroup.Group
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// WithTickRate sets the loop frequency used by Run and Interval.
func WithTickRate(hz int) Option {
	return func(d *Driver) {
		if hz > 0 {
			d.tickRate = hz
		}
	}
}

// WithMaxDelta sets the upper clamp for a frame delta.
func WithMaxDelta(limit time.Duration) Option {
	return func(d *Driver) {
		if limit > 0 {
			d.maxDelta = limit
		}
	}
}

// WithGameOverDelay sets how long the prompt waits after a run ends.
func WithGameOverDelay(delay time.Duration) Option {
	return func(d *Driver) {
		d.gameOverDelay = delay
	}
}

// WithSaveTimeout bounds each asynchronous store call.
func WithSaveTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.saveTimeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithListener registers a callback invoked with every frame.
func WithListener(fn func(Frame)) Option {
	return func(d *Driver) {
		d.listeners = append(d.listeners, fn)
	}
}

// New creates a driver for engine. Loop timing defaults come from the
// engine's config. A nil store keeps the best score in memory only.
func New(engine *flappy.Engine, store score.Store, opts ...Option) *Driver {
	loop := engine.Config().Loop
	d := &Driver{
		engine:        engine,
		store:         store,
		now:           time.Now,
		tickRate:      loop.TickRate,
		maxDelta:      loop.MaxDelta,
		gameOverDelay: loop.GameOverDelay,
		saveTimeout:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.store == nil {
		d.store = score.NewMemory(0)
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())

	ctx, cancel := context.WithTimeout(d.ctx, d.saveTimeout)
	defer cancel()
	best, err := d.store.Read(ctx)
	if err != nil {
		d.logger.Warn("cannot read best score", "err", err)
		best = 0
	}
	d.best.Store(int64(best))

	return d
}

// Engine returns the driven engine.
func (d *Driver) Engine() *flappy.Engine {
	return d.engine
}

// Interval returns the delay between frames at the configured tick rate.
func (d *Driver) Interval() time.Duration {
	return time.Second / time.Duration(d.tickRate)
}

// Best returns the best score known to the driver.
func (d *Driver) Best() int {
	return int(d.best.Load())
}

// Tap forwards one tap to the engine. Taps after game over are dropped.
func (d *Driver) Tap() {
	if d.engine.Snapshot().GameOver() {
		return
	}
	d.engine.OnTap()
	d.tapped = true
}

// Restart resets the engine to a fresh idle run.
func (d *Driver) Restart() {
	d.engine.Reset()
	d.newBest.Store(0)
	d.tapped = false
	d.promptAt = time.Time{}
	d.logger.Debug("restart")

	// Another session sharing the store may have raised the best meanwhile.
	d.saves.Go(func() error {
		ctx, cancel := context.WithTimeout(d.ctx, d.saveTimeout)
		defer cancel()
		d.syncBest(ctx)
		return nil
	})
}

// raiseBest lifts the cached best to v if v is higher.
func (d *Driver) raiseBest(v int) {
	for {
		cur := d.best.Load()
		if int64(v) <= cur || d.best.CompareAndSwap(cur, int64(v)) {
			return
		}
	}
}

// syncBest re-reads the store and raises the cached best to its value.
func (d *Driver) syncBest(ctx context.Context) {
	best, err := d.store.Read(ctx)
	if err != nil {
		d.logger.Debug("cannot refresh best score", "err", err)
		return
	}
	d.raiseBest(best)
}

// Advance runs one loop iteration at now and returns the resulting frame.
func (d *Driver) Advance(now time.Time) Frame {
	dt := d.delta(now)

	before := d.engine.Snapshot()
	if before.Running() {
		d.engine.Update(dt.Seconds())
	}
	snap := d.engine.Snapshot()

	ended := before.Running() && snap.GameOver()
	if ended {
		d.finish(snap, now)
	}

	f := Frame{
		Snapshot:   snap,
		Best:       d.Best(),
		NewBest:    d.newBest.Load() != 0,
		ShowPrompt: snap.GameOver() && !d.promptAt.IsZero() && !now.Before(d.promptAt),
		Dt:         dt,
		Tapped:     d.tapped,
		Ended:      ended,
	}
	d.tapped = false

	for _, fn := range d.listeners {
		fn(f)
	}
	return f
}

// delta returns the time since the previous frame clamped to [0, maxDelta].
// The first frame has a zero delta.
func (d *Driver) delta(now time.Time) time.Duration {
	var dt time.Duration
	if !d.last.IsZero() {
		dt = now.Sub(d.last)
	}
	d.last = now

	switch {
	case dt < 0:
		return 0
	case dt > d.maxDelta:
		return d.maxDelta
	}
	return dt
}

// finish handles the Running -> GameOver edge.
func (d *Driver) finish(s *flappy.Snapshot, now time.Time) {
	d.promptAt = now.Add(d.gameOverDelay)

	d.logger.Info("game over",
		"score", s.Score,
		"cause", s.Cause,
		"ticks", s.Tick,
		"elapsed", s.Elapsed(now).Round(time.Millisecond),
	)

	d.gen++
	gen := d.gen
	beatBest := s.Score > d.Best()
	if beatBest {
		d.raiseBest(s.Score)
		d.newBest.Store(gen)
	}

	rec, canRecord := d.store.(score.Recorder)
	if !beatBest && !canRecord {
		return
	}
	run := score.NewRun(s.Score, s.Elapsed(now), s.Tick, s.Cause.String(), now)

	d.saves.Go(func() error {
		ctx, cancel := context.WithTimeout(d.ctx, d.saveTimeout)
		defer cancel()

		if beatBest {
			updated, err := d.store.WriteIfGreater(ctx, run.Score)
			if err != nil {
				d.logger.Error("cannot save best score", "score", run.Score, "err", err)
				return err
			}
			if !updated {
				d.newBest.CompareAndSwap(gen, 0)
				d.syncBest(ctx)
				d.logger.Info("best score already higher in store", "score", run.Score, "best", d.Best())
			}
		}
		if canRecord {
			if err := rec.RecordRun(ctx, run); err != nil {
				d.logger.Error("cannot record run", "run", run.ID, "err", err)
				return err
			}
		}
		return nil
	})
}

// Run drives the loop with a ticker at the tick rate until ctx is done,
// forwarding taps from the channel. It waits for pending saves before
// returning and reports the first save error.
func (d *Driver) Run(ctx context.Context, taps <-chan struct{}) error {
	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()

	d.Advance(d.now())
	for {
		select {
		case <-ctx.Done():
			return d.Wait()
		case _, ok := <-taps:
			if !ok {
				taps = nil
				continue
			}
			d.Tap()
		case <-ticker.C:
			d.Advance(d.now())
		}
	}
}

// Wait blocks until every pending save finished and returns the first error
// any save produced.
func (d *Driver) Wait() error {
	return d.saves.Wait()
}

// Close aborts pending saves and waits for them to return.
func (d *Driver) Close() error {
	d.cancel()
	return d.Wait()
}
