// Package flappy implements the simulation core of a Flappy Bird-style game:
// the run state machine, physics integration, obstacle generation and
// collision detection. It does no I/O and never blocks; a driver calls
// OnTap and Update from a single goroutine and renderers read Snapshot.
package flappy

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// GameID identifies the game in score storage.
const GameID = "flappy"

// ErrInvalidPlayfield is returned by New for non-positive playfield dimensions.
var ErrInvalidPlayfield = errors.New("flappy: playfield dimensions must be positive")

// ErrInvalidConfig is returned by New when the tunables cannot be simulated.
var ErrInvalidConfig = errors.New("flappy: invalid config")

// Engine owns the mutable state of one game run.
// Reset, OnTap and Update must be called from a single goroutine.
// Snapshot may be called from any goroutine.
type Engine struct {
	width  float64
	height float64
	cfg    config.FlappyConfig
	now    func() time.Time
	rng    *rand.Rand
	logger *log.Logger

	playerY      float64
	playerVel    float64
	obstacles    []Obstacle
	score        int
	status       Status
	cause        Cause
	runStartedAt time.Time
	tick         uint64
	nextID       uint64

	snap atomic.Pointer[Snapshot]
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for the grace period.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRand sets the random source used for gap positions.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithSeed seeds the random source used for gap positions.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithLogger sets the logger for run transitions.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine for a width x height playfield and resets it.
func New(width, height float64, cfg config.FlappyConfig, opts ...Option) (*Engine, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidPlayfield, width, height)
	}
	cfg.Playfield = config.Playfield{Width: width, Height: height}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e := &Engine{
		width:     width,
		height:    height,
		cfg:       cfg,
		now:       time.Now,
		obstacles: make([]Obstacle, 0, cfg.Obstacles.InitialCount+2),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}

	e.Reset()
	return e, nil
}

// Playfield returns the simulation area dimensions.
func (e *Engine) Playfield() (width, height float64) {
	return e.width, e.height
}

// Config returns the tunables the engine runs with.
func (e *Engine) Config() config.FlappyConfig {
	return e.cfg
}

// Snapshot returns the latest published state. Never nil.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Reset replaces the whole state with a fresh Idle run: player centred and
// at rest, score 0, and evenly spaced obstacles starting at the right edge.
func (e *Engine) Reset() {
	e.playerY = e.height / 2
	e.playerVel = 0
	e.obstacles = e.obstacles[:0]
	e.score = 0
	e.status = StatusIdle
	e.cause = CauseNone
	e.runStartedAt = time.Time{}
	e.tick = 0

	for i := 0; i < e.cfg.Obstacles.InitialCount; i++ {
		e.spawn(e.width + float64(i)*e.cfg.Obstacles.Spacing)
	}

	e.logger.Debug("reset", "obstacles", len(e.obstacles))
	e.publish()
}

// OnTap handles one discrete tap. The first tap starts the run and jumps in
// the same call; later taps reset the velocity to the jump impulse; taps
// after game over are discarded.
func (e *Engine) OnTap() {
	switch e.status {
	case StatusIdle:
		e.status = StatusRunning
		e.runStartedAt = e.now()
		e.playerVel = e.cfg.Physics.JumpStrength
		e.logger.Debug("run started", "y", e.playerY)
	case StatusRunning:
		e.playerVel = e.cfg.Physics.JumpStrength
	case StatusGameOver:
		return
	}
	e.publish()
}

// Update advances the run by dt seconds of game time. It does nothing
// unless the run is in progress. The caller is expected to clamp dt.
func (e *Engine) Update(dt float64) {
	if e.status != StatusRunning {
		return
	}
	if dt < 0 {
		dt = 0
	}
	e.tick++

	// Constants are tuned per tick at the baseline rate.
	scale := dt * e.cfg.Physics.TickBaseline

	e.playerVel += e.cfg.Physics.Gravity * scale
	e.playerY += e.playerVel * scale

	if e.enforceBounds() {
		e.publish()
		return
	}

	e.advanceObstacles(scale)
	e.replenish()
	e.checkCollisions()
	e.publish()
}

// radius returns the player's hitbox radius.
func (e *Engine) radius() float64 {
	return e.cfg.Player.Radius()
}

// playerX is the fixed horizontal centre of the player.
func (e *Engine) playerX() float64 {
	return e.width/2 - e.radius()
}

// inGrace reports whether the run is young enough to forgive bound hits.
func (e *Engine) inGrace() bool {
	return e.now().Sub(e.runStartedAt) < e.cfg.GracePeriod
}

// end moves the run to GameOver.
func (e *Engine) end(cause Cause) {
	e.status = StatusGameOver
	e.cause = cause
	e.logger.Debug("game over", "cause", cause, "score", e.score, "tick", e.tick)
}

// publish swaps in a snapshot of the current state.
func (e *Engine) publish() {
	obstacles := make([]Obstacle, len(e.obstacles))
	copy(obstacles, e.obstacles)

	e.snap.Store(&Snapshot{
		Tick:           e.tick,
		Status:         e.status,
		Cause:          e.cause,
		Score:          e.score,
		PlayerY:        e.playerY,
		PlayerVelocity: e.playerVel,
		Obstacles:      obstacles,
		RunStartedAt:   e.runStartedAt,
		Width:          e.width,
		Height:         e.height,
		PlayerX:        e.playerX(),
		PlayerRadius:   e.radius(),
		ObstacleWidth:  e.cfg.Obstacles.Width,
	})
}
