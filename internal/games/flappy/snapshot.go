package flappy

import (
	"time"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Snapshot is an immutable copy of the game state taken at a tick boundary.
// The engine publishes a fresh Snapshot after every mutation; readers on
// other goroutines only ever see complete snapshots.
type Snapshot struct {
	Tick           uint64 // Advancing Update calls since the last Reset
	Status         Status
	Cause          Cause
	Score          int
	PlayerY        float64
	PlayerVelocity float64
	Obstacles      []Obstacle // Insertion order; do not modify
	RunStartedAt   time.Time  // Zero until the first tap

	// Geometry, fixed for the engine's lifetime.
	Width         float64
	Height        float64
	PlayerX       float64
	PlayerRadius  float64
	ObstacleWidth float64
}

// Running reports whether the run is in progress.
func (s *Snapshot) Running() bool {
	return s.Status == StatusRunning
}

// GameOver reports whether the run has ended.
func (s *Snapshot) GameOver() bool {
	return s.Status == StatusGameOver
}

// PlayerRect returns the player's hitbox.
func (s *Snapshot) PlayerRect() core.Rect {
	return core.RectAround(s.PlayerX, s.PlayerY, s.PlayerRadius)
}

// Elapsed returns the run time at now, or zero before the run started.
func (s *Snapshot) Elapsed(now time.Time) time.Duration {
	if s.RunStartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.RunStartedAt)
}
