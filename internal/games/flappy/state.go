package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Status is the run state. Within a run it only moves forward:
// Idle -> Running -> GameOver. Only Reset returns to Idle.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusGameOver
)

// String returns the status name used in logs and the spectator feed.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Cause records what ended a run.
type Cause int

const (
	CauseNone     Cause = iota
	CauseCeiling        // Crossed the top bound after the grace period
	CauseFloor          // Crossed the bottom bound after the grace period
	CauseObstacle       // Hit a solid region of an obstacle
)

// String returns the cause name used in logs and run history.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseCeiling:
		return "ceiling"
	case CauseFloor:
		return "floor"
	case CauseObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// Obstacle is a vertical pair of solid regions with a passable gap between
// GapTop and GapTop+GapHeight. Everything outside the gap is solid.
type Obstacle struct {
	ID        uint64  // Unique within one engine, increasing with spawn order
	X         float64 // Left edge, decreases over time
	GapTop    float64
	GapHeight float64
	Passed    bool // Set once, when the trailing edge crosses the player
}

// GapBottom returns the y-coordinate where the lower solid region starts.
func (o Obstacle) GapBottom() float64 {
	return o.GapTop + o.GapHeight
}

// Right returns the trailing edge given the obstacle width.
func (o Obstacle) Right(width float64) float64 {
	return o.X + width
}

// TopRect returns the solid region above the gap.
func (o Obstacle) TopRect(width float64) core.Rect {
	return core.NewRect(o.X, 0, width, o.GapTop)
}

// BottomRect returns the solid region below the gap, down to playfieldH.
// A gap reaching past the floor leaves an empty rectangle.
func (o Obstacle) BottomRect(width, playfieldH float64) core.Rect {
	bottom := o.GapBottom()
	return core.NewRect(o.X, bottom, width, math.Max(0, playfieldH-bottom))
}
