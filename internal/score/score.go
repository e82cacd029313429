// Package score defines the best-score persistence contract used by the
// game loop driver, plus an in-memory implementation.
package score

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNegativeScore is returned when a store is asked to persist a negative score.
var ErrNegativeScore = errors.New("score: negative score")

// Store persists the best score for one game.
type Store interface {
	// Read returns the stored best score, 0 when nothing was stored yet.
	Read(ctx context.Context) (int, error)
	// WriteIfGreater stores score if it beats the stored best.
	// It reports whether the value was written.
	WriteIfGreater(ctx context.Context, score int) (bool, error)
}

// Recorder is implemented by stores that also keep a history of runs.
type Recorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// Run describes one finished run.
type Run struct {
	ID       uuid.UUID
	Score    int
	Duration time.Duration
	Ticks    uint64
	Cause    string
	EndedAt  time.Time
}

// NewRun creates a run record with a fresh ID.
func NewRun(score int, duration time.Duration, ticks uint64, cause string, endedAt time.Time) Run {
	return Run{
		ID:       uuid.New(),
		Score:    score,
		Duration: duration,
		Ticks:    ticks,
		Cause:    cause,
		EndedAt:  endedAt,
	}
}
