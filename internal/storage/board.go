package storage

import (
	"context"

	"github.com/vovakirdan/tui-flappy/internal/score"
)

// backend is the per-game subset both SQL stores provide.
type backend interface {
	BestScore(ctx context.Context, gameID string) (int, error)
	WriteBestIfGreater(ctx context.Context, gameID string, value int) (bool, error)
	SaveRun(ctx context.Context, gameID string, run score.Run) (int64, error)
}

// Board adapts a SQL store to score.Store and score.Recorder for one game.
type Board struct {
	backend backend
	gameID  string
}

// GameID returns the game the board is bound to.
func (b *Board) GameID() string {
	return b.gameID
}

// Read returns the best score for the board's game.
func (b *Board) Read(ctx context.Context) (int, error) {
	return b.backend.BestScore(ctx, b.gameID)
}

// WriteIfGreater stores value if it beats the board's best score.
func (b *Board) WriteIfGreater(ctx context.Context, value int) (bool, error) {
	if value < 0 {
		return false, score.ErrNegativeScore
	}
	return b.backend.WriteBestIfGreater(ctx, b.gameID, value)
}

// RecordRun appends a finished run to the board's history.
func (b *Board) RecordRun(ctx context.Context, run score.Run) error {
	_, err := b.backend.SaveRun(ctx, b.gameID, run)
	return err
}

var (
	_ score.Store    = (*Board)(nil)
	_ score.Recorder = (*Board)(nil)
	_ backend        = (*Store)(nil)
	_ backend        = (*PostgresStore)(nil)
)
