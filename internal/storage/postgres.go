package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vovakirdan/tui-flappy/internal/score"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS best_scores (
    game_id TEXT PRIMARY KEY,
    score INTEGER NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS runs (
    id BIGSERIAL PRIMARY KEY,
    run_id UUID NOT NULL UNIQUE,
    game_id TEXT NOT NULL,
    score INTEGER NOT NULL,
    duration_ms BIGINT NOT NULL DEFAULT 0,
    ticks BIGINT NOT NULL DEFAULT 0,
    cause TEXT NOT NULL DEFAULT '',
    ended_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(game_id, score DESC);
`

// PostgresStore keeps a leaderboard shared by every SSH session.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL and initializes the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: cannot connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: postgres migration failed: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Board returns a score.Store bound to one game.
func (s *PostgresStore) Board(gameID string) *Board {
	return &Board{backend: s, gameID: gameID}
}

// BestScore returns the stored best score for the game, 0 if none.
func (s *PostgresStore) BestScore(ctx context.Context, gameID string) (int, error) {
	var best int
	err := s.pool.QueryRow(ctx,
		`SELECT score FROM best_scores WHERE game_id = $1`, gameID).Scan(&best)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return best, nil
}

// WriteBestIfGreater stores value as the game's best if it beats the stored one.
func (s *PostgresStore) WriteBestIfGreater(ctx context.Context, gameID string, value int) (bool, error) {
	if value <= 0 {
		return false, nil
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO best_scores (game_id, score, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (game_id) DO UPDATE
		 SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
		 WHERE EXCLUDED.score > best_scores.score`,
		gameID, value, time.Now())
	if err != nil {
		return false, fmt.Errorf("storage: cannot write best score: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SaveRun records a finished run and returns its row ID.
func (s *PostgresStore) SaveRun(ctx context.Context, gameID string, run score.Run) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO runs (run_id, game_id, score, duration_ms, ticks, cause, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		run.ID.String(), gameID, run.Score, run.Duration.Milliseconds(),
		int64(run.Ticks), run.Cause, run.EndedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	return id, nil
}

// TopRuns retrieves the top N runs for the given game.
func (s *PostgresStore) TopRuns(ctx context.Context, gameID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, run_id::text, game_id, score, duration_ms, ticks, cause, ended_at
		 FROM runs
		 WHERE game_id = $1
		 ORDER BY score DESC, ended_at ASC
		 LIMIT $2`,
		gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var (
			e                 RunEntry
			durationMs, ticks int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.GameID, &e.Score, &durationMs, &ticks, &e.Cause, &e.EndedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.Ticks = uint64(ticks)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
