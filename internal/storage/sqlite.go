// Package storage provides SQL persistence for best scores and run history.
// SQLite uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies;
// PostgreSQL backs the shared leaderboard of the SSH server.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-flappy/internal/score"
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// RunEntry is one recorded run.
type RunEntry struct {
	ID       int64
	RunID    string
	GameID   string
	Score    int
	Duration time.Duration
	Ticks    uint64
	Cause    string
	EndedAt  time.Time
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	RunsCount  int
	BestScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandPath(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; async score saves would otherwise hit SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Timestamps are unix milliseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_scores (
			game_id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			cause TEXT NOT NULL DEFAULT '',
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(game_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Board returns a score.Store bound to one game.
func (s *Store) Board(gameID string) *Board {
	return &Board{backend: s, gameID: gameID}
}

// BestScore returns the stored best score for the game, 0 if none.
func (s *Store) BestScore(ctx context.Context, gameID string) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx,
		"SELECT score FROM best_scores WHERE game_id = ?",
		gameID,
	).Scan(&best)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return best, nil
}

// WriteBestIfGreater stores score as the game's best if it beats the stored
// value. The comparison happens inside the upsert, so concurrent writers
// cannot lower the best.
func (s *Store) WriteBestIfGreater(ctx context.Context, gameID string, value int) (bool, error) {
	// A missing row reads as a best of 0.
	if value <= 0 {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO best_scores (game_id, score, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE
		 SET score = excluded.score, updated_at = excluded.updated_at
		 WHERE excluded.score > best_scores.score`,
		gameID, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot write best score: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(ctx context.Context, gameID string, run score.Run) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, game_id, score, duration_ms, ticks, cause, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), gameID, run.Score, run.Duration.Milliseconds(),
		int64(run.Ticks), run.Cause, run.EndedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the top N runs for the given game.
// Results are ordered by score descending, earliest first on ties.
func (s *Store) TopRuns(ctx context.Context, gameID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, game_id, score, duration_ms, ticks, cause, ended_at
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY score DESC, ended_at ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var (
			e                 RunEntry
			durationMs, ended int64
			ticks             int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.GameID, &e.Score, &durationMs, &ticks, &e.Cause, &ended); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.Ticks = uint64(ticks)
		e.EndedAt = time.UnixMilli(ended)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Stats retrieves aggregated statistics for a specific game.
func (s *Store) Stats(ctx context.Context, gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(MAX(ended_at), 0)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&stats.RunsCount, &stats.BestScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	if lastPlayed > 0 {
		stats.LastPlayed = time.UnixMilli(lastPlayed)
	}

	best, err := s.BestScore(ctx, gameID)
	if err != nil {
		return nil, err
	}
	stats.BestScore = max(stats.BestScore, best)

	return stats, nil
}

// ClearRuns deletes run history and the best score for the given game.
func (s *Store) ClearRuns(ctx context.Context, gameID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM best_scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear best score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}
