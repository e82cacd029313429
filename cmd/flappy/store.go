package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/savedata"
	"github.com/vovakirdan/tui-flappy/internal/score"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const gdataPrefix = "gdata:"

// scoreBackend is an opened score store plus the optional run history.
type scoreBackend struct {
	Store score.Store
	Runs  tui.RunSource // Nil when the backend keeps no history
	Kind  string
	close func() error
}

// Close releases the backend's resources.
func (b *scoreBackend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openScoreBackend picks the store for dsn: "" keeps scores in memory,
// postgres:// and postgresql:// use PostgreSQL, gdata:<app> uses a per-user
// save file and anything else is a SQLite path.
func openScoreBackend(ctx context.Context, dsn string) (*scoreBackend, error) {
	switch {
	case dsn == "":
		return &scoreBackend{Store: score.NewMemory(0), Kind: "memory"}, nil

	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		pg, err := storage.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &scoreBackend{Store: pg.Board(flappy.GameID), Runs: pg, Kind: "postgres", close: pg.Close}, nil

	case strings.HasPrefix(dsn, gdataPrefix):
		app := strings.TrimPrefix(dsn, gdataPrefix)
		if app == "" {
			return nil, errors.New("gdata store needs an app name, e.g. gdata:flappy")
		}
		sd, err := savedata.Open(app, flappy.GameID)
		if err != nil {
			return nil, err
		}
		return &scoreBackend{Store: sd, Kind: "gdata"}, nil

	default:
		db, err := storage.Open(dsn)
		if err != nil {
			return nil, err
		}
		return &scoreBackend{Store: db.Board(flappy.GameID), Runs: db, Kind: "sqlite", close: db.Close}, nil
	}
}

// openScoreBackendOrMemory degrades to the in-memory store when dsn cannot
// be opened, so the game stays playable.
func openScoreBackendOrMemory(ctx context.Context, dsn string, logger *log.Logger) *scoreBackend {
	b, err := openScoreBackend(ctx, dsn)
	if err != nil {
		logger.Warn("could not open score store, scores will not persist", "dsn", redactDSN(dsn), "err", err)
		return &scoreBackend{Store: score.NewMemory(0), Kind: "memory"}
	}
	logger.Debug("score store opened", "kind", b.Kind)
	return b
}

// redactDSN hides the password of a database URL.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(creds, ":")
	return fmt.Sprintf("%s://%s:***@%s", scheme, user, host)
}
