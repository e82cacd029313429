// Package savedata keeps the best score in a per-user save file managed by
// gdata, for players who want no database at all.
package savedata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-flappy/internal/score"
)

const scoresObject = "scores"

// record is the YAML document stored per game.
type record struct {
	Best      int       `yaml:"best"`
	Runs      int       `yaml:"runs"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Store implements score.Store and score.Recorder on top of a gdata manager.
type Store struct {
	mu      sync.Mutex
	manager *gdata.Manager
	gameID  string
}

// Open opens the save data directory for appName.
func Open(appName, gameID string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("savedata: open %q: %w", appName, err)
	}
	return New(m, gameID), nil
}

// New wraps an existing gdata manager.
func New(m *gdata.Manager, gameID string) *Store {
	return &Store{manager: m, gameID: gameID}
}

// Read returns the saved best score, 0 if nothing was saved.
func (s *Store) Read(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load()
	if err != nil {
		return 0, err
	}
	return rec.Best, nil
}

// WriteIfGreater saves value when it beats the saved best score.
func (s *Store) WriteIfGreater(_ context.Context, value int) (bool, error) {
	if value < 0 {
		return false, score.ErrNegativeScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load()
	if err != nil {
		return false, err
	}
	if value <= rec.Best {
		return false, nil
	}
	rec.Best = value
	rec.UpdatedAt = time.Now()
	if err := s.save(rec); err != nil {
		return false, err
	}
	return true, nil
}

// RecordRun counts the run. The save file keeps no per-run history.
func (s *Store) RecordRun(_ context.Context, _ score.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load()
	if err != nil {
		return err
	}
	rec.Runs++
	return s.save(rec)
}

// Runs returns how many runs were recorded.
func (s *Store) Runs() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load()
	return rec.Runs, err
}

func (s *Store) load() (record, error) {
	var rec record
	if !s.manager.ObjectPropExists(scoresObject, s.gameID) {
		return rec, nil
	}
	data, err := s.manager.LoadObjectProp(scoresObject, s.gameID)
	if err != nil {
		return rec, fmt.Errorf("savedata: load %s: %w", s.gameID, err)
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("savedata: decode %s: %w", s.gameID, err)
	}
	return rec, nil
}

func (s *Store) save(rec record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("savedata: encode %s: %w", s.gameID, err)
	}
	if err := s.manager.SaveObjectProp(scoresObject, s.gameID, data); err != nil {
		return fmt.Errorf("savedata: save %s: %w", s.gameID, err)
	}
	return nil
}

var (
	_ score.Store    = (*Store)(nil)
	_ score.Recorder = (*Store)(nil)
)
