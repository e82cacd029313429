package score

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store and Recorder. Nothing survives the process.
type Memory struct {
	mu   sync.Mutex
	best int
	runs []Run
}

// NewMemory returns a memory store seeded with an initial best score.
func NewMemory(best int) *Memory {
	return &Memory{best: best}
}

// Read returns the best score.
func (m *Memory) Read(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.best, nil
}

// WriteIfGreater replaces the best score when score beats it.
func (m *Memory) WriteIfGreater(_ context.Context, score int) (bool, error) {
	if score < 0 {
		return false, ErrNegativeScore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if score <= m.best {
		return false, nil
	}
	m.best = score
	return true, nil
}

// RecordRun appends a run to the history.
func (m *Memory) RecordRun(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// Runs returns the recorded runs, best first.
func (m *Memory) Runs() []Run {
	m.mu.Lock()
	runs := make([]Run, len(m.runs))
	copy(runs, m.runs)
	m.mu.Unlock()

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Score > runs[j].Score
	})
	return runs
}

var (
	_ Store    = (*Memory)(nil)
	_ Recorder = (*Memory)(nil)
)
