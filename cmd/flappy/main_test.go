package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/driver"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/score"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://bob:secret@db:5432/flappy", "postgres://bob:***@db:5432/flappy"},
		{"postgres://db/flappy", "postgres://db/flappy"},
		{"~/.flappy/scores.db", "~/.flappy/scores.db"},
	}
	for _, tt := range tests {
		if got := redactDSN(tt.in); got != tt.want {
			t.Errorf("redactDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":       "23234",
		"0.0.0.0:2222": "2222",
		"localhost":    "localhost",
		"[::1]:22":     "22",
	}
	for in, want := range tests {
		if got := portOf(in); got != want {
			t.Errorf("portOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpenScoreBackendMemory(t *testing.T) {
	b, err := openScoreBackend(context.Background(), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if b.Kind != "memory" || b.Runs != nil {
		t.Errorf("expected memory store without history, got %s", b.Kind)
	}
}

func TestOpenScoreBackendSQLite(t *testing.T) {
	ctx := context.Background()
	b, err := openScoreBackend(ctx, filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if b.Kind != "sqlite" || b.Runs == nil {
		t.Fatalf("expected sqlite store with history, got %s", b.Kind)
	}
	if ok, err := b.Store.WriteIfGreater(ctx, 9); err != nil || !ok {
		t.Fatalf("WriteIfGreater = %v, %v", ok, err)
	}
	if best, _ := b.Store.Read(ctx); best != 9 {
		t.Errorf("best = %d, want 9", best)
	}
}

func TestOpenScoreBackendRejectsEmptyGdataApp(t *testing.T) {
	if _, err := openScoreBackend(context.Background(), "gdata:"); err == nil {
		t.Error("expected error for missing app name")
	}
}

func TestSimulateSteppedIsDeterministic(t *testing.T) {
	play := func() []simResult {
		clk := &simClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		cfg := config.DefaultFlappyConfig()
		e, err := flappy.New(800, 600, cfg, flappy.WithClock(clk.Now), flappy.WithSeed(11))
		if err != nil {
			t.Fatalf("flappy.New: %v", err)
		}
		d := driver.New(e, score.NewMemory(0), driver.WithClock(clk.Now))
		defer d.Close()

		var out []simResult
		for i := 0; i < 3; i++ {
			if i > 0 {
				d.Restart()
			}
			out = append(out, simulateStepped(d, clk, flappy.NewAutopilot(), 30*time.Second))
		}
		return out
	}

	a, b := play(), play()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("run %d differs: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].Ticks == 0 {
			t.Errorf("run %d never advanced", i)
		}
	}
}

func TestRenderSimResults(t *testing.T) {
	out := renderSimResults([]simResult{
		{Score: 3, Elapsed: 4 * time.Second, Ticks: 240, Cause: "obstacle"},
		{Score: 7, Elapsed: 9 * time.Second, Ticks: 540, Cause: "floor"},
	})

	for _, want := range []string{"Score", "obstacle", "floor", "best 7", "avg 5.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
