package flappy

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

const tickShift = 5.5 * testDt * 60

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestObstacleScoredOnceWhenCrossingPlayer(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	px := e.playerX()
	w := e.cfg.Obstacles.Width
	e = runningEngine(t, clk, Obstacle{ID: 5, X: px - w + 1, GapTop: 100, GapHeight: 400})
	e.playerY = 300

	s := step(e, clk, testDt)
	if s.Score != 1 {
		t.Fatalf("score = %d, expected 1", s.Score)
	}
	if !s.Obstacles[0].Passed {
		t.Error("obstacle should be marked passed")
	}

	s = step(e, clk, testDt)
	if s.Score != 1 {
		t.Errorf("score = %d after second tick, expected still 1", s.Score)
	}
}

func TestObstacleNotScoredWhileOverlapping(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	px := e.playerX()
	e = runningEngine(t, clk, Obstacle{ID: 5, X: px - 20, GapTop: 100, GapHeight: 400})
	e.playerY = 300

	s := step(e, clk, testDt)
	if s.Score != 0 {
		t.Errorf("score = %d, expected 0 while trailing edge is right of the player", s.Score)
	}
}

func TestObstaclePrunedOffscreen(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	w := e.cfg.Obstacles.Width
	e = runningEngine(t, clk,
		Obstacle{ID: 1, X: -w + 1, GapTop: 100, GapHeight: 400, Passed: true},
		Obstacle{ID: 2, X: 700, GapTop: 100, GapHeight: 400},
		Obstacle{ID: 3, X: 1100, GapTop: 100, GapHeight: 400},
		Obstacle{ID: 4, X: 1500, GapTop: 100, GapHeight: 400},
	)
	e.playerY = 300

	s := step(e, clk, testDt)
	for _, o := range s.Obstacles {
		if o.ID == 1 {
			t.Fatalf("obstacle past the left edge was not pruned: %+v", o)
		}
		if o.Right(w) < 0 {
			t.Errorf("obstacle %d kept with right edge %v", o.ID, o.Right(w))
		}
	}
	if s.Score != 0 {
		t.Errorf("pruning a passed obstacle changed score to %d", s.Score)
	}
}

func TestReplenishWhenEmpty(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	e = runningEngine(t, clk)
	e.playerY = 300

	s := step(e, clk, testDt)
	if len(s.Obstacles) != 1 {
		t.Fatalf("obstacles = %d, expected 1", len(s.Obstacles))
	}
	if want := testW + e.cfg.Obstacles.Spacing; s.Obstacles[0].X != want {
		t.Errorf("spawned at x=%v, expected %v", s.Obstacles[0].X, want)
	}
}

func TestReplenishBehindRightmost(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	spacing := e.cfg.Obstacles.Spacing
	e = runningEngine(t, clk,
		Obstacle{ID: 10, X: 1000, GapTop: 100, GapHeight: 400},
		Obstacle{ID: 9, X: 600, GapTop: 100, GapHeight: 400},
	)
	e.playerY = 300

	s := step(e, clk, testDt)
	if len(s.Obstacles) != 3 {
		t.Fatalf("obstacles = %d, expected 3", len(s.Obstacles))
	}
	last, _ := rightmost(s.Obstacles)
	if !approx(last.X, 1000-tickShift+spacing) {
		t.Errorf("spawned at x=%v, expected %v", last.X, 1000-tickShift+spacing)
	}
	if last.ID != e.nextID {
		t.Errorf("spawned obstacle id = %d, expected fresh id %d", last.ID, e.nextID)
	}
}

func TestNoReplenishWithEnoughLookahead(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	e.OnTap()

	s := step(e, clk, testDt)
	if len(s.Obstacles) != 3 {
		t.Errorf("obstacles = %d, expected initial 3 with no spawn", len(s.Obstacles))
	}
}

func TestSpawnedGapWithinRange(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	e := newTestEngine(t, newFakeClock(), 42)

	seen := make(map[uint64]bool)
	for i := 0; i < 500; i++ {
		e.spawn(testW)
		o := e.obstacles[len(e.obstacles)-1]
		if o.GapTop < cfg.Obstacles.MinGapY || o.GapTop > cfg.Obstacles.MaxGapY {
			t.Fatalf("gap top %v outside [%v, %v]", o.GapTop, cfg.Obstacles.MinGapY, cfg.Obstacles.MaxGapY)
		}
		if o.GapHeight != cfg.Obstacles.GapHeight {
			t.Errorf("gap height = %v, expected %v", o.GapHeight, cfg.Obstacles.GapHeight)
		}
		if seen[o.ID] {
			t.Fatalf("duplicate obstacle id %d", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestObstaclesMoveBySpeed(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	e.OnTap()
	before := e.Snapshot().Obstacles

	after := step(e, clk, testDt).Obstacles
	for i := range before {
		if !approx(before[i].X-after[i].X, tickShift) {
			t.Errorf("obstacle %d moved %v, expected %v", i, before[i].X-after[i].X, tickShift)
		}
	}
}

func TestRightmost(t *testing.T) {
	if _, ok := rightmost(nil); ok {
		t.Error("rightmost(nil) should report false")
	}
	got, ok := rightmost([]Obstacle{{ID: 1, X: 5}, {ID: 2, X: 50}, {ID: 3, X: 20}})
	if !ok || got.ID != 2 {
		t.Errorf("rightmost = %+v, expected id 2", got)
	}
}
