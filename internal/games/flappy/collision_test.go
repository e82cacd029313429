package flappy

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

func TestHitsObstacle(t *testing.T) {
	const width, height = 60.0, 600.0
	gap := Obstacle{X: 100, GapTop: 200, GapHeight: 200} // gap spans y 200..400

	tests := []struct {
		name   string
		player core.Rect
		want   bool
	}{
		{"left of obstacle", core.NewRect(0, 0, 50, 50), false},
		{"right of obstacle", core.NewRect(200, 0, 50, 50), false},
		{"touching left edge", core.NewRect(50, 0, 50, 50), false},
		{"touching right edge", core.NewRect(160, 0, 50, 50), false},
		{"inside gap", core.NewRect(110, 250, 40, 40), false},
		{"flush with gap top", core.NewRect(110, 200, 40, 40), false},
		{"flush with gap bottom", core.NewRect(110, 360, 40, 40), false},
		{"clipping gap top", core.NewRect(110, 199, 40, 40), true},
		{"clipping gap bottom", core.NewRect(110, 361, 40, 40), true},
		{"overlapping from left above gap", core.NewRect(80, 100, 30, 30), true},
		{"taller than gap", core.NewRect(110, 190, 40, 220), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := hitsObstacle(tc.player, gap, width, height); got != tc.want {
				t.Errorf("hitsObstacle(%+v) = %v, expected %v", tc.player, got, tc.want)
			}
		})
	}
}

func TestObstacleRectsWithGapPastFloor(t *testing.T) {
	const width, height = 60.0, 600.0
	o := Obstacle{X: 100, GapTop: 500, GapHeight: 280}

	top := o.TopRect(width)
	if top.Y != 0 || top.H != 500 || top.W != width {
		t.Errorf("TopRect = %+v, expected 0..500 high, %v wide", top, width)
	}
	bottom := o.BottomRect(width, height)
	if bottom.H != 0 {
		t.Errorf("BottomRect height = %v, expected 0 when the gap passes the floor", bottom.H)
	}

	if hitsObstacle(core.NewRect(110, 555, 40, 40), o, width, height) {
		t.Error("player resting above the floor inside the gap should not collide")
	}
	if !hitsObstacle(core.NewRect(110, 480, 40, 40), o, width, height) {
		t.Error("player clipping the upper pipe should collide")
	}
}

// runningEngine starts a run, skips the grace period and replaces the
// obstacle list.
func runningEngine(t *testing.T, clk *fakeClock, obstacles ...Obstacle) *Engine {
	t.Helper()
	e := newTestEngine(t, clk, 1)
	e.OnTap()
	clk.Advance(time.Second)
	e.playerVel = 0
	e.obstacles = append(e.obstacles[:0], obstacles...)
	return e
}

func TestPlayerInsideGapSurvives(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	px := e.playerX()
	e = runningEngine(t, clk, Obstacle{ID: 99, X: px - 10, GapTop: 150, GapHeight: 300})
	e.playerY = 300

	for i := 0; i < 10; i++ {
		s := step(e, clk, testDt)
		if s.Status != StatusRunning {
			t.Fatalf("tick %d: run ended (cause %v) with player inside gap at y=%v", i, s.Cause, s.PlayerY)
		}
	}
}

func TestPlayerClippingGapTopLoses(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	px := e.playerX()
	r := e.radius()
	e = runningEngine(t, clk, Obstacle{ID: 99, X: px - 10, GapTop: 200, GapHeight: 200})
	e.playerY = 200 + r - 1

	s := step(e, clk, testDt)
	if s.Status != StatusGameOver {
		t.Fatalf("status = %v, expected game over", s.Status)
	}
	if s.Cause != CauseObstacle {
		t.Errorf("cause = %v, expected obstacle", s.Cause)
	}
}

func TestCollisionAllowedDuringGrace(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(t, clk, 1)
	px := e.playerX()
	e.OnTap()
	e.playerVel = 0
	e.obstacles = append(e.obstacles[:0], Obstacle{ID: 1, X: px - 10, GapTop: 500, GapHeight: 50})

	s := step(e, clk, testDt)
	if s.Cause != CauseObstacle {
		t.Errorf("obstacle hit inside grace period: cause = %v, expected obstacle", s.Cause)
	}
}
