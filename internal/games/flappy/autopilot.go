package flappy

// Autopilot is a simple bot that taps to stay in the next gap.
// It backs the headless sim command and the attract mode of the TUI.
type Autopilot struct {
	// Aim is the target position inside the gap, 0 = gap top, 1 = gap bottom.
	Aim float64
}

// NewAutopilot returns an autopilot aiming slightly below the gap centre.
func NewAutopilot() Autopilot {
	return Autopilot{Aim: 0.6}
}

// ShouldTap decides whether to tap for the given snapshot.
func (a Autopilot) ShouldTap(s *Snapshot) bool {
	switch s.Status {
	case StatusIdle:
		return true
	case StatusGameOver:
		return false
	}

	target := s.Height / 2
	if o, ok := a.next(s); ok {
		target = o.GapTop + o.GapHeight*a.Aim
	}
	return s.PlayerY > target && s.PlayerVelocity >= 0
}

// next returns the first obstacle whose trailing edge is still ahead of the
// player's back.
func (a Autopilot) next(s *Snapshot) (Obstacle, bool) {
	back := s.PlayerX - s.PlayerRadius
	var best Obstacle
	found := false
	for _, o := range s.Obstacles {
		if o.Right(s.ObstacleWidth) < back {
			continue
		}
		if !found || o.X < best.X {
			best = o
			found = true
		}
	}
	return best, found
}
