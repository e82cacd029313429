package flappy

import "testing"

func TestAutopilotShouldTap(t *testing.T) {
	base := func() *Snapshot {
		return &Snapshot{
			Status:        StatusRunning,
			Width:         800,
			Height:        600,
			PlayerX:       377.5,
			PlayerRadius:  22.5,
			ObstacleWidth: 60,
		}
	}
	pilot := NewAutopilot()

	tests := []struct {
		name string
		edit func(s *Snapshot)
		want bool
	}{
		{"idle starts the run", func(s *Snapshot) { s.Status = StatusIdle }, true},
		{"game over never taps", func(s *Snapshot) { s.Status = StatusGameOver; s.PlayerY = 590 }, false},
		{"below centre falling", func(s *Snapshot) { s.PlayerY = 400; s.PlayerVelocity = 2 }, true},
		{"below centre rising", func(s *Snapshot) { s.PlayerY = 400; s.PlayerVelocity = -5 }, false},
		{"above centre", func(s *Snapshot) { s.PlayerY = 200; s.PlayerVelocity = 2 }, false},
		{"below gap target", func(s *Snapshot) {
			s.Obstacles = []Obstacle{{ID: 1, X: 420, GapTop: 100, GapHeight: 200}}
			s.PlayerY = 250
		}, true},
		{"inside gap above target", func(s *Snapshot) {
			s.Obstacles = []Obstacle{{ID: 1, X: 420, GapTop: 100, GapHeight: 200}}
			s.PlayerY = 180
		}, false},
		{"passed obstacle ignored", func(s *Snapshot) {
			s.Obstacles = []Obstacle{
				{ID: 1, X: 200, GapTop: 0, GapHeight: 100},
				{ID: 2, X: 600, GapTop: 350, GapHeight: 200},
			}
			s.PlayerY = 400
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.edit(s)
			if got := pilot.ShouldTap(s); got != tt.want {
				t.Errorf("ShouldTap = %v, want %v", got, tt.want)
			}
		})
	}
}
