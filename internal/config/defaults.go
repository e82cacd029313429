package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the hardcoded defaults, identical to the
// embedded defaults/flappy.yaml.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Playfield: Playfield{
			Width:  800,
			Height: 600,
		},
		Physics: Physics{
			Gravity:       0.5,
			JumpStrength:  -12,
			ObstacleSpeed: 5.5,
			TickBaseline:  60,
		},
		Obstacles: Obstacles{
			Width:        60,
			Spacing:      400,
			GapHeight:    280,
			MinGapY:      100,
			MaxGapY:      600,
			InitialCount: 3,
		},
		Player: Player{
			Size: 45,
		},
		GracePeriod: 300 * time.Millisecond,
		Loop: Loop{
			TickRate:      60,
			MaxDelta:      100 * time.Millisecond,
			GameOverDelay: 500 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
