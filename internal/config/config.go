// Package config provides YAML-based configuration loading for the flappy
// simulation and its game loop.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// FlappyConfig contains every tunable of the flappy simulation and its loop.
// Distances are playfield units (pixels), rates are per baseline tick.
type FlappyConfig struct {
	Playfield   Playfield     `yaml:"playfield"`
	Physics     Physics       `yaml:"physics"`
	Obstacles   Obstacles     `yaml:"obstacles"`
	Player      Player        `yaml:"player"`
	GracePeriod time.Duration `yaml:"grace_period"`
	Loop        Loop          `yaml:"loop"`
}

// Playfield is the fixed simulation area the engine is constructed with.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines integration constants, tuned at TickBaseline ticks per second.
type Physics struct {
	Gravity       float64 `yaml:"gravity"`
	JumpStrength  float64 `yaml:"jump_strength"` // Negative lifts the player
	ObstacleSpeed float64 `yaml:"obstacle_speed"`
	TickBaseline  float64 `yaml:"tick_baseline"`
}

// Obstacles defines obstacle geometry and generation.
type Obstacles struct {
	Width        float64 `yaml:"width"`
	Spacing      float64 `yaml:"spacing"`
	GapHeight    float64 `yaml:"gap_height"`
	MinGapY      float64 `yaml:"min_gap_y"`
	MaxGapY      float64 `yaml:"max_gap_y"`
	InitialCount int     `yaml:"initial_count"`
}

// Player defines the player's hitbox.
type Player struct {
	Size float64 `yaml:"size"`
}

// Radius returns half the player size.
func (p Player) Radius() float64 {
	return p.Size / 2
}

// Loop defines the cadence of the game loop driver.
type Loop struct {
	TickRate      int           `yaml:"tick_rate"`
	MaxDelta      time.Duration `yaml:"max_delta"`
	GameOverDelay time.Duration `yaml:"game_over_delay"`
}

// Validate checks the config for values the simulation cannot run with.
func (c FlappyConfig) Validate() error {
	switch {
	case c.Playfield.Width <= 0 || c.Playfield.Height <= 0:
		return fmt.Errorf("%w: playfield must be positive, got %vx%v", ErrInvalid, c.Playfield.Width, c.Playfield.Height)
	case c.Physics.TickBaseline <= 0:
		return fmt.Errorf("%w: physics.tick_baseline must be positive", ErrInvalid)
	case c.Obstacles.Width <= 0:
		return fmt.Errorf("%w: obstacles.width must be positive", ErrInvalid)
	case c.Obstacles.Spacing <= 0:
		return fmt.Errorf("%w: obstacles.spacing must be positive", ErrInvalid)
	case c.Obstacles.GapHeight <= 0:
		return fmt.Errorf("%w: obstacles.gap_height must be positive", ErrInvalid)
	case c.Obstacles.MinGapY > c.Obstacles.MaxGapY:
		return fmt.Errorf("%w: obstacles.min_gap_y %v exceeds max_gap_y %v", ErrInvalid, c.Obstacles.MinGapY, c.Obstacles.MaxGapY)
	case c.Obstacles.InitialCount < 1:
		return fmt.Errorf("%w: obstacles.initial_count must be at least 1", ErrInvalid)
	case c.Player.Size <= 0:
		return fmt.Errorf("%w: player.size must be positive", ErrInvalid)
	case c.Player.Size >= c.Playfield.Height:
		return fmt.Errorf("%w: player.size %v does not fit playfield height %v", ErrInvalid, c.Player.Size, c.Playfield.Height)
	case c.GracePeriod < 0:
		return fmt.Errorf("%w: grace_period must not be negative", ErrInvalid)
	case c.Loop.TickRate <= 0:
		return fmt.Errorf("%w: loop.tick_rate must be positive", ErrInvalid)
	case c.Loop.MaxDelta <= 0:
		return fmt.Errorf("%w: loop.max_delta must be positive", ErrInvalid)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyPreset adjusts gap height and obstacle speed for a preset.
// Normal leaves the loaded values untouched.
func ApplyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.GapHeight *= 1.25
		cfg.Physics.ObstacleSpeed *= 0.8
	case DifficultyHard:
		cfg.Obstacles.GapHeight *= 0.8
		cfg.Physics.ObstacleSpeed *= 1.25
	}
}
