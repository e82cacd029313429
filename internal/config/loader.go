package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFlappy loads the flappy configuration.
// Search order: customPath -> ~/.flappy/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// Files are layered over the defaults, so a file may set only the keys it changes.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Broken files on the implicit search path are skipped, not fatal.
	for _, path := range []string{userConfigPath("flappy.yaml"), filepath.Join("configs", "flappy.yaml")} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	cfg, err := Parse(defaultFlappyYAML)
	if err != nil {
		return DefaultFlappyConfig(), nil // Fallback to hardcoded if embed is broken
	}
	return cfg, nil
}

// Parse decodes YAML over the default config and validates the result.
func Parse(data []byte) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FlappyConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return FlappyConfig{}, err
	}
	return cfg, nil
}

// Marshal renders the config as YAML.
func Marshal(cfg FlappyConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(durationsAsText(cfg)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// durationsAsText mirrors FlappyConfig with durations as strings, because
// yaml.v3 encodes time.Duration as integer nanoseconds.
func durationsAsText(cfg FlappyConfig) any {
	type loop struct {
		TickRate      int    `yaml:"tick_rate"`
		MaxDelta      string `yaml:"max_delta"`
		GameOverDelay string `yaml:"game_over_delay"`
	}
	return struct {
		Playfield   Playfield `yaml:"playfield"`
		Physics     Physics   `yaml:"physics"`
		Obstacles   Obstacles `yaml:"obstacles"`
		Player      Player    `yaml:"player"`
		GracePeriod string    `yaml:"grace_period"`
		Loop        loop      `yaml:"loop"`
	}{
		Playfield:   cfg.Playfield,
		Physics:     cfg.Physics,
		Obstacles:   cfg.Obstacles,
		Player:      cfg.Player,
		GracePeriod: cfg.GracePeriod.String(),
		Loop: loop{
			TickRate:      cfg.Loop.TickRate,
			MaxDelta:      cfg.Loop.MaxDelta.String(),
			GameOverDelay: cfg.Loop.GameOverDelay.String(),
		},
	}
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", "configs", filename)
}
