// flappy is a Flappy Bird-style game for the terminal.
//
// Usage:
//
//	flappy play            - Play in the terminal
//	flappy sim             - Let the autopilot play headless and report scores
//	flappy serve           - Start SSH server for remote play
//	flappy scores          - Show the run history
//	flappy config          - Print the effective game config
//
// Global flags:
//
//	--fps <rate>    - Set loop rate (default: from config, 60)
//	--seed <value>  - Set RNG seed for reproducible obstacles
//	--db <dsn>      - Score store: SQLite path, postgres:// URL, gdata:<app> or "" for memory
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDB      string
	flagConfig  string
	flagDiff    string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - tap to fly through the pipes in your terminal",
	Long: `Flappy is a side-scrolling obstacle game for the terminal.

Available commands:
  play     - Play in the terminal
  sim      - Run the autopilot headless
  serve    - Start SSH server for remote play
  scores   - View the run history
  config   - Print the effective config

Examples:
  flappy play
  flappy play --difficulty hard --sound
  flappy sim --runs 20 --seed 42
  flappy serve --ssh :2222 --spectate :8080
  flappy scores`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Loop rate in frames per second (0 = config value)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "~/.flappy/scores.db", "Score store DSN")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDiff, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadGameConfig loads the config from the search path and applies the
// difficulty preset and --fps.
func loadGameConfig() (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return config.FlappyConfig{}, err
	}

	preset, err := config.ParsePreset(flagDiff)
	if err != nil {
		return config.FlappyConfig{}, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagFPS > 0 {
		cfg.Loop.TickRate = flagFPS
	}
	return cfg, cfg.Validate()
}

// newLogger creates a structured logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openLogFile opens ~/.flappy/flappy.log for appending. The terminal belongs
// to the game while it runs, so interactive commands log here.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".flappy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "flappy.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
