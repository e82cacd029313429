package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var (
	flagLimit       int
	flagInteractive bool
	flagClear       bool
)

// runClearer is implemented by stores that can delete their run history.
type runClearer interface {
	ClearRuns(ctx context.Context, gameID string) error
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best score and run history",
	Long: `Display the best score and the top recorded runs.

Examples:
  flappy scores
  flappy scores --limit 25
  flappy scores -i                 # Browse in a scrollable table
  flappy scores --clear            # Delete the run history (SQLite only)`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a TUI table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded run history")
}

func runScores(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	backend, err := openScoreBackend(ctx, flagDB)
	if err != nil {
		return fmt.Errorf("cannot open score store: %w", err)
	}
	defer backend.Close()

	if flagClear {
		clearer, ok := backend.Runs.(runClearer)
		if !ok {
			return fmt.Errorf("%s store cannot clear runs", backend.Kind)
		}
		if err := clearer.ClearRuns(ctx, flappy.GameID); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	if flagInteractive {
		if backend.Runs == nil {
			return errors.New("the interactive view needs a store with run history (sqlite or postgres)")
		}
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(backend.Runs, flappy.GameID, width, height)
	}

	best, err := backend.Store.Read(ctx)
	if err != nil {
		return fmt.Errorf("cannot read best score: %w", err)
	}

	fmt.Printf("Flappy - best score: %d\n\n", best)

	if backend.Runs == nil {
		fmt.Printf("The %s store keeps no run history.\n", backend.Kind)
		return nil
	}

	runs, err := backend.Runs.TopRuns(ctx, flappy.GameID, flagLimit)
	if err != nil {
		return fmt.Errorf("cannot retrieve runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to set the first high score!")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Rank", "Score", "Time", "Cause", "Date").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i, r := range runs {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(r.Score),
			r.Duration.Round(100*time.Millisecond).String(),
			r.Cause,
			r.EndedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t.Render())
	return nil
}
