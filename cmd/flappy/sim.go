package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/driver"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/score"
)

var (
	flagRuns     int
	flagMaxTime  time.Duration
	flagAim      float64
	flagRealtime bool
	flagSave     bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Let the autopilot play headless",
	Long: `Run the game without a terminal UI, tapping with the built-in autopilot.

By default the loop is stepped on a simulated clock, so hundreds of runs
finish in seconds. --realtime drives the real ticker loop instead and feeds
taps from a separate goroutine, one run at a time.

Scores go to the in-memory store unless --save is given.

Examples:
  flappy sim --runs 50 --seed 7
  flappy sim --difficulty hard --aim 0.5
  flappy sim --realtime --max-time 20s --save`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagRuns, "runs", 10, "Number of runs")
	simCmd.Flags().DurationVar(&flagMaxTime, "max-time", 2*time.Minute, "Stop a run after this much game time")
	simCmd.Flags().Float64Var(&flagAim, "aim", flappy.NewAutopilot().Aim, "Autopilot target inside the gap (0 = top, 1 = bottom)")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Drive the real-time loop")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Persist results to --db")
}

// simClock is a manually stepped clock.
type simClock struct {
	t time.Time
}

func (c *simClock) Now() time.Time { return c.t }

func (c *simClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

// simResult summarizes one finished or aborted run.
type simResult struct {
	Score   int
	Elapsed time.Duration
	Ticks   uint64
	Cause   string
}

func runSim(cmd *cobra.Command, _ []string) error {
	if flagRuns <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", flagRuns)
	}

	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "flappy-sim")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	backend := &scoreBackend{Store: score.NewMemory(0), Kind: "memory"}
	if flagSave {
		backend = openScoreBackendOrMemory(ctx, flagDB, logger)
	}
	defer backend.Close()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("simulating", "runs", flagRuns, "seed", seed, "realtime", flagRealtime, "store", backend.Kind)

	ap := flappy.Autopilot{Aim: flagAim}
	var results []simResult

	if flagRealtime {
		for i := 0; i < flagRuns; i++ {
			engine, err := flappy.New(cfg.Playfield.Width, cfg.Playfield.Height, cfg,
				flappy.WithSeed(seed+int64(i)), flappy.WithLogger(logger))
			if err != nil {
				return err
			}
			res, err := simulateRealtime(ctx, engine, backend.Store, ap, flagMaxTime, logger)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
	} else {
		clk := &simClock{t: time.Now()}
		engine, err := flappy.New(cfg.Playfield.Width, cfg.Playfield.Height, cfg,
			flappy.WithClock(clk.Now), flappy.WithSeed(seed), flappy.WithLogger(logger))
		if err != nil {
			return err
		}
		d := driver.New(engine, backend.Store, driver.WithClock(clk.Now), driver.WithLogger(logger))
		for i := 0; i < flagRuns; i++ {
			if i > 0 {
				d.Restart()
			}
			results = append(results, simulateStepped(d, clk, ap, flagMaxTime))
		}
		if err := d.Wait(); err != nil {
			logger.Warn("scores not saved", "err", err)
		}
	}

	fmt.Println(renderSimResults(results))
	return nil
}

// simulateStepped plays one run on the stepped clock.
func simulateStepped(d *driver.Driver, clk *simClock, ap flappy.Autopilot, limit time.Duration) simResult {
	step := d.Interval()
	start := clk.Now()

	f := d.Advance(clk.Now())
	for !f.Ended && clk.Now().Sub(start) < limit {
		if ap.ShouldTap(f.Snapshot) {
			d.Tap()
		}
		f = d.Advance(clk.Advance(step))
	}
	return newSimResult(f.Snapshot, clk.Now())
}

// simulateRealtime plays one run on the real ticker loop. The autopilot
// watches snapshots from its own goroutine and sends taps over a channel.
func simulateRealtime(ctx context.Context, engine *flappy.Engine, store score.Store, ap flappy.Autopilot,
	limit time.Duration, logger *log.Logger,
) (simResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	// Listeners run on the goroutine calling Run.
	var ended *flappy.Snapshot
	var endedAt time.Time
	d := driver.New(engine, store, driver.WithLogger(logger), driver.WithListener(func(f driver.Frame) {
		if f.Ended {
			ended, endedAt = f.Snapshot, time.Now()
			cancel()
		}
	}))

	taps := make(chan struct{}, 1)
	go func() {
		defer close(taps)
		ticker := time.NewTicker(d.Interval())
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if ap.ShouldTap(d.Engine().Snapshot()) {
					select {
					case taps <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	if err := d.Run(runCtx, taps); err != nil {
		return simResult{}, err
	}
	if ended != nil {
		return newSimResult(ended, endedAt), nil
	}
	return newSimResult(d.Engine().Snapshot(), time.Now()), nil
}

func newSimResult(s *flappy.Snapshot, now time.Time) simResult {
	cause := "time limit"
	if s.GameOver() {
		cause = s.Cause.String()
	}
	return simResult{
		Score:   s.Score,
		Elapsed: s.Elapsed(now),
		Ticks:   s.Tick,
		Cause:   cause,
	}
}

// renderSimResults formats results as a table followed by a summary line.
func renderSimResults(results []simResult) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Run", "Score", "Time", "Ticks", "Cause").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	best, total := 0, 0
	for i, r := range results {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(r.Score),
			r.Elapsed.Round(100*time.Millisecond).String(),
			strconv.FormatUint(r.Ticks, 10),
			r.Cause,
		)
		best = max(best, r.Score)
		total += r.Score
	}

	avg := 0.0
	if len(results) > 0 {
		avg = float64(total) / float64(len(results))
	}
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).
		Render(fmt.Sprintf("runs %d   best %d   avg %.1f", len(results), best, avg))

	return t.Render() + "\n" + summary
}
