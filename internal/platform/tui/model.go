package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/driver"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Options tune a game model.
type Options struct {
	Demo          bool   // Let the autopilot play and restart on its own
	ScreenshotDir string // Defaults to ~/.flappy/screenshots
	Logger        *log.Logger
}

// Model is the Bubble Tea model hosting one driver.
// The tick command is the game loop; every TickMsg advances the driver once.
type Model struct {
	driver    *driver.Driver
	screen    *core.Screen
	keys      KeyMap
	help      help.Model
	frame     driver.Frame
	autopilot *flappy.Autopilot
	opts      Options
	quitting  bool
}

// NewModel creates a model for d. The screen keeps one row for the help bar.
func NewModel(d *driver.Driver, cfg core.RuntimeConfig, opts Options) Model {
	if opts.ScreenshotDir == "" {
		home, _ := os.UserHomeDir()
		opts.ScreenshotDir = filepath.Join(home, ".flappy", "screenshots")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := Model{
		driver: d,
		screen: core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-1, 1)),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		frame:  driver.Frame{Snapshot: d.Engine().Snapshot(), Best: d.Best()},
		opts:   opts,
	}
	m.help.Width = cfg.ScreenW
	if opts.Demo {
		ap := flappy.NewAutopilot()
		m.autopilot = &ap
	}
	return m
}

// Init starts the loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.driver.Interval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleAction(m.keys.MapKey(msg))

	case tea.MouseMsg:
		return m.handleAction(MapMouse(msg))

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, core.Max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m Model) handleAction(action core.Action) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
	case core.ActionTap:
		if m.autopilot == nil {
			m.driver.Tap()
		}
	case core.ActionRestart:
		// The restart offer only appears once the game-over delay elapsed.
		if m.frame.ShowPrompt {
			m.driver.Restart()
			m.frame = driver.Frame{Snapshot: m.driver.Engine().Snapshot(), Best: m.driver.Best()}
		}
	}
	return m, nil
}

// handleTick runs one loop iteration.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.frame = m.driver.Advance(now)

	if m.autopilot != nil {
		switch {
		case m.frame.ShowPrompt:
			m.driver.Restart()
		case m.autopilot.ShouldTap(m.frame.Snapshot):
			m.driver.Tap()
		}
	}

	return m, tickCmd(m.driver.Interval())
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	m.draw()

	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		m.opts.Logger.Warn("cannot create screenshot dir", "dir", m.opts.ScreenshotDir, "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", flappy.GameID, time.Now().Format("20060102_150405"))
	path := filepath.Join(m.opts.ScreenshotDir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "path", path, "err", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

func (m Model) draw() {
	flappy.Render(m.screen, m.frame.Snapshot, flappy.HUD{
		Best:       m.frame.Best,
		NewBest:    m.frame.NewBest,
		ShowPrompt: m.frame.ShowPrompt,
	})
}

// Frame returns the most recent loop frame.
func (m Model) Frame() driver.Frame {
	return m.frame
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run plays d in the terminal until the player quits.
func Run(d *driver.Driver, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewModel(d, cfg, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
