package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	PlayerChar    = '●'
	PlayerHead    = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '═'
)

// HUD carries the driver-owned values drawn over the playfield.
type HUD struct {
	Best       int  // Best score known to the driver
	NewBest    bool // This run beat the previous best
	ShowPrompt bool // Game-over prompt delay has elapsed
}

// viewport maps playfield coordinates to screen cells. The last screen row
// is the ground line; the playfield fills the rows above it.
type viewport struct {
	sx, sy float64
	rows   int
	cols   int
}

func newViewport(dst *core.Screen, s *Snapshot) viewport {
	rows := core.Max(dst.Height()-1, 1)
	return viewport{
		sx:   float64(dst.Width()) / s.Width,
		sy:   float64(rows) / s.Height,
		rows: rows,
		cols: dst.Width(),
	}
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x * v.sx))
}

func (v viewport) row(y float64) int {
	return int(math.Floor(y * v.sy))
}

// Render draws a snapshot into dst, scaled to the screen size.
func Render(dst *core.Screen, s *Snapshot, hud HUD) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 || s == nil {
		return
	}
	v := newViewport(dst, s)

	dst.DrawHLine(0, dst.Height()-1, dst.Width(), GroundChar, core.ColorGray)

	for _, o := range s.Obstacles {
		drawObstacle(dst, v, o, s.ObstacleWidth)
	}
	drawPlayer(dst, v, s)

	dst.DrawTextColored(2, 0, fmt.Sprintf(" Score: %d ", s.Score), core.ColorWhite)
	best := fmt.Sprintf(" Best: %d ", hud.Best)
	dst.DrawTextColored(dst.Width()-len(best)-2, 0, best, core.ColorGray)

	switch {
	case s.Status == StatusIdle:
		dst.DrawTextCentered(v.rows/3, " Press SPACE or click to flap ", core.ColorBrightYellow)
	case s.GameOver() && hud.ShowPrompt:
		drawGameOver(dst, s, hud)
	}
}

// drawObstacle renders both solid regions of one obstacle with caps at the gap.
func drawObstacle(dst *core.Screen, v viewport, o Obstacle, width float64) {
	x0 := v.col(o.X)
	x1 := core.Max(int(math.Ceil(o.Right(width)*v.sx)), x0+1)
	if x1 <= 0 || x0 >= v.cols {
		return
	}

	gapTop := core.Clamp(v.row(o.GapTop), 0, v.rows)
	gapBottom := core.Clamp(int(math.Ceil(o.GapBottom()*v.sy)), 0, v.rows)

	dst.FillRect(x0, 0, x1, gapTop, PipeChar, core.ColorGreen)
	if gapTop > 0 {
		dst.FillRect(x0, gapTop-1, x1, gapTop, PipeCapTop, core.ColorBrightGreen)
	}

	dst.FillRect(x0, gapBottom, x1, v.rows, PipeChar, core.ColorGreen)
	if gapBottom < v.rows {
		dst.FillRect(x0, gapBottom, x1, gapBottom+1, PipeCapBottom, core.ColorBrightGreen)
	}
}

// drawPlayer renders the player hitbox, at least one cell, head on the right.
func drawPlayer(dst *core.Screen, v viewport, s *Snapshot) {
	box := s.PlayerRect()
	x0, y0 := v.col(box.X), v.row(box.Y)
	x1 := core.Max(int(math.Ceil(box.Right()*v.sx)), x0+1)
	y1 := core.Max(int(math.Ceil(box.Bottom()*v.sy)), y0+1)
	y1 = core.Min(y1, v.rows)

	color := core.ColorYellow
	if s.GameOver() {
		color = core.ColorBrightRed
	}
	dst.FillRect(x0, y0, x1, y1, PlayerChar, color)
	dst.SetColored(x1-1, y0+(y1-y0-1)/2, PlayerHead, color)
}

// drawGameOver draws the game-over prompt box in the centre of the screen.
func drawGameOver(dst *core.Screen, s *Snapshot, hud HUD) {
	lines := []string{
		"GAME OVER",
		fmt.Sprintf("Score: %d  |  Best: %d", s.Score, hud.Best),
	}
	if hud.NewBest {
		lines = append(lines, "NEW BEST!")
	}
	lines = append(lines, "R to restart  |  Q to quit")

	boxW := 0
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(lines) + 2
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxX+boxW, boxY+boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorRed)
	for i, l := range lines {
		color := core.ColorWhite
		if i == 0 {
			color = core.ColorBrightRed
		}
		if l == "NEW BEST!" {
			color = core.ColorBrightYellow
		}
		x := boxX + (boxW-len([]rune(l)))/2
		dst.DrawTextColored(x, boxY+1+i, l, color)
	}
}
