package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// enforceBounds clamps the player into [radius, height-radius]. It returns
// true when the clamp ended the run; inside the grace period the clamp
// alone applies, so the first tick cannot kill an unmoved player.
func (e *Engine) enforceBounds() bool {
	r := e.radius()

	cause := CauseNone
	switch {
	case e.playerY-r < 0:
		e.playerY = r
		cause = CauseCeiling
	case e.playerY+r > e.height:
		e.playerY = e.height - r
		cause = CauseFloor
	}

	if cause == CauseNone || e.inGrace() {
		return false
	}
	e.end(cause)
	return true
}

// checkCollisions ends the run on the first obstacle the player touches.
func (e *Engine) checkCollisions() {
	player := core.RectAround(e.playerX(), e.playerY, e.radius())
	width := e.cfg.Obstacles.Width

	for _, o := range e.obstacles {
		if hitsObstacle(player, o, width, e.height) {
			e.end(CauseObstacle)
			return
		}
	}
}

// hitsObstacle reports whether the player box overlaps either solid part of
// the obstacle.
func hitsObstacle(player core.Rect, o Obstacle, width, height float64) bool {
	return player.Intersects(o.TopRect(width)) || player.Intersects(o.BottomRect(width, height))
}
