package flappy

// advanceObstacles moves every obstacle left, scores the ones whose trailing
// edge crossed the player, and prunes the ones that left the playfield.
func (e *Engine) advanceObstacles(scale float64) {
	dx := e.cfg.Physics.ObstacleSpeed * scale
	width := e.cfg.Obstacles.Width
	playerX := e.playerX()

	kept := e.obstacles[:0]
	for _, o := range e.obstacles {
		o.X -= dx

		// Scored at the player's x, not at the left screen edge.
		if !o.Passed && o.Right(width) < playerX {
			o.Passed = true
			e.score++
		}

		if o.Right(width) < 0 {
			continue
		}
		kept = append(kept, o)
	}
	e.obstacles = kept
}

// replenish keeps a lookahead of obstacles: when the rightmost one has come
// within one spacing of the right edge, another is appended behind it.
func (e *Engine) replenish() {
	spacing := e.cfg.Obstacles.Spacing

	last, ok := rightmost(e.obstacles)
	switch {
	case !ok:
		e.spawn(e.width + spacing)
	case last.X < e.width+spacing:
		e.spawn(last.X + spacing)
	}
}

// spawn appends an obstacle at x with a uniformly random gap position.
func (e *Engine) spawn(x float64) {
	minY, maxY := e.cfg.Obstacles.MinGapY, e.cfg.Obstacles.MaxGapY

	e.nextID++
	e.obstacles = append(e.obstacles, Obstacle{
		ID:        e.nextID,
		X:         x,
		GapTop:    minY + e.rng.Float64()*(maxY-minY),
		GapHeight: e.cfg.Obstacles.GapHeight,
	})
}

// rightmost returns the obstacle with the largest X.
func rightmost(obstacles []Obstacle) (Obstacle, bool) {
	if len(obstacles) == 0 {
		return Obstacle{}, false
	}
	best := obstacles[0]
	for _, o := range obstacles[1:] {
		if o.X > best.X {
			best = o
		}
	}
	return best, true
}
