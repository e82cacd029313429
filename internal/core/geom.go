// Package core provides fundamental types and utilities shared by the
// simulation and the platform layer. It has no terminal or UI dependencies
// so the game logic stays pure and testable.
package core

// Rect is an axis-aligned bounding box in playfield units.
// Edges are open: a rectangle touching another does not intersect it.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAround creates a square of the given radius centred on (cx, cy).
func RectAround(cx, cy, radius float64) Rect {
	return Rect{X: cx - radius, Y: cy - radius, W: radius * 2, H: radius * 2}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// OverlapsX reports whether the horizontal spans of r and other overlap.
func (r Rect) OverlapsX(other Rect) bool {
	return r.Right() > other.X && r.X < other.Right()
}

// OverlapsY reports whether the vertical spans of r and other overlap.
func (r Rect) OverlapsY(other Rect) bool {
	return r.Bottom() > other.Y && r.Y < other.Bottom()
}

// Intersects returns true if this rectangle overlaps with another (AABB).
func (r Rect) Intersects(other Rect) bool {
	return r.OverlapsX(other) && r.OverlapsY(other)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
