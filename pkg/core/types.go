// pkg/core/types.go
package core

import "math"

// Position is a 2D point in percentage space. Percentage space is the
// canonical, persisted coordinate system: (0,0) is the top-left of the
// canvas content and (100,100) the bottom-right. Values are not clamped,
// so markers dragged past an edge keep their out-of-range coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another position.
func (p Position) Distance(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle. It is used in percentage space
// (marquee regions, visible-area queries) and in pixel space (container
// and viewport measurements); the unit is whatever the caller put in.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCorners builds a normalized Rect spanning two opposite corners,
// in either order.
func RectFromCorners(a, b Position) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Contains reports whether the position lies inside the rectangle.
// Bounds are inclusive on all four edges.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.X+r.Width < other.X || other.X+other.Width < r.X ||
		r.Y+r.Height < other.Y || other.Y+other.Height < r.Y)
}

// Center returns the rectangle's center point.
func (r Rect) Center() Position {
	return Position{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Expand grows the rectangle by the given fraction of its own size on
// every side. Expand(0.2) on a 100-wide rect yields a 140-wide rect with
// the same center.
func (r Rect) Expand(fraction float64) Rect {
	dx := r.Width * fraction
	dy := r.Height * fraction
	return Rect{
		X:      r.X - dx,
		Y:      r.Y - dy,
		Width:  r.Width + 2*dx,
		Height: r.Height + 2*dy,
	}
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsValid reports whether both dimensions are strictly positive.
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}
