// internal/draw/freeform.go
package draw

import "github.com/venuekit/seatplan/pkg/core"

// PathBuilder accumulates clicked points into a freeform outline. Points
// are collected in percentage space; on Close the path is re-centered on
// its centroid and becomes a freeform shape whose point list is relative
// to that center.
type PathBuilder struct {
	points []core.Position
}

// Add appends a clicked point. Clicks closer than MinPointSpacing to the
// previous point are dropped as duplicates; the return value reports
// whether the point was kept.
func (b *PathBuilder) Add(p core.Position) bool {
	if n := len(b.points); n > 0 && b.points[n-1].Distance(p) < MinPointSpacing {
		return false
	}
	b.points = append(b.points, p)
	return true
}

// ShouldClose reports whether a click at p lands within the closing
// radius of the first point, given enough points to form a shape.
func (b *PathBuilder) ShouldClose(p core.Position) bool {
	return len(b.points) >= core.MinFreeformPoints &&
		b.points[0].Distance(p) <= ClosingRadius
}

// PopLast removes the most recently added point (Backspace/Delete).
func (b *PathBuilder) PopLast() {
	if len(b.points) > 0 {
		b.points = b.points[:len(b.points)-1]
	}
}

// Len returns the number of accumulated points.
func (b *PathBuilder) Len() int { return len(b.points) }

// Points returns a copy of the accumulated points, for preview.
func (b *PathBuilder) Points() []core.Position {
	return append([]core.Position(nil), b.points...)
}

// Active reports whether any points have been placed.
func (b *PathBuilder) Active() bool { return len(b.points) > 0 }

// Cancel discards the in-progress path.
func (b *PathBuilder) Cancel() {
	b.points = nil
}

// Close commits the path as a freeform shape centered on the centroid of
// its points. Paths with fewer than the freeform minimum are discarded.
func (b *PathBuilder) Close() (s *core.Shape, center core.Position, ok bool) {
	points := b.points
	b.points = nil

	if len(points) < core.MinFreeformPoints {
		return nil, core.Position{}, false
	}

	for _, p := range points {
		center.X += p.X
		center.Y += p.Y
	}
	center.X /= float64(len(points))
	center.Y /= float64(len(points))

	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X-center.X, p.Y-center.Y)
	}

	return &core.Shape{Type: core.ShapeFreeform, Points: flat}, center, true
}
