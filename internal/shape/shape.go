// Package shape implements the geometry model of the designer: per-kind
// containment tests, the fallback policy for malformed shapes, and the
// size-floor rules applied after every mutation.
//
// Each shape kind has one strategy entry (minimum point count plus a
// containment function); everything else dispatches through the table so
// the kind switch exists in exactly one place.
package shape

import (
	"errors"
	"math"

	"github.com/venuekit/seatplan/pkg/core"
)

// MinSizePercent is the floor applied to every size field after any write
// or transform. Shape parameters are always strictly positive.
const MinSizePercent = 0.5

// FallbackRadius is the radius of the default circle substituted for
// unrecognized or under-populated shapes.
const FallbackRadius = 1.5

// ErrMalformedShape reports that a shape was degraded to the fallback
// circle. It is a recoverable condition, never a failure.
var ErrMalformedShape = errors.New("malformed shape degraded to fallback circle")

type strategy struct {
	// minPoints is the minimum number of (x, y) pairs required, 0 when
	// the kind has no point list.
	minPoints int
	contains  func(s *core.Shape, dx, dy float64) bool
}

var strategies = map[core.ShapeType]strategy{
	core.ShapeCircle: {
		contains: func(s *core.Shape, dx, dy float64) bool {
			return dx*dx+dy*dy <= s.Radius*s.Radius
		},
	},
	core.ShapeRectangle: {
		// Rotation and corner rounding are ignored: hit-testing is a
		// documented approximation against the unrotated half-extents.
		contains: func(s *core.Shape, dx, dy float64) bool {
			return math.Abs(dx) <= s.Width/2 && math.Abs(dy) <= s.Height/2
		},
	},
	core.ShapeEllipse: {
		contains: func(s *core.Shape, dx, dy float64) bool {
			hw := s.Width / 2
			hh := s.Height / 2
			if hw <= 0 || hh <= 0 {
				return false
			}
			nx := dx / hw
			ny := dy / hh
			return nx*nx+ny*ny <= 1
		},
	},
	core.ShapePolygon: {
		minPoints: core.MinPolygonPoints,
		contains:  pointListContains,
	},
	core.ShapeFreeform: {
		minPoints: core.MinFreeformPoints,
		contains:  pointListContains,
	},
}

// pointListContains tests (dx, dy) against the center-relative point list
// with the standard even-odd ray-casting rule.
func pointListContains(s *core.Shape, dx, dy float64) bool {
	n := s.PointCount()
	if n < 3 {
		// A freeform with 2 points has no interior.
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := s.Points[i*2], s.Points[i*2+1]
		xj, yj := s.Points[j*2], s.Points[j*2+1]
		if (yi > dy) != (yj > dy) &&
			dx < (xj-xi)*(dy-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Fallback returns the default circle substituted for malformed shapes.
func Fallback() *core.Shape {
	return &core.Shape{Type: core.ShapeCircle, Radius: FallbackRadius}
}

// Normalize validates and repairs a shape, returning a copy safe to
// render and hit-test. Malformed input (nil, unknown type, too few
// points) yields the fallback circle together with ErrMalformedShape so
// callers can log the degradation; it is never a hard failure. Valid
// input gets its size floors, corner-radius clamp, and rotation
// normalization applied.
func Normalize(s *core.Shape) (*core.Shape, error) {
	if s == nil {
		return Fallback(), ErrMalformedShape
	}
	strat, ok := strategies[s.Type]
	if !ok {
		return Fallback(), ErrMalformedShape
	}
	if strat.minPoints > 0 && s.PointCount() < strat.minPoints {
		return Fallback(), ErrMalformedShape
	}

	out := s.Clone()
	switch out.Type {
	case core.ShapeCircle:
		out.Radius = floor(out.Radius)
	case core.ShapeRectangle:
		out.Width = floor(out.Width)
		out.Height = floor(out.Height)
		out.CornerRadius = clampCorner(out.CornerRadius, out.Width, out.Height)
	case core.ShapeEllipse:
		out.Width = floor(out.Width)
		out.Height = floor(out.Height)
	}
	out.Rotation = NormalizeRotation(out.Rotation)
	return out, nil
}

// Contains reports whether a percentage-space point lies inside the shape
// centered at the given position. Malformed shapes are tested as the
// fallback circle, so selection never breaks on bad persisted data.
func Contains(s *core.Shape, center, p core.Position) bool {
	norm, _ := Normalize(s)
	strat := strategies[norm.Type]
	return strat.contains(norm, p.X-center.X, p.Y-center.Y)
}

// NormalizeRotation maps any degree value into [0, 360).
func NormalizeRotation(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func floor(v float64) float64 {
	if v < MinSizePercent {
		return MinSizePercent
	}
	return v
}

// clampCorner keeps the corner radius within [0, min(w, h)/2].
func clampCorner(r, w, h float64) float64 {
	if r < 0 {
		return 0
	}
	limit := math.Min(w, h) / 2
	if r > limit {
		return limit
	}
	return r
}
