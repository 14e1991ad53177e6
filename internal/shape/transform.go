// internal/shape/transform.go
package shape

import (
	"math"

	"github.com/venuekit/seatplan/pkg/core"
)

// ApplyTransform recomputes a shape's canonical geometry from the scale
// factors and rotation read off an interactive transform node at gesture
// end. The node's own scale is expected to be reset to 1 by the caller;
// the scaled sizes live here afterwards.
//
// Circles take the mean of the two scale axes since they have a single
// radius. Point-list shapes scale each coordinate about the center. All
// resulting sizes are floored to the minimum positive percentage.
func ApplyTransform(s *core.Shape, scaleX, scaleY, rotationDeg float64) *core.Shape {
	out, _ := Normalize(s)

	sx := math.Abs(scaleX)
	sy := math.Abs(scaleY)
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}

	switch out.Type {
	case core.ShapeCircle:
		out.Radius = floor(out.Radius * (sx + sy) / 2)
	case core.ShapeRectangle:
		out.Width = floor(out.Width * sx)
		out.Height = floor(out.Height * sy)
		out.CornerRadius = clampCorner(out.CornerRadius, out.Width, out.Height)
	case core.ShapeEllipse:
		out.Width = floor(out.Width * sx)
		out.Height = floor(out.Height * sy)
	case core.ShapePolygon, core.ShapeFreeform:
		for i := 0; i+1 < len(out.Points); i += 2 {
			out.Points[i] *= sx
			out.Points[i+1] *= sy
		}
	}

	out.Rotation = NormalizeRotation(rotationDeg)
	return out
}

// Bounds returns the axis-aligned bounding rect of the shape centered at
// the given position, ignoring rotation. Used for drawing previews and
// overlay sizing, not for hit-testing.
func Bounds(s *core.Shape, center core.Position) core.Rect {
	norm, _ := Normalize(s)
	switch norm.Type {
	case core.ShapeCircle:
		return core.Rect{
			X:      center.X - norm.Radius,
			Y:      center.Y - norm.Radius,
			Width:  norm.Radius * 2,
			Height: norm.Radius * 2,
		}
	case core.ShapeRectangle, core.ShapeEllipse:
		return core.Rect{
			X:      center.X - norm.Width/2,
			Y:      center.Y - norm.Height/2,
			Width:  norm.Width,
			Height: norm.Height,
		}
	default:
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for i := 0; i+1 < len(norm.Points); i += 2 {
			minX = math.Min(minX, norm.Points[i])
			maxX = math.Max(maxX, norm.Points[i])
			minY = math.Min(minY, norm.Points[i+1])
			maxY = math.Max(maxY, norm.Points[i+1])
		}
		return core.Rect{
			X:      center.X + minX,
			Y:      center.Y + minY,
			Width:  maxX - minX,
			Height: maxY - minY,
		}
	}
}
