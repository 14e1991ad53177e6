// Package geom implements the coordinate system of the seating canvas:
// letterboxed content placement inside an arbitrary container, and the
// conversions between the three coordinate spaces the designer works in.
//
// Percentage space is canonical and persisted. Layer space is content
// pixels before pan/zoom. Stage space is what the pointer reports after
// pan/zoom. Layer and stage coordinates are always derived, never stored.
package geom

import (
	"github.com/venuekit/seatplan/pkg/core"
)

// DefaultAspectRatio is the content aspect ratio used in blank-canvas
// mode, when no background image supplies one.
const DefaultAspectRatio = 4.0 / 3.0

// Fallback container dimensions substituted when a measurement reports a
// zero or negative axis, so no conversion ever divides by zero.
const (
	DefaultContainerWidth  = 800.0
	DefaultContainerHeight = 600.0
)

// Frame is a letterboxed content placement: the container that was
// measured and the centered content rectangle inside it. All conversions
// between percentage and layer space go through a Frame.
type Frame struct {
	Container core.Size
	Content   core.Rect
}

// Fit computes the letterboxed content rectangle for a container and a
// content aspect ratio (width / height). The larger axis is clamped to
// the container, the other derived from the ratio, and the content is
// centered. Invalid container dimensions are replaced by the defaults;
// a non-positive aspect ratio falls back to DefaultAspectRatio.
func Fit(container core.Size, aspect float64) Frame {
	container = sanitize(container)
	if aspect <= 0 {
		aspect = DefaultAspectRatio
	}

	width := container.Width
	height := width / aspect
	if height > container.Height {
		height = container.Height
		width = height * aspect
	}

	return Frame{
		Container: container,
		Content: core.Rect{
			X:      (container.Width - width) / 2,
			Y:      (container.Height - height) / 2,
			Width:  width,
			Height: height,
		},
	}
}

func sanitize(container core.Size) core.Size {
	if container.Width <= 0 {
		container.Width = DefaultContainerWidth
	}
	if container.Height <= 0 {
		container.Height = DefaultContainerHeight
	}
	return container
}

// PercentToLayer converts a percentage-space position to layer space.
func (f Frame) PercentToLayer(p core.Position) core.Position {
	return core.Position{
		X: f.Content.X + p.X/100*f.Content.Width,
		Y: f.Content.Y + p.Y/100*f.Content.Height,
	}
}

// LayerToPercent is the exact inverse of PercentToLayer. The content
// rectangle produced by Fit always has positive dimensions, so the
// division is safe.
func (f Frame) LayerToPercent(p core.Position) core.Position {
	return core.Position{
		X: (p.X - f.Content.X) / f.Content.Width * 100,
		Y: (p.Y - f.Content.Y) / f.Content.Height * 100,
	}
}

// LayerToStage applies the pan/zoom view transform:
//
//	stage = center + pan + (layer - center) * zoom
//
// where center is the container center.
func (f Frame) LayerToStage(p core.Position, zoom float64, pan core.Position) core.Position {
	cx := f.Container.Width / 2
	cy := f.Container.Height / 2
	return core.Position{
		X: cx + pan.X + (p.X-cx)*zoom,
		Y: cy + pan.Y + (p.Y-cy)*zoom,
	}
}

// StageToLayer is the inverse of LayerToStage. Zoom is clamped away from
// zero before dividing.
func (f Frame) StageToLayer(p core.Position, zoom float64, pan core.Position) core.Position {
	if zoom == 0 {
		zoom = 1
	}
	cx := f.Container.Width / 2
	cy := f.Container.Height / 2
	return core.Position{
		X: cx + (p.X-cx-pan.X)/zoom,
		Y: cy + (p.Y-cy-pan.Y)/zoom,
	}
}

// PointerToPercent resolves a raw pointer position to percentage space by
// undoing the view transform and then the letterbox placement.
func (f Frame) PointerToPercent(p core.Position, zoom float64, pan core.Position) core.Position {
	return f.LayerToPercent(f.StageToLayer(p, zoom, pan))
}

// PercentToStage is the full forward composition, used when projecting a
// stored marker position to the screen.
func (f Frame) PercentToStage(p core.Position, zoom float64, pan core.Position) core.Position {
	return f.LayerToStage(f.PercentToLayer(p), zoom, pan)
}
