// Package draw turns pointer gestures into committed shapes: a drag tool
// for the closed-form shapes and a click-by-click path builder for
// freeform outlines. All gesture math runs in percentage space.
package draw

import (
	"github.com/venuekit/seatplan/internal/shape"
	"github.com/venuekit/seatplan/pkg/core"
)

// Tool identifies the active drawing tool.
type Tool string

const (
	ToolNone      Tool = ""
	ToolCircle    Tool = "circle"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolFreeform  Tool = "freeform"
)

// IsDragTool reports whether the tool draws by dragging a bounding box.
func (t Tool) IsDragTool() bool {
	switch t {
	case ToolCircle, ToolRectangle, ToolEllipse:
		return true
	}
	return false
}

// Gesture tuning, in percent of canvas dimensions.
const (
	// MinDragExtent is the minimum drag distance before a drag gesture
	// commits a shape. Anything shorter is discarded so a plain click
	// never produces an accidental micro-shape.
	MinDragExtent = 0.5
	// MinPointSpacing drops freeform clicks closer than this to the
	// previous point.
	MinPointSpacing = 0.5
	// ClosingRadius is how near the first point a click must land to
	// close a freeform path.
	ClosingRadius = 1.5
)

// DragGesture is one in-progress drag-to-draw gesture.
type DragGesture struct {
	tool    Tool
	start   core.Position
	current core.Position
	active  bool
}

// Start begins a drag gesture at the given percentage-space point.
func (g *DragGesture) Start(tool Tool, p core.Position) {
	g.tool = tool
	g.start = p
	g.current = p
	g.active = true
}

// Update moves the live corner of the gesture for preview.
func (g *DragGesture) Update(p core.Position) {
	if g.active {
		g.current = p
	}
}

// Active reports whether a gesture is in progress.
func (g *DragGesture) Active() bool { return g.active }

// Preview returns the current bounding box of the gesture.
func (g *DragGesture) Preview() core.Rect {
	return core.RectFromCorners(g.start, g.current)
}

// Cancel discards the gesture with no side effect.
func (g *DragGesture) Cancel() {
	*g = DragGesture{}
}

// Finish completes the gesture. A gesture shorter than MinDragExtent is
// discarded and returns ok=false. Otherwise the bounding box becomes the
// committed shape: its center is the marker position and its extents the
// shape size, floored to the minimum.
func (g *DragGesture) Finish() (s *core.Shape, center core.Position, ok bool) {
	if !g.active {
		return nil, core.Position{}, false
	}
	tool := g.tool
	box := g.Preview()
	dist := g.start.Distance(g.current)
	*g = DragGesture{}

	if dist < MinDragExtent {
		return nil, core.Position{}, false
	}

	switch tool {
	case ToolCircle:
		s = &core.Shape{
			Type:   core.ShapeCircle,
			Radius: (box.Width/2 + box.Height/2) / 2,
		}
	case ToolRectangle:
		s = &core.Shape{
			Type:   core.ShapeRectangle,
			Width:  box.Width,
			Height: box.Height,
		}
	case ToolEllipse:
		s = &core.Shape{
			Type:   core.ShapeEllipse,
			Width:  box.Width,
			Height: box.Height,
		}
	default:
		return nil, core.Position{}, false
	}

	s, _ = shape.Normalize(s)
	return s, box.Center(), true
}
