// internal/interaction/events.go
package interaction

import "github.com/venuekit/seatplan/pkg/core"

// Host event names published through the dispatcher. The payloads are
// the typed structs below; the host receives discrete, already-resolved
// facts and never raw pointer data.
const (
	EventMarkerClicked    = "markerClicked"
	EventMarkersInRect    = "markersInRect"
	EventShapeCommitted   = "shapeCommitted"
	EventSelectionChanged = "selectionChanged"
	EventDeselected       = "deselected"
	EventLowDetailChanged = "lowDetailChanged"
)

// MarkerClicked reports a click that resolved to a marker.
type MarkerClicked struct {
	ID        string
	Modifiers Modifiers
}

// MarkersInRect reports the outcome of a marquee selection, split by
// marker kind the way the host consumes it.
type MarkersInRect struct {
	SeatIDs    []string
	SectionIDs []string
}

// ShapeCommitted reports a completed draw gesture. X and Y are the
// percentage-space center the shape was committed at; MarkerID is the
// marker created to carry it.
type ShapeCommitted struct {
	MarkerID string
	Shape    *core.Shape
	X, Y     float64
}

// SelectionChanged reports the new selection set and anchor.
type SelectionChanged struct {
	IDs      []string
	AnchorID string
}

// LowDetailChanged reports a flip of the low-detail rendering decision.
type LowDetailChanged struct {
	LowDetail bool
}

// Modifiers is the keyboard modifier state accompanying a pointer event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Button identifies which pointer button an event carries.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a raw pointer notification from the host, in stage
// (device) pixels.
type PointerEvent struct {
	Position  core.Position
	Button    Button
	Modifiers Modifiers
}

// WheelEvent is a raw wheel notification. Positive DeltaY scrolls down
// (zoom out).
type WheelEvent struct {
	Position core.Position
	DeltaY   float64
}

// Key identifies the keyboard inputs the engine reacts to.
type Key int

const (
	KeyEscape Key = iota
	KeyBackspace
	KeyDelete
	KeySpace
)
