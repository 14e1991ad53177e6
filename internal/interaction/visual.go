package interaction

import (
	"github.com/venuekit/seatplan/internal/shape"
	"github.com/venuekit/seatplan/pkg/core"
)

// Visual defaults, overridable per shape via its stored colors.
const (
	DefaultFillColor   = "#3b82f6"
	DefaultStrokeColor = "#1d4ed8"
	SelectedStroke     = "#f59e0b"

	baseStrokeWidth     = 1.0
	selectedStrokeWidth = 2.5

	fullOpacity   = 1.0
	dimmedOpacity = 0.45
)

// MarkerVisual is the declarative render state for one marker. The host
// maps these facts to whatever drawing primitives it uses; the engine
// never touches a canvas.
type MarkerVisual struct {
	Shape       *core.Shape   // normalized, never nil
	Position    core.Position // percentage space
	Selected    bool
	Hovered     bool
	LowDetail   bool
	Fallback    bool // shape was malformed and degraded
	Opacity     float64
	FillColor   string
	StrokeColor string
	StrokeWidth float64
}

// VisualFor derives the render state for one marker. Unknown ids return
// ok=false. Malformed shapes degrade to the fallback circle here rather
// than failing the render pass.
func (m *Machine) VisualFor(id string) (MarkerVisual, bool) {
	mk, ok := m.markers.GetByID(id)
	if !ok {
		return MarkerVisual{}, false
	}

	s, err := shape.Normalize(mk.Shape)
	v := MarkerVisual{
		Shape:       s,
		Position:    mk.Position,
		Selected:    m.selection.IsSelected(id),
		Hovered:     m.hoverID == id,
		LowDetail:   m.lowDetail,
		Fallback:    err != nil,
		Opacity:     fullOpacity,
		FillColor:   DefaultFillColor,
		StrokeColor: DefaultStrokeColor,
		StrokeWidth: baseStrokeWidth,
	}
	if s.FillColor != "" {
		v.FillColor = s.FillColor
	}
	if s.StrokeColor != "" {
		v.StrokeColor = s.StrokeColor
	}

	if v.Selected {
		v.StrokeColor = SelectedStroke
		v.StrokeWidth = selectedStrokeWidth
	} else if m.selection.Count() > 0 {
		// Non-selected markers recede while a selection is active.
		v.Opacity = dimmedOpacity
	}
	return v, true
}
