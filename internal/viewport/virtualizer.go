// internal/viewport/virtualizer.go
package viewport

import (
	"github.com/venuekit/seatplan/internal/geom"
	"github.com/venuekit/seatplan/pkg/core"
)

// Virtualizer defaults.
const (
	DefaultVirtualizeThreshold = 200
	DefaultVisiblePadding      = 0.2
)

// Virtualizer filters markers to a padded visible rectangle once the
// total item count crosses the activation threshold. Below the threshold
// it is a pass-through: culling a handful of markers costs more than
// rendering them.
type Virtualizer struct {
	// Threshold is the marker+overlay count above which filtering kicks in.
	Threshold int
	// Padding expands the visible rect by this fraction on every side so
	// items entering the view during a pan are already present.
	Padding float64
}

// NewVirtualizer returns a Virtualizer with the stock tuning.
func NewVirtualizer() *Virtualizer {
	return &Virtualizer{
		Threshold: DefaultVirtualizeThreshold,
		Padding:   DefaultVisiblePadding,
	}
}

// VisibleRect computes the percentage-space rectangle currently visible
// through the viewport by inverse-mapping the container corners through
// the pan/zoom transform, expanded by the padding fraction.
func (v *Virtualizer) VisibleRect(frame geom.Frame, zoom float64, pan core.Position) core.Rect {
	topLeft := frame.PointerToPercent(core.Position{}, zoom, pan)
	bottomRight := frame.PointerToPercent(core.Position{
		X: frame.Container.Width,
		Y: frame.Container.Height,
	}, zoom, pan)
	return core.RectFromCorners(topLeft, bottomRight).Expand(v.Padding)
}

// Filter returns the ids of markers to keep for rendering. overlayCount
// is the number of non-marker overlays the host is also drawing; it
// counts toward the activation threshold but is not filtered here.
// Selected markers are always retained regardless of visibility so
// selection state is never silently lost while panned away.
func (v *Virtualizer) Filter(
	markers []*core.Marker,
	selected map[string]bool,
	overlayCount int,
	frame geom.Frame,
	zoom float64,
	pan core.Position,
) []string {
	ids := make([]string, 0, len(markers))
	if len(markers)+overlayCount <= v.Threshold {
		for _, m := range markers {
			ids = append(ids, m.ID)
		}
		return ids
	}

	visible := v.VisibleRect(frame, zoom, pan)
	for _, m := range markers {
		if selected[m.ID] || visible.Contains(m.Position) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
