package viewport

import (
	"math"
	"testing"

	"github.com/venuekit/seatplan/internal/geom"
	"github.com/venuekit/seatplan/pkg/core"
)

func testFrame() geom.Frame {
	return geom.Fit(core.Size{Width: 800, Height: 600}, geom.DefaultAspectRatio)
}

func TestControllerStartsAtRest(t *testing.T) {
	c := NewController(DefaultConfig())
	if c.Zoom() != 1 || c.Pan() != (core.Position{}) {
		t.Errorf("zoom = %v pan = %+v, want 1 and zero", c.Zoom(), c.Pan())
	}
}

func TestNewControllerRejectsBrokenConfig(t *testing.T) {
	c := NewController(Config{MinZoom: -1, MaxZoom: -2})
	c.SetZoom(100)
	if c.Zoom() != DefaultConfig().MaxZoom {
		t.Errorf("zoom = %v, want default max", c.Zoom())
	}
}

func TestSetZoomClamps(t *testing.T) {
	c := NewController(DefaultConfig())

	c.SetZoom(100)
	if c.Zoom() != 5 {
		t.Errorf("zoom = %v, want max 5", c.Zoom())
	}
	c.SetZoom(0.0001)
	if c.Zoom() != 0.1 {
		t.Errorf("zoom = %v, want min 0.1", c.Zoom())
	}
}

func TestZoomSteps(t *testing.T) {
	c := NewController(DefaultConfig())

	c.ZoomIn()
	if c.Zoom() != 1.25 {
		t.Errorf("zoom = %v, want 1.25", c.Zoom())
	}
	c.ZoomOut()
	c.ZoomOut()
	if c.Zoom() != 0.75 {
		t.Errorf("zoom = %v, want 0.75", c.Zoom())
	}
}

func TestPanAccumulatesAndResets(t *testing.T) {
	c := NewController(DefaultConfig())
	c.PanBy(10, -5)
	c.PanBy(20, 15)
	if c.Pan() != (core.Position{X: 30, Y: 10}) {
		t.Errorf("pan = %+v, want (30, 10)", c.Pan())
	}

	c.SetZoom(2)
	c.ResetView()
	if c.Zoom() != 1 || c.Pan() != (core.Position{}) {
		t.Error("ResetView did not restore the rest state")
	}
}

func TestLowDetailThreshold(t *testing.T) {
	c := NewController(DefaultConfig())
	if c.LowDetail() {
		t.Error("low detail at zoom 1")
	}
	c.SetZoom(0.39)
	if !c.LowDetail() {
		t.Error("not low detail below the threshold")
	}
	c.SetZoom(0.4)
	if c.LowDetail() {
		t.Error("threshold itself must render full detail")
	}
}

func TestZoomAtKeepsCursorPointStable(t *testing.T) {
	c := NewController(DefaultConfig())
	frame := testFrame()
	pointer := core.Position{X: 530, Y: 210}

	layerBefore := frame.StageToLayer(pointer, c.Zoom(), c.Pan())
	c.ZoomAt(pointer, 1.5, frame)
	layerAfter := frame.StageToLayer(pointer, c.Zoom(), c.Pan())

	if math.Abs(layerBefore.X-layerAfter.X) > 1e-9 ||
		math.Abs(layerBefore.Y-layerAfter.Y) > 1e-9 {
		t.Errorf("layer point under cursor moved: %+v -> %+v", layerBefore, layerAfter)
	}
}

func TestZoomAtStaysStableAcrossRepeatedTicks(t *testing.T) {
	c := NewController(DefaultConfig())
	frame := testFrame()
	pointer := core.Position{X: 220, Y: 470}

	ref := frame.StageToLayer(pointer, c.Zoom(), c.Pan())
	for i := 0; i < 10; i++ {
		c.WheelZoom(pointer, -1, frame)
	}
	for i := 0; i < 4; i++ {
		c.WheelZoom(pointer, 1, frame)
	}
	got := frame.StageToLayer(pointer, c.Zoom(), c.Pan())

	if math.Abs(ref.X-got.X) > 1e-6 || math.Abs(ref.Y-got.Y) > 1e-6 {
		t.Errorf("layer point drifted after wheel sequence: %+v -> %+v", ref, got)
	}
}

func TestZoomAtIgnoresNonPositiveFactor(t *testing.T) {
	c := NewController(DefaultConfig())
	c.ZoomAt(core.Position{X: 100, Y: 100}, 0, testFrame())
	c.ZoomAt(core.Position{X: 100, Y: 100}, -2, testFrame())
	if c.Zoom() != 1 || c.Pan() != (core.Position{}) {
		t.Error("non-positive factor changed the view")
	}
}

func TestWheelZoomDirection(t *testing.T) {
	c := NewController(DefaultConfig())
	frame := testFrame()

	c.WheelZoom(core.Position{X: 400, Y: 300}, -1, frame)
	if c.Zoom() <= 1 {
		t.Errorf("wheel up zoom = %v, want > 1", c.Zoom())
	}

	c2 := NewController(DefaultConfig())
	c2.WheelZoom(core.Position{X: 400, Y: 300}, 1, frame)
	if c2.Zoom() >= 1 {
		t.Errorf("wheel down zoom = %v, want < 1", c2.Zoom())
	}
}

func markerAt(id string, x, y float64) *core.Marker {
	return &core.Marker{
		ID:       id,
		Kind:     core.MarkerKindSeat,
		Position: core.Position{X: x, Y: y},
	}
}

func TestVirtualizerPassThroughBelowThreshold(t *testing.T) {
	v := NewVirtualizer()
	frame := testFrame()

	markers := []*core.Marker{
		markerAt("a", 10, 10),
		markerAt("b", 200, 200), // far outside the canvas
	}
	ids := v.Filter(markers, nil, 0, frame, 1, core.Position{})
	if len(ids) != 2 {
		t.Errorf("ids = %v, want all markers below the threshold", ids)
	}
}

func TestVirtualizerFiltersAboveThreshold(t *testing.T) {
	v := NewVirtualizer()
	v.Threshold = 10
	frame := testFrame()

	var markers []*core.Marker
	for i := 0; i < 20; i++ {
		markers = append(markers, markerAt(string(rune('a'+i)), 50, 50))
	}
	markers = append(markers, markerAt("far", 500, 500))

	ids := v.Filter(markers, nil, 0, frame, 1, core.Position{})
	if len(ids) != 20 {
		t.Errorf("kept %d markers, want the 20 visible ones", len(ids))
	}
	for _, id := range ids {
		if id == "far" {
			t.Error("off-canvas marker survived filtering")
		}
	}
}

func TestVirtualizerOverlayCountTriggersActivation(t *testing.T) {
	v := NewVirtualizer()
	v.Threshold = 10
	frame := testFrame()

	markers := []*core.Marker{
		markerAt("near", 50, 50),
		markerAt("far", 500, 500),
	}

	// Only two markers, but the overlays push the total over the line.
	ids := v.Filter(markers, nil, 9, frame, 1, core.Position{})
	if len(ids) != 1 || ids[0] != "near" {
		t.Errorf("ids = %v, want [near]", ids)
	}
}

func TestVirtualizerRetainsSelectedOffscreen(t *testing.T) {
	v := NewVirtualizer()
	v.Threshold = 1
	frame := testFrame()

	markers := []*core.Marker{
		markerAt("near", 50, 50),
		markerAt("far", 500, 500),
	}
	ids := v.Filter(markers, map[string]bool{"far": true}, 0, frame, 1, core.Position{})

	found := false
	for _, id := range ids {
		if id == "far" {
			found = true
		}
	}
	if !found {
		t.Error("selected off-screen marker was culled")
	}
}

func TestVirtualizerPaddingExtendsVisibleRect(t *testing.T) {
	v := NewVirtualizer()
	v.Threshold = 1
	frame := testFrame()

	// At rest the visible rect is 0..100 on both axes; 20% padding
	// stretches it to -20..120.
	markers := []*core.Marker{
		markerAt("pad", 110, 50),
		markerAt("beyond", 130, 50),
	}
	ids := v.Filter(markers, nil, 0, frame, 1, core.Position{})
	if len(ids) != 1 || ids[0] != "pad" {
		t.Errorf("ids = %v, want [pad]", ids)
	}
}

func TestVirtualizerVisibleRectFollowsZoom(t *testing.T) {
	v := NewVirtualizer()
	frame := testFrame()

	rest := v.VisibleRect(frame, 1, core.Position{})
	zoomed := v.VisibleRect(frame, 2, core.Position{})

	if zoomed.Width >= rest.Width || zoomed.Height >= rest.Height {
		t.Errorf("zoomed rect %+v not smaller than rest rect %+v", zoomed, rest)
	}

	center := core.Position{X: 50, Y: 50}
	if !zoomed.Contains(center) {
		t.Error("zoomed rect lost the canvas center")
	}
}
