package draw

import (
	"testing"

	"github.com/venuekit/seatplan/internal/shape"
	"github.com/venuekit/seatplan/pkg/core"
)

func TestIsDragTool(t *testing.T) {
	tests := []struct {
		tool Tool
		want bool
	}{
		{ToolCircle, true},
		{ToolRectangle, true},
		{ToolEllipse, true},
		{ToolFreeform, false},
		{ToolNone, false},
	}
	for _, tt := range tests {
		if got := tt.tool.IsDragTool(); got != tt.want {
			t.Errorf("IsDragTool(%q) = %v, want %v", tt.tool, got, tt.want)
		}
	}
}

func TestDragGestureLifecycle(t *testing.T) {
	var g DragGesture
	if g.Active() {
		t.Fatal("zero gesture must be inactive")
	}

	g.Start(ToolRectangle, core.Position{X: 10, Y: 10})
	if !g.Active() {
		t.Fatal("gesture inactive after Start")
	}

	g.Update(core.Position{X: 30, Y: 22})
	want := core.Rect{X: 10, Y: 10, Width: 20, Height: 12}
	if got := g.Preview(); got != want {
		t.Errorf("preview = %+v, want %+v", got, want)
	}

	g.Cancel()
	if g.Active() {
		t.Error("gesture active after Cancel")
	}
}

func TestDragGestureUpdateIgnoredWhenInactive(t *testing.T) {
	var g DragGesture
	g.Update(core.Position{X: 99, Y: 99})
	if g.Preview() != (core.Rect{}) {
		t.Error("update on inactive gesture changed the preview")
	}
}

func TestFinishRectangle(t *testing.T) {
	var g DragGesture
	g.Start(ToolRectangle, core.Position{X: 40, Y: 40})
	g.Update(core.Position{X: 50, Y: 48})

	s, center, ok := g.Finish()
	if !ok {
		t.Fatal("expected a committed shape")
	}
	if s.Type != core.ShapeRectangle || s.Width != 10 || s.Height != 8 {
		t.Errorf("shape = %+v, want 10x8 rectangle", s)
	}
	if center != (core.Position{X: 45, Y: 44}) {
		t.Errorf("center = %+v, want (45, 44)", center)
	}
	if g.Active() {
		t.Error("gesture still active after Finish")
	}
}

func TestFinishCircleAveragesExtents(t *testing.T) {
	var g DragGesture
	g.Start(ToolCircle, core.Position{X: 0, Y: 0})
	g.Update(core.Position{X: 8, Y: 4})

	s, _, ok := g.Finish()
	if !ok {
		t.Fatal("expected a committed shape")
	}
	// (8/2 + 4/2) / 2 = 3
	if s.Type != core.ShapeCircle || s.Radius != 3 {
		t.Errorf("shape = %+v, want circle radius 3", s)
	}
}

func TestFinishDragsBackwards(t *testing.T) {
	// Dragging up-left produces the same box as down-right.
	var g DragGesture
	g.Start(ToolEllipse, core.Position{X: 50, Y: 48})
	g.Update(core.Position{X: 40, Y: 40})

	s, center, ok := g.Finish()
	if !ok {
		t.Fatal("expected a committed shape")
	}
	if s.Width != 10 || s.Height != 8 {
		t.Errorf("shape = %+v, want 10x8", s)
	}
	if center != (core.Position{X: 45, Y: 44}) {
		t.Errorf("center = %+v, want (45, 44)", center)
	}
}

func TestFinishDiscardsTinyDrag(t *testing.T) {
	var g DragGesture
	g.Start(ToolCircle, core.Position{X: 10, Y: 10})
	g.Update(core.Position{X: 10.2, Y: 10.2})

	if _, _, ok := g.Finish(); ok {
		t.Error("drag below the minimum extent must not commit")
	}
	if g.Active() {
		t.Error("gesture still active after discarded Finish")
	}
}

func TestFinishFloorsDegenerateAxis(t *testing.T) {
	// A purely horizontal drag has zero height; the committed shape gets
	// the size floor instead.
	var g DragGesture
	g.Start(ToolRectangle, core.Position{X: 10, Y: 10})
	g.Update(core.Position{X: 20, Y: 10})

	s, _, ok := g.Finish()
	if !ok {
		t.Fatal("expected a committed shape")
	}
	if s.Height != shape.MinSizePercent {
		t.Errorf("height = %v, want floor %v", s.Height, shape.MinSizePercent)
	}
}

func TestFinishInactiveGesture(t *testing.T) {
	var g DragGesture
	if _, _, ok := g.Finish(); ok {
		t.Error("inactive gesture must not commit")
	}
}

func TestPathBuilderDropsNearDuplicates(t *testing.T) {
	var b PathBuilder
	if !b.Add(core.Position{X: 10, Y: 10}) {
		t.Fatal("first point rejected")
	}
	if b.Add(core.Position{X: 10.2, Y: 10.2}) {
		t.Error("point within the spacing minimum accepted")
	}
	if !b.Add(core.Position{X: 11, Y: 11}) {
		t.Error("sufficiently distant point rejected")
	}
	if b.Len() != 2 {
		t.Errorf("len = %d, want 2", b.Len())
	}
}

func TestPathBuilderPopLast(t *testing.T) {
	var b PathBuilder
	b.Add(core.Position{X: 0, Y: 0})
	b.Add(core.Position{X: 5, Y: 0})
	b.PopLast()
	if b.Len() != 1 {
		t.Errorf("len = %d, want 1", b.Len())
	}
	b.PopLast()
	b.PopLast() // popping an empty path is a no-op
	if b.Len() != 0 {
		t.Errorf("len = %d, want 0", b.Len())
	}
}

func TestPathBuilderShouldClose(t *testing.T) {
	var b PathBuilder
	b.Add(core.Position{X: 10, Y: 10})
	if b.ShouldClose(core.Position{X: 10.5, Y: 10.5}) {
		t.Error("path below the point minimum must not close")
	}
	b.Add(core.Position{X: 20, Y: 10})
	if !b.ShouldClose(core.Position{X: 10.5, Y: 10.5}) {
		t.Error("click within closing radius of first point rejected")
	}
	if b.ShouldClose(core.Position{X: 15, Y: 10}) {
		t.Error("click far from first point accepted")
	}
}

func TestPathBuilderPointsReturnsCopy(t *testing.T) {
	var b PathBuilder
	b.Add(core.Position{X: 1, Y: 2})
	pts := b.Points()
	pts[0].X = 99
	if b.Points()[0].X != 1 {
		t.Error("Points must return a copy")
	}
}

func TestCloseRecentersOnCentroid(t *testing.T) {
	var b PathBuilder
	b.Add(core.Position{X: 30, Y: 30})
	b.Add(core.Position{X: 50, Y: 30})
	b.Add(core.Position{X: 50, Y: 50})
	b.Add(core.Position{X: 30, Y: 50})

	s, center, ok := b.Close()
	if !ok {
		t.Fatal("expected a committed shape")
	}
	if center != (core.Position{X: 40, Y: 40}) {
		t.Errorf("center = %+v, want (40, 40)", center)
	}
	if s.Type != core.ShapeFreeform || s.PointCount() != 4 {
		t.Fatalf("shape = %+v, want 4-point freeform", s)
	}
	want := []float64{-10, -10, 10, -10, 10, 10, -10, 10}
	for i, v := range want {
		if s.Points[i] != v {
			t.Fatalf("points = %v, want %v", s.Points, want)
		}
	}
	if b.Active() {
		t.Error("builder still active after Close")
	}
}

func TestCloseDiscardsShortPath(t *testing.T) {
	var b PathBuilder
	b.Add(core.Position{X: 10, Y: 10})
	if _, _, ok := b.Close(); ok {
		t.Error("single-point path must not commit")
	}
	if b.Active() {
		t.Error("builder still active after discarded Close")
	}
}

func TestCancelDiscardsPath(t *testing.T) {
	var b PathBuilder
	b.Add(core.Position{X: 10, Y: 10})
	b.Add(core.Position{X: 20, Y: 10})
	b.Cancel()
	if b.Active() || b.Len() != 0 {
		t.Error("cancel did not clear the path")
	}
}
