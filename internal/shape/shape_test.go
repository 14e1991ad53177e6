package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/venuekit/seatplan/pkg/core"
)

func TestNormalizeMalformedShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape *core.Shape
	}{
		{"nil shape", nil},
		{"unknown type", &core.Shape{Type: "hexagon"}},
		{"empty type", &core.Shape{}},
		{"polygon with two points", &core.Shape{Type: core.ShapePolygon, Points: []float64{0, 0, 1, 1}}},
		{"freeform with one point", &core.Shape{Type: core.ShapeFreeform, Points: []float64{2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.shape)
			if !errors.Is(err, ErrMalformedShape) {
				t.Fatalf("err = %v, want ErrMalformedShape", err)
			}
			if got.Type != core.ShapeCircle || got.Radius != FallbackRadius {
				t.Errorf("got %+v, want fallback circle radius %v", got, FallbackRadius)
			}
		})
	}
}

func TestNormalizeAppliesSizeFloor(t *testing.T) {
	tests := []struct {
		name  string
		in    *core.Shape
		check func(t *testing.T, s *core.Shape)
	}{
		{
			"tiny circle",
			&core.Shape{Type: core.ShapeCircle, Radius: 0.01},
			func(t *testing.T, s *core.Shape) {
				if s.Radius != MinSizePercent {
					t.Errorf("radius = %v, want %v", s.Radius, MinSizePercent)
				}
			},
		},
		{
			"zero rectangle",
			&core.Shape{Type: core.ShapeRectangle},
			func(t *testing.T, s *core.Shape) {
				if s.Width != MinSizePercent || s.Height != MinSizePercent {
					t.Errorf("size = %vx%v, want floors", s.Width, s.Height)
				}
			},
		},
		{
			"negative ellipse",
			&core.Shape{Type: core.ShapeEllipse, Width: -4, Height: -4},
			func(t *testing.T, s *core.Shape) {
				if s.Width != MinSizePercent || s.Height != MinSizePercent {
					t.Errorf("size = %vx%v, want floors", s.Width, s.Height)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestNormalizeClampsCornerRadius(t *testing.T) {
	got, err := Normalize(&core.Shape{Type: core.ShapeRectangle, Width: 10, Height: 6, CornerRadius: 50})
	if err != nil {
		t.Fatal(err)
	}
	if got.CornerRadius != 3 {
		t.Errorf("corner radius = %v, want 3", got.CornerRadius)
	}

	got, _ = Normalize(&core.Shape{Type: core.ShapeRectangle, Width: 10, Height: 6, CornerRadius: -1})
	if got.CornerRadius != 0 {
		t.Errorf("negative corner radius = %v, want 0", got.CornerRadius)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := &core.Shape{Type: core.ShapeCircle, Radius: 0.1, Rotation: -90}
	_, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	if in.Radius != 0.1 || in.Rotation != -90 {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-720, 0},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NormalizeRotation(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContainsCircle(t *testing.T) {
	s := &core.Shape{Type: core.ShapeCircle, Radius: 3}
	center := core.Position{X: 50, Y: 50}

	if !Contains(s, center, core.Position{X: 52, Y: 50}) {
		t.Error("point inside radius rejected")
	}
	if !Contains(s, center, core.Position{X: 53, Y: 50}) {
		t.Error("boundary point rejected, containment is inclusive")
	}
	if Contains(s, center, core.Position{X: 53.1, Y: 50}) {
		t.Error("point outside radius accepted")
	}
}

func TestContainsRectangleIgnoresRotation(t *testing.T) {
	s := &core.Shape{Type: core.ShapeRectangle, Width: 10, Height: 4, Rotation: 45}
	center := core.Position{X: 20, Y: 20}

	// Hit-testing uses the unrotated half-extents.
	if !Contains(s, center, core.Position{X: 24.9, Y: 21.9}) {
		t.Error("point inside unrotated extents rejected")
	}
	if Contains(s, center, core.Position{X: 25.1, Y: 20}) {
		t.Error("point outside width accepted")
	}
}

func TestContainsEllipse(t *testing.T) {
	s := &core.Shape{Type: core.ShapeEllipse, Width: 8, Height: 4}
	center := core.Position{X: 0, Y: 0}

	if !Contains(s, center, core.Position{X: 3.9, Y: 0}) {
		t.Error("point on major axis rejected")
	}
	// Inside the bounding box but outside the ellipse.
	if Contains(s, center, core.Position{X: 3.5, Y: 1.8}) {
		t.Error("bounding-box corner region accepted")
	}
}

func TestContainsPolygonEvenOdd(t *testing.T) {
	// Concave arrow pointing right: the notch on the left is outside.
	s := &core.Shape{Type: core.ShapePolygon, Points: []float64{
		-4, -4,
		4, 0,
		-4, 4,
		-1, 0,
	}}
	center := core.Position{X: 0, Y: 0}

	if !Contains(s, center, core.Position{X: 1, Y: 0.2}) {
		t.Error("interior point rejected")
	}
	if Contains(s, center, core.Position{X: -3, Y: 0.2}) {
		t.Error("notch point accepted, even-odd rule broken")
	}
	if Contains(s, center, core.Position{X: 5, Y: 0.2}) {
		t.Error("exterior point accepted")
	}
}

func TestContainsTwoPointFreeformHasNoInterior(t *testing.T) {
	s := &core.Shape{Type: core.ShapeFreeform, Points: []float64{-2, 0, 2, 0}}
	if Contains(s, core.Position{}, core.Position{X: 0, Y: 0}) {
		t.Error("a line segment must not contain points")
	}
}

func TestContainsMalformedShapeFallsBack(t *testing.T) {
	s := &core.Shape{Type: "blob"}
	center := core.Position{X: 10, Y: 10}

	if !Contains(s, center, core.Position{X: 11, Y: 10}) {
		t.Error("point inside fallback radius rejected")
	}
	if Contains(s, center, core.Position{X: 12, Y: 10}) {
		t.Error("point outside fallback radius accepted")
	}
}

func TestApplyTransformScalesByKind(t *testing.T) {
	t.Run("circle averages axes", func(t *testing.T) {
		got := ApplyTransform(&core.Shape{Type: core.ShapeCircle, Radius: 4}, 2, 1, 0)
		if got.Radius != 6 {
			t.Errorf("radius = %v, want 6", got.Radius)
		}
	})

	t.Run("rectangle scales per axis", func(t *testing.T) {
		got := ApplyTransform(&core.Shape{Type: core.ShapeRectangle, Width: 10, Height: 4}, 2, 0.5, 0)
		if got.Width != 20 || got.Height != 2 {
			t.Errorf("size = %vx%v, want 20x2", got.Width, got.Height)
		}
	})

	t.Run("polygon scales points about center", func(t *testing.T) {
		got := ApplyTransform(&core.Shape{
			Type:   core.ShapePolygon,
			Points: []float64{-2, -2, 2, -2, 0, 2},
		}, 2, 3, 0)
		want := []float64{-4, -6, 4, -6, 0, 6}
		for i, v := range want {
			if got.Points[i] != v {
				t.Fatalf("points = %v, want %v", got.Points, want)
			}
		}
	})
}

func TestApplyTransformNormalizesInputs(t *testing.T) {
	// Negative scales mirror; magnitude is what survives. Zero scale is
	// treated as no scale. Rotation wraps into [0, 360).
	got := ApplyTransform(&core.Shape{Type: core.ShapeRectangle, Width: 10, Height: 4}, -2, 0, 450)
	if got.Width != 20 || got.Height != 4 {
		t.Errorf("size = %vx%v, want 20x4", got.Width, got.Height)
	}
	if got.Rotation != 90 {
		t.Errorf("rotation = %v, want 90", got.Rotation)
	}
}

func TestApplyTransformFloorsCollapsedSizes(t *testing.T) {
	got := ApplyTransform(&core.Shape{Type: core.ShapeEllipse, Width: 10, Height: 10}, 0.001, 0.001, 0)
	if got.Width != MinSizePercent || got.Height != MinSizePercent {
		t.Errorf("size = %vx%v, want floors", got.Width, got.Height)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		shape  *core.Shape
		center core.Position
		want   core.Rect
	}{
		{
			"circle",
			&core.Shape{Type: core.ShapeCircle, Radius: 2},
			core.Position{X: 10, Y: 20},
			core.Rect{X: 8, Y: 18, Width: 4, Height: 4},
		},
		{
			"rectangle",
			&core.Shape{Type: core.ShapeRectangle, Width: 6, Height: 4},
			core.Position{X: 0, Y: 0},
			core.Rect{X: -3, Y: -2, Width: 6, Height: 4},
		},
		{
			"polygon",
			&core.Shape{Type: core.ShapePolygon, Points: []float64{-1, -2, 3, 0, 0, 4}},
			core.Position{X: 50, Y: 50},
			core.Rect{X: 49, Y: 48, Width: 4, Height: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bounds(tt.shape, tt.center)
			if got != tt.want {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}
