// pkg/core/shape.go
package core

// ShapeType identifies one of the supported shape geometries.
type ShapeType string

const (
	ShapeCircle    ShapeType = "circle"
	ShapeRectangle ShapeType = "rectangle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapePolygon   ShapeType = "polygon"
	ShapeFreeform  ShapeType = "freeform"
)

// Minimum point counts for the point-list shape types. A point here is an
// (x, y) pair, so the flat Points slice holds twice this many numbers.
const (
	MinPolygonPoints  = 3
	MinFreeformPoints = 2
)

// Shape is the single wire-format contract the engine exposes: a tagged
// union serialized as one flat JSON object. All size fields are percentages
// of the canvas dimensions. Points is a flat alternating x,y list relative
// to the shape's own center. Rotation is degrees in [0,360).
//
// Which fields are meaningful depends on Type:
//
//	circle:    Radius
//	rectangle: Width, Height, CornerRadius
//	ellipse:   Width, Height
//	polygon:   Points (>= 3 pairs)
//	freeform:  Points (>= 2 pairs)
type Shape struct {
	Type         ShapeType `json:"type"`
	Radius       float64   `json:"radius,omitempty"`
	Width        float64   `json:"width,omitempty"`
	Height       float64   `json:"height,omitempty"`
	CornerRadius float64   `json:"cornerRadius,omitempty"`
	Points       []float64 `json:"points,omitempty"`
	Rotation     float64   `json:"rotation,omitempty"`
	FillColor    string    `json:"fillColor,omitempty"`
	StrokeColor  string    `json:"strokeColor,omitempty"`
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	out := *s
	if s.Points != nil {
		out.Points = make([]float64, len(s.Points))
		copy(out.Points, s.Points)
	}
	return &out
}

// PointCount returns the number of (x, y) pairs in the point list.
func (s *Shape) PointCount() int {
	return len(s.Points) / 2
}
