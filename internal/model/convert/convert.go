// Package convert maps between GORM models and core models.
package convert

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/venuekit/seatplan/internal/model"
	"github.com/venuekit/seatplan/pkg/core"
)

// PositionToPoint converts a percentage-space position to a geom.Point.
func PositionToPoint(p core.Position) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}})
}

// pointToPosition converts a geom.Point back to a percentage-space
// position. Empty points map to the origin.
func pointToPosition(p geom.Point) core.Position {
	xy, ok := p.XY()
	if !ok {
		return core.Position{}
	}
	return core.Position{X: xy.X, Y: xy.Y}
}

// MarkerToGorm converts a core.Marker to its database row.
func MarkerToGorm(m *core.Marker) (model.Marker, error) {
	row := model.Marker{
		ID:       m.ID,
		VenueID:  m.VenueID,
		Kind:     string(m.Kind),
		Position: PositionToPoint(m.Position),
	}

	if m.Shape != nil {
		raw, err := json.Marshal(m.Shape)
		if err != nil {
			return model.Marker{}, err
		}
		row.Shape = datatypes.JSON(raw)
	}

	if m.Seat != nil {
		row.SectionID = m.Seat.SectionID
		row.Row = m.Seat.Row
		row.Number = m.Seat.Number
		row.SeatKind = m.Seat.SeatKind
	}
	if m.Section != nil {
		row.Name = m.Section.Name
		row.ImageURL = m.Section.ImageURL
	}
	return row, nil
}

// MarkerToCore converts a database row to a core.Marker. A shape column
// that fails to parse is dropped rather than failing the load; the
// marker renders with the fallback shape.
func MarkerToCore(row model.Marker) *core.Marker {
	m := &core.Marker{
		ID:       row.ID,
		VenueID:  row.VenueID,
		Kind:     core.MarkerKind(row.Kind),
		Position: pointToPosition(row.Position),
	}

	if len(row.Shape) > 0 {
		var s core.Shape
		if err := json.Unmarshal(row.Shape, &s); err == nil {
			m.Shape = &s
		}
	}

	switch m.Kind {
	case core.MarkerKindSeat:
		m.Seat = &core.SeatInfo{
			SectionID: row.SectionID,
			Row:       row.Row,
			Number:    row.Number,
			SeatKind:  row.SeatKind,
		}
	case core.MarkerKindSection:
		m.Section = &core.SectionInfo{
			Name:     row.Name,
			ImageURL: row.ImageURL,
		}
	}
	return m
}

// MarkersToCore converts a batch of rows.
func MarkersToCore(rows []model.Marker) []*core.Marker {
	out := make([]*core.Marker, 0, len(rows))
	for _, row := range rows {
		out = append(out, MarkerToCore(row))
	}
	return out
}
