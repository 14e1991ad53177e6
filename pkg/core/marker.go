// pkg/core/marker.go
package core

// MarkerKind discriminates the two placeable entity types.
type MarkerKind string

const (
	MarkerKindSeat    MarkerKind = "seat"
	MarkerKindSection MarkerKind = "section"
)

// SeatInfo is the seat-specific payload of a marker.
type SeatInfo struct {
	SectionID string `json:"sectionId"`
	Row       string `json:"row"`
	Number    string `json:"number"`
	SeatKind  string `json:"seatKind"`
}

// SectionInfo is the section-specific payload of a marker.
type SectionInfo struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Marker is a placed seat or section on the venue canvas.
// Position is in percentage space; Shape is optional and shares the
// marker's position as its center.
type Marker struct {
	ID       string     `json:"id"`
	VenueID  string     `json:"venueId"`
	Position Position   `json:"position"`
	Shape    *Shape     `json:"shape,omitempty"`
	Kind     MarkerKind `json:"kind"`

	Seat    *SeatInfo    `json:"seat,omitempty"`
	Section *SectionInfo `json:"section,omitempty"`

	// IsNew distinguishes markers placed this session from ones loaded or
	// already synced through persistence.
	IsNew bool `json:"isNew,omitempty"`
}

// SectionRef returns the id of the section a seat marker belongs to, or
// "" for section markers and seats without an assignment.
func (m *Marker) SectionRef() string {
	if m.Kind == MarkerKindSeat && m.Seat != nil {
		return m.Seat.SectionID
	}
	return ""
}

// Clone returns a deep copy of the marker.
func (m *Marker) Clone() *Marker {
	out := *m
	if m.Shape != nil {
		out.Shape = m.Shape.Clone()
	}
	if m.Seat != nil {
		seat := *m.Seat
		out.Seat = &seat
	}
	if m.Section != nil {
		section := *m.Section
		out.Section = &section
	}
	return &out
}
