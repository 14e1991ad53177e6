// Package model defines the database schema for persisted seating
// layouts. Positions are stored as WKB points in percentage space so
// both PostGIS and SQLite can round-trip them; shape geometry is stored
// as a JSON document since its structure varies per shape kind.
package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// DatabaseModels is a list of all the structs exported here which
// represent tables in the database schema
var DatabaseModels = []interface{}{
	&Venue{},
	&Marker{},
}

// Venue is one seating layout: a named canvas with an optional
// background image.
type Venue struct {
	ID       string `json:"id" gorm:"primarykey;size:64"`
	Name     string `json:"name" gorm:"size:128"`
	ImageURL string `json:"imageUrl" gorm:"size:512"` // background image, empty for blank canvas

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (*Venue) TableName() string {
	return "venues"
}

// Marker is a placed seat or section. Seat columns and section columns
// are both present and sparsely populated depending on Kind; layouts
// stay in one table so bulk loads and cascades are single queries.
type Marker struct {
	ID      string `json:"id" gorm:"primarykey;size:64"`
	VenueID string `json:"venueId" gorm:"size:64;index:idx_marker_venue_id"`
	Venue   Venue  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:VenueID;"`
	Kind    string `json:"kind" gorm:"size:16;index:idx_marker_kind"`

	Position geom.Point     `json:"position"`        // percentage-space location, WKB
	Shape    datatypes.JSON `json:"shape,omitempty"` // canonical shape geometry, null renders the fallback

	// Seat columns
	SectionID string `json:"sectionId,omitempty" gorm:"size:64;index:idx_marker_section_id"`
	Row       string `json:"row,omitempty" gorm:"size:32"`
	Number    string `json:"number,omitempty" gorm:"size:32"`
	SeatKind  string `json:"seatKind,omitempty" gorm:"size:32"`

	// Section columns
	Name     string `json:"name,omitempty" gorm:"size:128"`
	ImageURL string `json:"imageUrl,omitempty" gorm:"size:512"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (*Marker) TableName() string {
	return "markers"
}
