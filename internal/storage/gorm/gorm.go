// Package gormstorage implements the storage.Backend interface on top
// of any GORM-supported database. The SQLite and Postgres backends wrap
// it via composition and add only their connection-specific concerns.
package gormstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/venuekit/seatplan/internal/model"
	"github.com/venuekit/seatplan/internal/model/convert"
	"github.com/venuekit/seatplan/pkg/core"
)

// ErrVenueNotFound is returned when a venue id has no stored row.
var ErrVenueNotFound = errors.New("venue not found")

// Dependencies wires the backend to its database and logger.
type Dependencies struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// Backend persists layouts through GORM.
type Backend struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{db: deps.DB, log: deps.Log}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveVenue inserts or updates a venue row.
func (b *Backend) SaveVenue(ctx context.Context, v *core.Venue) error {
	row := model.Venue{ID: v.ID, Name: v.Name, ImageURL: v.ImageURL}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// LoadVenue fetches a venue by id.
func (b *Backend) LoadVenue(ctx context.Context, id string) (*core.Venue, error) {
	var row model.Venue
	err := b.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}
	return &core.Venue{ID: row.ID, Name: row.Name, ImageURL: row.ImageURL}, nil
}

// Load fetches every marker of a venue in creation order.
func (b *Backend) Load(ctx context.Context, venueID string) ([]*core.Marker, error) {
	var rows []model.Marker
	err := b.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading markers: %w", err)
	}
	return convert.MarkersToCore(rows), nil
}

// Create inserts a marker, updating it if the id already exists.
func (b *Backend) Create(ctx context.Context, m *core.Marker) error {
	row, err := convert.MarkerToGorm(m)
	if err != nil {
		return fmt.Errorf("encoding marker %s: %w", m.ID, err)
	}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// UpdateCoordinates writes only the position and shape columns of one
// marker; the identity and payload columns are left untouched.
func (b *Backend) UpdateCoordinates(ctx context.Context, id string, pos core.Position, shape *core.Shape) error {
	updates := map[string]any{
		"position": convert.PositionToPoint(pos),
	}
	if shape != nil {
		raw, err := json.Marshal(shape)
		if err != nil {
			return fmt.Errorf("encoding shape for %s: %w", id, err)
		}
		updates["shape"] = datatypes.JSON(raw)
	}
	return b.db.WithContext(ctx).
		Model(&model.Marker{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// BulkUpsert writes a batch of markers in one statement.
func (b *Backend) BulkUpsert(ctx context.Context, markers []*core.Marker) error {
	if len(markers) == 0 {
		return nil
	}
	rows := make([]model.Marker, 0, len(markers))
	for _, m := range markers {
		row, err := convert.MarkerToGorm(m)
		if err != nil {
			return fmt.Errorf("encoding marker %s: %w", m.ID, err)
		}
		rows = append(rows, row)
	}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// Delete removes markers by id.
func (b *Backend) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return b.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&model.Marker{}).Error
}

// DeleteAll wipes every marker of a venue.
func (b *Backend) DeleteAll(ctx context.Context, venueID string) error {
	return b.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Delete(&model.Marker{}).Error
}
