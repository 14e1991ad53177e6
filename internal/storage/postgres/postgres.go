// Package postgresstorage implements the storage.Backend interface
// against a Postgres server. It wraps the GORM backend via composition;
// the Postgres-specific concerns are the connection itself and the
// PostGIS extension required for the position column.
package postgresstorage

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	gormstorage "github.com/venuekit/seatplan/internal/storage/gorm"
)

// Backend wraps the GORM backend for Postgres-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a backend over an already-connected Postgres database.
func New(db *gorm.DB, log zerolog.Logger) *Backend {
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Log: log}),
		db:      db,
		log:     log,
	}
}

// Init installs PostGIS and migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis;`).Error; err != nil {
		return fmt.Errorf("failed to create PostGIS extension: %w", err)
	}
	return b.Backend.Init()
}
