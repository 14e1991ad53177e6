// internal/storage/factory.go
package storage

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuekit/seatplan/internal/config"
	"github.com/venuekit/seatplan/internal/database"
	"github.com/venuekit/seatplan/internal/storage/memory"
	postgresstorage "github.com/venuekit/seatplan/internal/storage/postgres"
	sqlitestorage "github.com/venuekit/seatplan/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		// Unreachable Postgres degrades to local SQLite with disk
		// dumps rather than refusing to start.
		mgr := database.NewManager(log)
		if err := mgr.Connect(cfg.Postgres); err != nil {
			return nil, err
		}
		if mgr.ShouldSaveLocal {
			return sqlitestorage.NewWithDB(mgr.DB, sqliteConfig(cfg), log), nil
		}
		return postgresstorage.New(mgr.DB, log), nil
	case "sqlite":
		return sqlitestorage.New(sqliteConfig(cfg), log)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

func sqliteConfig(cfg config.StorageConfig) sqlitestorage.Config {
	return sqlitestorage.Config{
		DumpPath:     cfg.Sqlite.DumpPath,
		DumpInterval: time.Duration(cfg.Sqlite.DumpIntervalSeconds) * time.Second,
	}
}
