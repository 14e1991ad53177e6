// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"github.com/venuekit/seatplan/pkg/core"
)

// ErrNotSupported is returned by backends for operations outside their
// capability (e.g. loading from a stream-only backend).
var ErrNotSupported = errors.New("operation not supported by storage backend")

// Backend is the interface all storage implementations must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Venue management
	SaveVenue(ctx context.Context, v *core.Venue) error
	LoadVenue(ctx context.Context, id string) (*core.Venue, error)

	// Marker persistence
	Load(ctx context.Context, venueID string) ([]*core.Marker, error)
	Create(ctx context.Context, m *core.Marker) error
	UpdateCoordinates(ctx context.Context, id string, pos core.Position, shape *core.Shape) error
	BulkUpsert(ctx context.Context, markers []*core.Marker) error
	Delete(ctx context.Context, ids []string) error
	DeleteAll(ctx context.Context, venueID string) error
}

// Exporter is an optional interface for storage backends that produce
// layout snapshot files suitable for download or import elsewhere.
type Exporter interface {
	Export(ctx context.Context, venueID string) (string, error)
}
