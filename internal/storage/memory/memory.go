// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sync"

	"github.com/venuekit/seatplan/internal/config"
	"github.com/venuekit/seatplan/pkg/core"
)

// Backend stores layouts in memory and exports them to JSON files. It
// backs tests and offline editing sessions where no database exists.
type Backend struct {
	cfg config.MemoryConfig

	venues  map[string]*core.Venue
	markers map[string]*core.Marker // keyed by marker ID
	order   []string                // creation order for stable exports

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		venues:  make(map[string]*core.Venue),
		markers: make(map[string]*core.Marker),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveVenue inserts or replaces a venue.
func (b *Backend) SaveVenue(ctx context.Context, v *core.Venue) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := *v
	b.venues[v.ID] = &cp
	return nil
}

// LoadVenue fetches a venue by id.
func (b *Backend) LoadVenue(ctx context.Context, id string) (*core.Venue, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.venues[id]
	if !ok {
		return nil, errVenueNotFound
	}
	cp := *v
	return &cp, nil
}

// Load returns a venue's markers in creation order.
func (b *Backend) Load(ctx context.Context, venueID string) ([]*core.Marker, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*core.Marker
	for _, id := range b.order {
		m, ok := b.markers[id]
		if ok && m.VenueID == venueID {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

// Create stores a marker, replacing any existing one with the same id.
func (b *Backend) Create(ctx context.Context, m *core.Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.markers[m.ID]; !exists {
		b.order = append(b.order, m.ID)
	}
	b.markers[m.ID] = m.Clone()
	return nil
}

// UpdateCoordinates overwrites a marker's position and, when non-nil,
// its shape. Unknown ids are ignored; the marker may have been deleted
// while the write was queued.
func (b *Backend) UpdateCoordinates(ctx context.Context, id string, pos core.Position, shape *core.Shape) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.markers[id]
	if !ok {
		return nil
	}
	m.Position = pos
	if shape != nil {
		m.Shape = shape.Clone()
	}
	return nil
}

// BulkUpsert stores a batch of markers.
func (b *Backend) BulkUpsert(ctx context.Context, markers []*core.Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, m := range markers {
		if _, exists := b.markers[m.ID]; !exists {
			b.order = append(b.order, m.ID)
		}
		b.markers[m.ID] = m.Clone()
	}
	return nil
}

// Delete removes markers by id.
func (b *Backend) Delete(ctx context.Context, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range ids {
		b.removeLocked(id)
	}
	return nil
}

// DeleteAll wipes every marker of a venue.
func (b *Backend) DeleteAll(ctx context.Context, venueID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, m := range b.markers {
		if m.VenueID == venueID {
			b.removeLocked(id)
		}
	}
	return nil
}

func (b *Backend) removeLocked(id string) {
	if _, ok := b.markers[id]; !ok {
		return
	}
	delete(b.markers, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// LastExportPath returns the path of the most recent export, empty if
// none has been written.
func (b *Backend) LastExportPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
