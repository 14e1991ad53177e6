// Package store owns the in-session collection of placed markers and the
// selection state. Every pointer move may query the store, so lookups
// are map-backed with an insertion-order slice kept alongside for
// deterministic iteration.
package store

import (
	"errors"
	"sync"

	"github.com/venuekit/seatplan/internal/shape"
	"github.com/venuekit/seatplan/pkg/core"
)

// ErrMarkerNotFound is returned for operations addressed to an id the
// store does not hold. Callers treat it as a recoverable no-op.
var ErrMarkerNotFound = errors.New("marker not found")

// ErrDuplicateID is returned when adding a marker whose id is already
// present. Marker ids are unique within a store instance.
var ErrDuplicateID = errors.New("duplicate marker id")

// MarkerStore holds the markers of one editing session keyed by id.
type MarkerStore struct {
	mu      sync.RWMutex
	markers map[string]*core.Marker
	order   []string
}

// NewMarkerStore creates an empty store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		markers: make(map[string]*core.Marker),
	}
}

// Add inserts a marker. The stored copy is detached from the argument.
func (s *MarkerStore) Add(m *core.Marker) error {
	if m == nil || m.ID == "" {
		return ErrMarkerNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markers[m.ID]; ok {
		return ErrDuplicateID
	}
	s.markers[m.ID] = m.Clone()
	s.order = append(s.order, m.ID)
	return nil
}

// Remove deletes a marker by id.
func (s *MarkerStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *MarkerStore) removeLocked(id string) error {
	if _, ok := s.markers[id]; !ok {
		return ErrMarkerNotFound
	}
	delete(s.markers, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Update applies a mutator to the stored marker under the lock. The
// mutator sees the live copy, so it must not retain references.
func (s *MarkerStore) Update(id string, mutate func(*core.Marker)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.markers[id]
	if !ok {
		return ErrMarkerNotFound
	}
	mutate(m)
	return nil
}

// GetByID returns a detached copy of the marker.
func (s *MarkerStore) GetByID(id string) (*core.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markers[id]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// All returns detached copies of every marker in insertion order.
func (s *MarkerStore) All() []*core.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Marker, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.markers[id].Clone())
	}
	return out
}

// Len returns the number of markers held.
func (s *MarkerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// Clear removes every marker.
func (s *MarkerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = make(map[string]*core.Marker)
	s.order = nil
}

// QueryByRect returns the ids of markers whose anchor point lies inside
// the percentage-space rectangle, bounds inclusive, in insertion order.
// Only the anchor is tested, not the full shape extent: large shapes
// whose body overlaps the rect but whose anchor sits outside it are not
// returned.
func (s *MarkerStore) QueryByRect(rect core.Rect) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, id := range s.order {
		if rect.Contains(s.markers[id].Position) {
			ids = append(ids, id)
		}
	}
	return ids
}

// FindAt returns the topmost marker whose shape contains the
// percentage-space point. Markers added later sit above earlier ones.
// Markers without a shape are tested as the fallback circle.
func (s *MarkerStore) FindAt(p core.Position) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		m := s.markers[s.order[i]]
		if shape.Contains(m.Shape, m.Position, p) {
			return m.ID, true
		}
	}
	return "", false
}

// DeleteCascade removes the section marker and every seat marker whose
// section reference equals it, returning the removed ids. Seats
// referencing other sections are untouched.
func (s *MarkerStore) DeleteCascade(sectionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for _, id := range append([]string(nil), s.order...) {
		m := s.markers[id]
		if id == sectionID || m.SectionRef() == sectionID {
			if s.removeLocked(id) == nil {
				removed = append(removed, id)
			}
		}
	}
	return removed
}
