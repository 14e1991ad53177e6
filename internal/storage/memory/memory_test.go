package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuekit/seatplan/internal/config"
	"github.com/venuekit/seatplan/pkg/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func seat(id, venueID string, x, y float64) *core.Marker {
	return &core.Marker{
		ID:       id,
		VenueID:  venueID,
		Position: core.Position{X: x, Y: y},
		Kind:     core.MarkerKindSeat,
		Seat:     &core.SeatInfo{Row: "A", Number: id},
	}
}

func TestCreateAndLoadPreservesOrder(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Create(ctx, seat("m1", "v1", 10, 10)))
	require.NoError(t, b.Create(ctx, seat("m2", "v1", 20, 20)))
	require.NoError(t, b.Create(ctx, seat("m3", "v2", 30, 30)))

	got, err := b.Load(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
}

func TestCreateIsUpsert(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Create(ctx, seat("m1", "v1", 10, 10)))
	require.NoError(t, b.Create(ctx, seat("m1", "v1", 55, 60)))

	got, err := b.Load(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, core.Position{X: 55, Y: 60}, got[0].Position)
}

func TestUpdateCoordinates(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	m := seat("m1", "v1", 10, 10)
	m.Shape = &core.Shape{Type: core.ShapeCircle, Radius: 2}
	require.NoError(t, b.Create(ctx, m))

	newShape := &core.Shape{Type: core.ShapeEllipse, Width: 4, Height: 2}
	require.NoError(t, b.UpdateCoordinates(ctx, "m1", core.Position{X: 70, Y: 80}, newShape))

	got, err := b.Load(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, core.Position{X: 70, Y: 80}, got[0].Position)
	assert.Equal(t, core.ShapeEllipse, got[0].Shape.Type)

	// Unknown id is a tolerated no-op: the marker may have been deleted
	// while the write was queued.
	require.NoError(t, b.UpdateCoordinates(ctx, "ghost", core.Position{}, nil))
}

func TestDeleteAndDeleteAll(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Create(ctx, seat("m1", "v1", 10, 10)))
	require.NoError(t, b.Create(ctx, seat("m2", "v1", 20, 20)))
	require.NoError(t, b.Create(ctx, seat("m3", "v2", 30, 30)))

	require.NoError(t, b.Delete(ctx, []string{"m1"}))
	got, _ := b.Load(ctx, "v1")
	require.Len(t, got, 1)

	require.NoError(t, b.DeleteAll(ctx, "v1"))
	got, _ = b.Load(ctx, "v1")
	assert.Empty(t, got)

	// Other venues untouched
	got, _ = b.Load(ctx, "v2")
	assert.Len(t, got, 1)
}

func TestLoadReturnsClones(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Create(ctx, seat("m1", "v1", 10, 10)))
	got, err := b.Load(ctx, "v1")
	require.NoError(t, err)

	got[0].Position.X = 99
	again, _ := b.Load(ctx, "v1")
	assert.Equal(t, 10.0, again[0].Position.X)
}

func TestVenueRoundTrip(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	v := &core.Venue{ID: "v1", Name: "Main Hall", ImageURL: "https://cdn/hall.png"}
	require.NoError(t, b.SaveVenue(ctx, v))

	got, err := b.LoadVenue(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, *v, *got)

	_, err = b.LoadVenue(ctx, "missing")
	assert.Error(t, err)
}
