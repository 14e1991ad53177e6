// Package worker persists marker mutations in the background. The
// interaction machine hands it committed mutations synchronously; the
// worker queues them and writes batches to the storage backend so
// pointer handling never waits on a database.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/venuekit/seatplan/internal/queue"
	"github.com/venuekit/seatplan/internal/storage"
	"github.com/venuekit/seatplan/pkg/core"
)

const instrumentationName = "github.com/venuekit/seatplan/internal/worker"

// DefaultFlushInterval is how often queued mutations are written out.
const DefaultFlushInterval = 500 * time.Millisecond

type opKind int

const (
	opUpsert opKind = iota
	opDelete
)

type mutation struct {
	kind   opKind
	marker *core.Marker
	ids    []string
}

// Manager drains queued mutations to a storage backend.
type Manager struct {
	backend storage.Backend
	log     zerolog.Logger

	queue         *queue.Queue[mutation]
	flushInterval time.Duration

	flushed metric.Int64Counter
	failed  metric.Int64Counter

	observer func(upserts, deletes, queued int)

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewManager creates a worker manager. Start must be called before
// mutations are persisted.
func NewManager(backend storage.Backend, log zerolog.Logger, flushInterval time.Duration) *Manager {
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	m := &Manager{
		backend:       backend,
		log:           log,
		queue:         queue.New[mutation](),
		flushInterval: flushInterval,
		wake:          make(chan struct{}, 1),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	meter := otel.Meter(instrumentationName)
	var err error
	m.flushed, err = meter.Int64Counter(
		"designer.persistence.flushed",
		metric.WithDescription("Total mutations written to the storage backend"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create flush counter")
	}
	m.failed, err = meter.Int64Counter(
		"designer.persistence.failed",
		metric.WithDescription("Total batch writes that returned an error"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create failure counter")
	}

	return m
}

// MarkerCreated queues a full row write for a new marker.
func (m *Manager) MarkerCreated(mk *core.Marker) {
	m.queue.Push(mutation{kind: opUpsert, marker: mk})
	m.signal()
}

// MarkerUpdated queues a full row write for a moved or reshaped marker.
func (m *Manager) MarkerUpdated(mk *core.Marker) {
	m.queue.Push(mutation{kind: opUpsert, marker: mk})
	m.signal()
}

// MarkersDeleted queues a delete for the given ids.
func (m *Manager) MarkersDeleted(ids []string) {
	m.queue.Push(mutation{kind: opDelete, ids: ids})
	m.signal()
}

// SetFlushObserver registers a callback invoked after every non-empty
// flush with the batch sizes and remaining queue depth. Call before
// Start; the callback runs on the flush goroutine.
func (m *Manager) SetFlushObserver(fn func(upserts, deletes, queued int)) {
	m.observer = fn
}

// QueueLen reports the number of mutations awaiting a flush.
func (m *Manager) QueueLen() int {
	return m.queue.Len()
}

// Start launches the background flush loop.
func (m *Manager) Start() {
	go m.run()
}

// Stop flushes remaining mutations and shuts the loop down. The context
// bounds the final flush.
func (m *Manager) Stop(ctx context.Context) error {
	close(m.stop)
	select {
	case <-m.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (m *Manager) count(ctx context.Context, c metric.Int64Counter, n int64) {
	if c != nil {
		c.Add(ctx, n)
	}
}

func (m *Manager) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Manager) run() {
	defer close(m.done)
	ticker := time.NewTicker(m.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Flush(context.Background())
		case <-m.wake:
			m.Flush(context.Background())
		case <-m.stop:
			m.Flush(context.Background())
			return
		}
	}
}

// Flush drains the queue and writes the coalesced batch. Multiple
// writes to one marker collapse to the latest; a delete supersedes any
// earlier write in the same batch.
func (m *Manager) Flush(ctx context.Context) {
	pending := m.queue.GetAndEmpty()
	if len(pending) == 0 {
		return
	}

	upserts := make(map[string]*core.Marker)
	var order []string
	var deletes []string

	for _, mut := range pending {
		switch mut.kind {
		case opUpsert:
			if _, seen := upserts[mut.marker.ID]; !seen {
				order = append(order, mut.marker.ID)
			}
			upserts[mut.marker.ID] = mut.marker
		case opDelete:
			for _, id := range mut.ids {
				if _, seen := upserts[id]; seen {
					delete(upserts, id)
				}
				deletes = append(deletes, id)
			}
		}
	}

	batch := make([]*core.Marker, 0, len(upserts))
	for _, id := range order {
		if mk, ok := upserts[id]; ok {
			batch = append(batch, mk)
		}
	}

	start := time.Now()
	if err := m.backend.BulkUpsert(ctx, batch); err != nil {
		m.log.Error().Err(err).Int("count", len(batch)).Msg("failed to persist marker batch")
		m.count(ctx, m.failed, 1)
	} else {
		m.count(ctx, m.flushed, int64(len(batch)))
	}
	if len(deletes) > 0 {
		if err := m.backend.Delete(ctx, deletes); err != nil {
			m.log.Error().Err(err).Int("count", len(deletes)).Msg("failed to delete markers")
			m.count(ctx, m.failed, 1)
		} else {
			m.count(ctx, m.flushed, int64(len(deletes)))
		}
	}
	m.log.Debug().
		Int("upserts", len(batch)).
		Int("deletes", len(deletes)).
		Dur("duration", time.Since(start)).
		Msg("flushed marker mutations")

	if m.observer != nil {
		m.observer(len(batch), len(deletes), m.queue.Len())
	}
}
