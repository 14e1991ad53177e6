package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// withManualReader points the global meter provider at a manual reader
// for the duration of the test so counter values can be collected.
func withManualReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(prev) })
	return reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s has data %T, want Sum[int64]", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestPublishCountsSynchronousDeliveries(t *testing.T) {
	reader := withManualReader(t)
	d, _ := newTestDispatcher(t)

	d.Subscribe("shapeCommitted", func(Event) error { return nil })
	for i := 0; i < 3; i++ {
		d.Publish(Event{Name: "shapeCommitted"})
	}
	// Events without subscribers are discarded, not published.
	d.Publish(Event{Name: "nobodyListens"})

	if got := counterValue(t, reader, "designer.events.published"); got != 3 {
		t.Fatalf("published = %d, want 3", got)
	}
}

func TestPublishDoesNotCountFailedHandlers(t *testing.T) {
	reader := withManualReader(t)
	d, _ := newTestDispatcher(t)

	d.Subscribe("markerClicked", func(Event) error { return errors.New("host rejected") })
	d.Subscribe("markerClicked", func(Event) error { return nil })
	d.Publish(Event{Name: "markerClicked"})

	if got := counterValue(t, reader, "designer.events.published"); got != 1 {
		t.Fatalf("published = %d, want 1", got)
	}
}

func TestDroppedEventsCountAsDroppedNotPublished(t *testing.T) {
	reader := withManualReader(t)
	d, _ := newTestDispatcher(t)

	release := make(chan struct{})
	d.Subscribe("selectionChanged", func(Event) error {
		<-release
		return nil
	}, Buffered(1))

	// First event occupies the worker, second fills the buffer, third
	// has nowhere to go.
	d.Publish(Event{Name: "selectionChanged"})
	d.Publish(Event{Name: "selectionChanged"})
	deadline := time.After(2 * time.Second)
	for counterValue(t, reader, "designer.events.dropped") == 0 {
		select {
		case <-deadline:
			t.Fatal("drop counter never incremented")
		default:
			d.Publish(Event{Name: "selectionChanged"})
			time.Sleep(time.Millisecond)
		}
	}
	close(release)

	published := counterValue(t, reader, "designer.events.published")
	if published < 2 {
		t.Fatalf("published = %d, want at least the 2 accepted events", published)
	}
}
