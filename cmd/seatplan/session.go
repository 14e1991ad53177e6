package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuekit/seatplan/internal/config"
	"github.com/venuekit/seatplan/internal/dispatcher"
	"github.com/venuekit/seatplan/internal/draw"
	"github.com/venuekit/seatplan/internal/geom"
	"github.com/venuekit/seatplan/internal/imageload"
	"github.com/venuekit/seatplan/internal/interaction"
	"github.com/venuekit/seatplan/internal/logging"
	"github.com/venuekit/seatplan/internal/storage"
	"github.com/venuekit/seatplan/internal/store"
	"github.com/venuekit/seatplan/internal/telemetry"
	"github.com/venuekit/seatplan/internal/viewport"
	"github.com/venuekit/seatplan/internal/worker"
	"github.com/venuekit/seatplan/pkg/core"
)

// runScriptedSession drives the interaction engine against a live
// backend the way an embedding host would: hydrate, perform a fixed
// series of gestures, and let the write-behind worker persist the
// results. It doubles as a deployment smoke test.
func runScriptedSession(
	ctx context.Context,
	backend storage.Backend,
	logger zerolog.Logger,
	metrics *telemetry.Manager,
	venueID string,
) error {
	sessionBegin := time.Now()

	engineCfg, err := config.Engine()
	if err != nil {
		return fmt.Errorf("reading engine config: %w", err)
	}

	events, err := dispatcher.New(logging.NewDispatcherLogger(logger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	events.Subscribe(interaction.EventShapeCommitted, func(e dispatcher.Event) error {
		if p, ok := e.Payload.(interaction.ShapeCommitted); ok {
			logger.Info().
				Str("marker", p.MarkerID).
				Str("shape", string(p.Shape.Type)).
				Float64("x", p.X).Float64("y", p.Y).
				Msg("Shape committed")
		}
		return nil
	})
	events.Subscribe(interaction.EventSelectionChanged, func(e dispatcher.Event) error {
		if p, ok := e.Payload.(interaction.SelectionChanged); ok {
			logger.Debug().Int("count", len(p.IDs)).Msg("Selection changed")
		}
		return nil
	})

	writer := worker.NewManager(backend, logger, worker.DefaultFlushInterval)
	if metrics != nil {
		writer.SetFlushObserver(func(upserts, deletes, queued int) {
			point := telemetry.FlushPoint(venueID, upserts, deletes, queued)
			if err := metrics.WritePoint(ctx, "editor_performance", point); err != nil {
				logger.Warn().Err(err).Msg("Failed to record flush metrics")
			}
		})
	}
	writer.Start()

	virtualizer := viewport.NewVirtualizer()
	if engineCfg.VirtualizeThreshold > 0 {
		virtualizer.Threshold = engineCfg.VirtualizeThreshold
	}
	if engineCfg.VisiblePadding > 0 {
		virtualizer.Padding = engineCfg.VisiblePadding
	}

	machine := interaction.NewMachine(interaction.Dependencies{
		Store:     store.NewMarkerStore(),
		Selection: store.NewSelectionManager(),
		View: viewport.NewController(viewport.Config{
			MinZoom:            engineCfg.MinZoom,
			MaxZoom:            engineCfg.MaxZoom,
			ZoomStep:           engineCfg.ZoomStep,
			WheelFactor:        engineCfg.WheelFactor,
			LowDetailThreshold: engineCfg.LowDetailThreshold,
		}),
		Virtualizer: virtualizer,
		Canvas:      geom.NewCanvas(),
		Events:      events,
		Logger:      logging.NewDispatcherLogger(logger),
		Sink:        writer,
	})
	machine.SetVenue(venueID)
	machine.SetContainerSize(core.Size{Width: 1280, Height: 800})

	venue, err := backend.LoadVenue(ctx, venueID)
	if err != nil {
		venue = &core.Venue{ID: venueID, Name: "Session venue " + venueID}
		if err := backend.SaveVenue(ctx, venue); err != nil {
			return fmt.Errorf("creating venue: %w", err)
		}
	} else {
		logger.Info().Str("venue", venue.Name).Msg("Loaded venue")
	}

	// The scripted session is single-threaded, so the background image
	// is resolved inline rather than through the async path.
	if venue.ImageURL != "" {
		dims, err := imageload.New(logger).Fetch(ctx, venue.ImageURL)
		if err != nil {
			logger.Warn().Err(err).Str("url", venue.ImageURL).Msg("Background image unavailable, using blank canvas")
			machine.BackgroundImageFailed()
		} else {
			machine.SetBackgroundImage(dims.Width, dims.Height)
			logger.Info().
				Float64("width", dims.Width).Float64("height", dims.Height).
				Msg("Background image resolved")
		}
	}

	existing, err := backend.Load(ctx, venueID)
	if err != nil {
		return fmt.Errorf("loading markers: %w", err)
	}
	machine.Hydrate(existing)
	logger.Info().Int("markers", len(existing)).Msg("Hydrated layout")

	// Draw a rectangular section across the top of the canvas.
	gestureStart := time.Now()
	machine.SetTool(draw.ToolRectangle)
	machine.PointerDown(interaction.PointerEvent{Position: core.Position{X: 200, Y: 80}})
	machine.PointerMove(interaction.PointerEvent{Position: core.Position{X: 700, Y: 120}})
	machine.PointerMove(interaction.PointerEvent{Position: core.Position{X: 1000, Y: 180}})
	machine.PointerUp(interaction.PointerEvent{Position: core.Position{X: 1000, Y: 180}})
	recordGesture(ctx, metrics, logger, venueID, "draw_shape", gestureStart)

	// Place a short row of seats beneath it.
	machine.SetPlacement(core.MarkerKindSeat)
	for i := 0; i < 5; i++ {
		p := core.Position{X: 300 + float64(i)*120, Y: 400}
		machine.PointerDown(interaction.PointerEvent{Position: p})
		machine.PointerUp(interaction.PointerEvent{Position: p})
	}
	machine.SetTool(draw.ToolNone)

	// Marquee-select everything placed so far, then nudge it.
	gestureStart = time.Now()
	machine.PointerDown(interaction.PointerEvent{Position: core.Position{X: 100, Y: 50}})
	machine.PointerMove(interaction.PointerEvent{Position: core.Position{X: 1100, Y: 500}})
	machine.PointerUp(interaction.PointerEvent{Position: core.Position{X: 1100, Y: 500}})
	recordGesture(ctx, metrics, logger, venueID, "marquee", gestureStart)

	visible := machine.VisibleMarkers(0)
	logger.Info().
		Int("visible", len(visible)).
		Bool("lowDetail", machine.LowDetail()).
		Msg("Session layout state")

	stopCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := writer.Stop(stopCtx); err != nil {
		return fmt.Errorf("flushing pending writes: %w", err)
	}

	persisted, err := backend.Load(ctx, venueID)
	if err != nil {
		return fmt.Errorf("reloading markers: %w", err)
	}
	logger.Info().
		Int("persisted", len(persisted)).
		Dur("took", time.Since(sessionBegin)).
		Msg("Scripted session complete")

	if metrics != nil {
		point := telemetry.SessionPoint(venueID, len(persisted), time.Since(sessionBegin))
		if err := metrics.WritePoint(ctx, "editor_sessions", point); err != nil {
			logger.Warn().Err(err).Msg("Failed to record session metrics")
		}
	}
	return nil
}

func recordGesture(ctx context.Context, metrics *telemetry.Manager, logger zerolog.Logger, venueID, kind string, start time.Time) {
	if metrics == nil {
		return
	}
	point := telemetry.GesturePoint(venueID, kind, float64(time.Since(start).Microseconds())/1000)
	if err := metrics.WritePoint(ctx, "editor_performance", point); err != nil {
		logger.Warn().Err(err).Msg("Failed to record gesture metrics")
	}
}
