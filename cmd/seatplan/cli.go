package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/venuekit/seatplan/internal/storage"
	"github.com/venuekit/seatplan/internal/storage/memory"
	"github.com/venuekit/seatplan/pkg/core"
)

const (
	defaultSeedRows        = 8
	defaultSeedSeatsPerRow = 12
)

// seedVenue fills a venue with a grid of seats around a stage section so
// a fresh backend has something to edit.
func seedVenue(ctx context.Context, backend storage.Backend, logger zerolog.Logger, venueID string, extra []string) error {
	rows := defaultSeedRows
	perRow := defaultSeedSeatsPerRow
	var err error
	if len(extra) > 0 {
		if rows, err = strconv.Atoi(extra[0]); err != nil {
			return fmt.Errorf("rows must be a number: %w", err)
		}
	}
	if len(extra) > 1 {
		if perRow, err = strconv.Atoi(extra[1]); err != nil {
			return fmt.Errorf("seatsPerRow must be a number: %w", err)
		}
	}
	if rows < 1 || perRow < 1 {
		return fmt.Errorf("rows and seatsPerRow must be positive")
	}

	txStart := time.Now()
	venue := &core.Venue{ID: venueID, Name: "Seeded venue " + venueID}
	if err := backend.SaveVenue(ctx, venue); err != nil {
		return fmt.Errorf("saving venue: %w", err)
	}

	sectionID := uuid.NewString()
	markers := []*core.Marker{
		{
			ID:       sectionID,
			VenueID:  venueID,
			Kind:     core.MarkerKindSection,
			Position: core.Position{X: 50, Y: 12},
			Shape: &core.Shape{
				Type:   core.ShapeRectangle,
				Width:  60,
				Height: 12,
			},
			Section: &core.SectionInfo{Name: "Stage"},
		},
	}

	// Seats occupy the band from 30% to 90% of the canvas height, leaving
	// room above for the stage.
	for r := 0; r < rows; r++ {
		rowLabel := string(rune('A' + r%26))
		y := 30.0 + 60.0*float64(r)/float64(rows)
		for n := 0; n < perRow; n++ {
			x := 50.0
			if perRow > 1 {
				x = 10.0 + 80.0*float64(n)/float64(perRow-1)
			}
			markers = append(markers, &core.Marker{
				ID:       uuid.NewString(),
				VenueID:  venueID,
				Kind:     core.MarkerKindSeat,
				Position: core.Position{X: x, Y: y},
				Seat: &core.SeatInfo{
					SectionID: sectionID,
					Row:       rowLabel,
					Number:    strconv.Itoa(n + 1),
					SeatKind:  "standard",
				},
			})
		}
	}

	if err := backend.BulkUpsert(ctx, markers); err != nil {
		return fmt.Errorf("writing seed markers: %w", err)
	}

	logger.Info().
		Str("venue", venueID).
		Int("markers", len(markers)).
		Dur("took", time.Since(txStart)).
		Msg("Seeded venue layout")
	return nil
}

// exportVenue writes a venue's full layout to disk. Backends that
// implement their own export path are preferred; the rest get a gzipped
// JSON snapshot assembled here.
func exportVenue(ctx context.Context, backend storage.Backend, logger zerolog.Logger, venueID string) error {
	if exporter, ok := backend.(storage.Exporter); ok {
		path, err := exporter.Export(ctx, venueID)
		if err != nil {
			return err
		}
		logger.Info().Str("venue", venueID).Str("path", path).Msg("Exported venue layout")
		return nil
	}

	txStart := time.Now()
	venue, err := backend.LoadVenue(ctx, venueID)
	if err != nil {
		return fmt.Errorf("loading venue: %w", err)
	}
	markers, err := backend.Load(ctx, venueID)
	if err != nil {
		return fmt.Errorf("loading markers: %w", err)
	}

	export := memory.LayoutExport{
		FormatVersion: 1,
		ExportedAt:    time.Now().UTC(),
		Venue:         *venue,
		Markers:       markers,
	}
	payload, err := json.Marshal(export)
	if err != nil {
		return fmt.Errorf("marshalling layout: %w", err)
	}

	fileName := fmt.Sprintf("%s_%s.json.gz", venue.Name, sessionStart.Format("20060102_150405"))
	fileName = strings.ReplaceAll(fileName, " ", "_")
	fileName = strings.ReplaceAll(fileName, ":", "_")
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	gzWriter := gzip.NewWriter(f)
	defer func() { _ = gzWriter.Close() }()
	if _, err = gzWriter.Write(payload); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	logger.Info().
		Str("venue", venueID).
		Str("path", fileName).
		Int("markers", len(markers)).
		Dur("took", time.Since(txStart)).
		Msg("Exported venue layout")
	return nil
}

// importVenue loads a layout export file (plain or gzipped JSON) and
// replaces the venue's markers with its contents.
func importVenue(ctx context.Context, backend storage.Backend, logger zerolog.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		defer func() { _ = gzReader.Close() }()
		reader = gzReader
	}

	var export memory.LayoutExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return fmt.Errorf("decoding layout export: %w", err)
	}
	if export.Venue.ID == "" {
		return fmt.Errorf("layout export has no venue id")
	}

	if err := backend.SaveVenue(ctx, &export.Venue); err != nil {
		return fmt.Errorf("saving venue: %w", err)
	}
	if err := backend.DeleteAll(ctx, export.Venue.ID); err != nil {
		return fmt.Errorf("clearing existing markers: %w", err)
	}
	if err := backend.BulkUpsert(ctx, export.Markers); err != nil {
		return fmt.Errorf("writing imported markers: %w", err)
	}

	logger.Info().
		Str("venue", export.Venue.ID).
		Int("markers", len(export.Markers)).
		Msg("Imported venue layout")
	return nil
}

// wipeVenue deletes every marker for a venue. The venue row itself is
// kept so a subsequent seed or import reuses it.
func wipeVenue(ctx context.Context, backend storage.Backend, logger zerolog.Logger, venueID string) error {
	if err := backend.DeleteAll(ctx, venueID); err != nil {
		return fmt.Errorf("wiping venue: %w", err)
	}
	logger.Info().Str("venue", venueID).Msg("Wiped venue markers")
	return nil
}
