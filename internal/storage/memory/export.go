// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/venuekit/seatplan/pkg/core"
)

var errVenueNotFound = errors.New("venue not found")

// LayoutExport is the root JSON structure of an exported layout.
type LayoutExport struct {
	FormatVersion int            `json:"formatVersion"`
	ExportedAt    time.Time      `json:"exportedAt"`
	Venue         core.Venue     `json:"venue"`
	Markers       []*core.Marker `json:"markers"`
}

// Export writes a venue's layout to a JSON file (gzipped when
// configured) and returns the file path.
func (b *Backend) Export(ctx context.Context, venueID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	venue, ok := b.venues[venueID]
	if !ok {
		return "", errVenueNotFound
	}

	export := LayoutExport{
		FormatVersion: 1,
		ExportedAt:    time.Now().UTC(),
		Venue:         *venue,
	}
	for _, id := range b.order {
		m, ok := b.markers[id]
		if ok && m.VenueID == venueID {
			export.Markers = append(export.Markers, m.Clone())
		}
	}

	// Build filename
	name := strings.ReplaceAll(venue.Name, " ", "_")
	if name == "" {
		name = venue.ID
	}
	timestamp := export.ExportedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return "", err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return "", err
		}
	}

	b.lastExportPath = outputPath
	return outputPath, nil
}

// Import reads a layout export back into the backend, replacing the
// venue's existing markers.
func (b *Backend) Import(ctx context.Context, path string) (*LayoutExport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	var export LayoutExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("failed to parse export file: %w", err)
	}

	if err := b.SaveVenue(ctx, &export.Venue); err != nil {
		return nil, err
	}
	if err := b.DeleteAll(ctx, export.Venue.ID); err != nil {
		return nil, err
	}
	if err := b.BulkUpsert(ctx, export.Markers); err != nil {
		return nil, err
	}
	return &export, nil
}

func writeJSON(path string, export LayoutExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, export LayoutExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(export); err != nil {
		gz.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	return gz.Close()
}
