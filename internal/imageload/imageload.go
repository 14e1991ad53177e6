// Package imageload resolves venue background images. Only the decoded
// dimensions matter to the engine; pixel data stays with the host's
// renderer. Decoders for the formats the admin app accepts are
// registered via blank imports.
package imageload

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Dimensions is a decoded image's pixel size.
type Dimensions struct {
	Width  float64
	Height float64
}

// Canvas receives the outcome of a background image resolution.
type Canvas interface {
	SetBackgroundImage(width, height float64)
	BackgroundImageFailed()
}

// Loader fetches image headers over HTTP.
type Loader struct {
	client *http.Client
	log    zerolog.Logger
}

// New creates a Loader with a bounded request timeout.
func New(log zerolog.Logger) *Loader {
	return &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// Fetch downloads an image and reads its dimensions. The body is
// decoded header-only; full pixel data is never buffered.
func (l *Loader) Fetch(ctx context.Context, url string) (Dimensions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Dimensions{}, fmt.Errorf("building image request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Dimensions{}, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Dimensions{}, fmt.Errorf("image request returned status %d", resp.StatusCode)
	}

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, fmt.Errorf("image has degenerate dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return Dimensions{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}

// Resolve fetches the image in the background and reports the outcome
// to the canvas exactly once. A failed or absent image is the
// blank-canvas case, never an error surfaced to the user. The callback
// runs on a background goroutine; hosts marshal it onto their update
// loop along with other input.
func (l *Loader) Resolve(ctx context.Context, url string, canvas Canvas) {
	if url == "" {
		canvas.BackgroundImageFailed()
		return
	}
	go func() {
		dims, err := l.Fetch(ctx, url)
		if err != nil {
			l.log.Warn().Err(err).Str("url", url).Msg("background image unavailable, using blank canvas")
			canvas.BackgroundImageFailed()
			return
		}
		canvas.SetBackgroundImage(dims.Width, dims.Height)
	}()
}
