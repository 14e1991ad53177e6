// Package viewport controls the view into the canvas: bounded zoom, pan
// accumulation, zoom-to-cursor math, and the virtualization of large
// marker sets to the visible area.
package viewport

import (
	"github.com/venuekit/seatplan/internal/geom"
	"github.com/venuekit/seatplan/pkg/core"
)

// DefaultLowDetailThreshold is the zoom level below which markers should
// render in their simplified representation.
const DefaultLowDetailThreshold = 0.4

// Config bounds and scales the zoom controls.
type Config struct {
	MinZoom            float64
	MaxZoom            float64
	ZoomStep           float64 // additive step for toolbar buttons
	WheelFactor        float64 // multiplicative factor per wheel tick
	LowDetailThreshold float64
}

// DefaultConfig returns the stock viewport tuning.
func DefaultConfig() Config {
	return Config{
		MinZoom:            0.1,
		MaxZoom:            5,
		ZoomStep:           0.25,
		WheelFactor:        1.1,
		LowDetailThreshold: DefaultLowDetailThreshold,
	}
}

// LowDetail is the pure low-detail decision: true below the threshold.
// It lives apart from any renderer so it stays deterministic and
// testable; the rendering layer only consumes the boolean.
func LowDetail(zoom, threshold float64) bool {
	return zoom < threshold
}

// Controller holds the current zoom level and pan offset.
type Controller struct {
	cfg  Config
	zoom float64
	pan  core.Position
}

// NewController creates a controller at zoom 1 with no pan.
func NewController(cfg Config) *Controller {
	if cfg.MinZoom <= 0 || cfg.MaxZoom <= cfg.MinZoom {
		cfg = DefaultConfig()
	}
	return &Controller{cfg: cfg, zoom: 1}
}

// Zoom returns the current zoom level.
func (c *Controller) Zoom() float64 { return c.zoom }

// Pan returns the current pan offset in content-space pixels.
func (c *Controller) Pan() core.Position { return c.pan }

// SetZoom clamps and stores a zoom level.
func (c *Controller) SetZoom(z float64) {
	c.zoom = c.clamp(z)
}

// ZoomIn raises zoom by one toolbar step.
func (c *Controller) ZoomIn() { c.SetZoom(c.zoom + c.cfg.ZoomStep) }

// ZoomOut lowers zoom by one toolbar step.
func (c *Controller) ZoomOut() { c.SetZoom(c.zoom - c.cfg.ZoomStep) }

// PanBy accumulates a pixel delta, used while panning.
func (c *Controller) PanBy(dx, dy float64) {
	c.pan.X += dx
	c.pan.Y += dy
}

// ResetView restores zoom 1 and zero pan.
func (c *Controller) ResetView() {
	c.zoom = 1
	c.pan = core.Position{}
}

// LowDetail reports the current low-detail decision.
func (c *Controller) LowDetail() bool {
	return LowDetail(c.zoom, c.cfg.LowDetailThreshold)
}

// ZoomAt changes zoom by a multiplicative factor while keeping the
// content point under the pointer stationary on screen. The layer point
// under the cursor is captured before the change, then the pan offset is
// solved so the same point maps back to the same pixel afterwards.
func (c *Controller) ZoomAt(pointer core.Position, factor float64, frame geom.Frame) {
	if factor <= 0 {
		return
	}
	layer := frame.StageToLayer(pointer, c.zoom, c.pan)

	c.zoom = c.clamp(c.zoom * factor)

	// stage = center + pan + (layer - center) * zoom  ==  pointer
	cx := frame.Container.Width / 2
	cy := frame.Container.Height / 2
	c.pan.X = pointer.X - cx - (layer.X-cx)*c.zoom
	c.pan.Y = pointer.Y - cy - (layer.Y-cy)*c.zoom
}

// WheelZoom applies one wheel tick at the pointer. Negative delta (wheel
// up) zooms in.
func (c *Controller) WheelZoom(pointer core.Position, deltaY float64, frame geom.Frame) {
	factor := c.cfg.WheelFactor
	if deltaY > 0 {
		factor = 1 / factor
	}
	c.ZoomAt(pointer, factor, frame)
}

func (c *Controller) clamp(z float64) float64 {
	if z < c.cfg.MinZoom {
		return c.cfg.MinZoom
	}
	if z > c.cfg.MaxZoom {
		return c.cfg.MaxZoom
	}
	return z
}
