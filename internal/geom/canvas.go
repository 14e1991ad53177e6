// internal/geom/canvas.go
package geom

import "github.com/venuekit/seatplan/pkg/core"

// Canvas tracks which aspect ratio anchors the coordinate math: the
// background image's when one is loaded, or the fixed blank-canvas
// default otherwise.
//
// In blank-canvas mode the first nonzero container measurement is latched
// and reused for every subsequent conversion. Without an image there is
// nothing to anchor marker positions against, so a stable virtual canvas
// is manufactured instead; otherwise positions would drift every time the
// surrounding layout reflows.
type Canvas struct {
	imageLoaded bool
	imageAspect float64
	latched     core.Size
}

// NewCanvas returns a Canvas in blank-canvas mode.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// SetImage switches to image mode using the image's aspect ratio.
// Degenerate dimensions are ignored and the canvas stays in its current
// mode.
func (c *Canvas) SetImage(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.imageLoaded = true
	c.imageAspect = width / height
	c.latched = core.Size{}
}

// ClearImage returns to blank-canvas mode, dropping any latched
// measurement so the next one re-anchors the virtual canvas.
func (c *Canvas) ClearImage() {
	c.imageLoaded = false
	c.imageAspect = 0
	c.latched = core.Size{}
}

// HasImage reports whether a background image currently anchors the
// aspect ratio.
func (c *Canvas) HasImage() bool {
	return c.imageLoaded
}

// Aspect returns the active content aspect ratio.
func (c *Canvas) Aspect() float64 {
	if c.imageLoaded {
		return c.imageAspect
	}
	return DefaultAspectRatio
}

// Measure returns the Frame for the given container measurement. In image
// mode every measurement is honored. In blank-canvas mode the first valid
// measurement is latched and reused until an image becomes available.
func (c *Canvas) Measure(container core.Size) Frame {
	if c.imageLoaded {
		return Fit(container, c.imageAspect)
	}
	if !c.latched.IsValid() && container.IsValid() {
		c.latched = container
	}
	if c.latched.IsValid() {
		return Fit(c.latched, DefaultAspectRatio)
	}
	return Fit(container, DefaultAspectRatio)
}
