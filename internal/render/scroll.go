package render

import (
	"image"
	"time"
)

const defaultScrollSpeed = 20.0

// Scroller translates elapsed wall time into a horizontal offset that wraps
// around the strip, so the ticker loops seamlessly.
type Scroller struct {
	viewWidth int
	speed     float64 // pixels per second
	start     time.Time
	now       func() time.Time
}

// NewScroller constructs a Scroller for a display viewWidth pixels wide.
func NewScroller(viewWidth int, pixelsPerSecond float64) *Scroller {
	if pixelsPerSecond <= 0 {
		pixelsPerSecond = defaultScrollSpeed
	}
	return &Scroller{
		viewWidth: viewWidth,
		speed:     pixelsPerSecond,
		start:     time.Now(),
		now:       time.Now,
	}
}

// Offset returns the current left edge of the viewport within a strip of the
// given width. The strip is treated as circular.
func (s *Scroller) Offset(stripWidth int) int {
	if stripWidth <= 0 {
		return 0
	}
	elapsed := s.now().Sub(s.start).Seconds()
	return int(elapsed*s.speed) % stripWidth
}

// Viewport crops a display-sized frame from the strip at the given offset,
// wrapping around the right edge so the scroll never shows a seam.
func (s *Scroller) Viewport(strip *image.RGBA, offset int) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, s.viewWidth, strip.Bounds().Dy()))
	stripWidth := strip.Bounds().Dx()
	if stripWidth == 0 {
		return frame
	}
	for x := 0; x < s.viewWidth; x++ {
		srcX := (offset + x) % stripWidth
		for y := 0; y < strip.Bounds().Dy(); y++ {
			frame.Set(x, y, strip.At(srcX, y))
		}
	}
	return frame
}
