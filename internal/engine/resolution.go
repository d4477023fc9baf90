package engine

import (
	"fmt"
	"time"
)

// checkResolutionLocked polls the primary display and repacks on a size
// change. Tiles are repositioned immediately with no animation; a display
// change is not a transition worth smoothing.
func (e *Engine) checkResolutionLocked(now time.Time) {
	width, height, err := e.backend.DisplaySize()
	if err != nil {
		return
	}
	if width == e.mapper.ScreenWidth && height == e.mapper.ScreenHeight {
		return
	}
	if width <= 0 || height <= 0 {
		return
	}

	oldWidth := e.mapper.ScreenWidth
	e.logger.Info("display changed, repacking",
		"from", fmt.Sprintf("%dx%d", oldWidth, e.mapper.ScreenHeight),
		"to", fmt.Sprintf("%dx%d", width, height))

	e.mapper.ScreenWidth = width
	e.mapper.ScreenHeight = height

	// Repack every row at the new tile width, preserving per-row order.
	e.ribbon.SetViewportWidth(width)
	e.ribbon.Recalculate()
	e.recalcPending = false

	// Keep the same part of the ribbon in view at the new width.
	e.viewport.Rescale(oldWidth, width, e.ribbon.MaxExtent())
	e.viewport.Height = height
	e.viewport.TargetY = e.viewport.CurrentRow * height
	e.viewport.OffsetY = e.viewport.TargetY

	// Snap, don't glide.
	e.scroll = nil
	for _, m := range e.windows {
		if !m.exiting {
			m.anim = nil
		}
	}
	e.applyLocked(now)
}
