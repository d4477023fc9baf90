package tiling

import (
	"github.com/1broseidon/ribbonwm/internal/platform"
)

// Mapper converts virtual ribbon coordinates to screen rectangles. Tile
// widths are expressed in viewport pixels at the virtual layer; margins are
// applied only when mapping to the screen, so layout math never sees them.
type Mapper struct {
	ScreenWidth  int
	ScreenHeight int
	MarginH      int
	MarginV      int
}

// RowHeight is the virtual height of one row: a full screen.
func (m Mapper) RowHeight() int {
	return m.ScreenHeight
}

// ScreenRect maps a tile to its on-screen rectangle for the given viewport
// offsets. Each margin is split evenly across the two edges it insets, so
// adjacent tiles share a full margin of spacing.
func (m Mapper) ScreenRect(t *Tile, tileWidth, offsetX, offsetY int) platform.Rect {
	return platform.Rect{
		X:      t.X - offsetX + m.MarginH/2,
		Y:      t.Row*m.ScreenHeight - offsetY + m.MarginV/2,
		Width:  tileWidth - m.MarginH,
		Height: m.ScreenHeight - m.MarginV,
	}
}

// Visible reports whether any part of the rectangle intersects the screen.
func (m Mapper) Visible(r platform.Rect) bool {
	return r.X < m.ScreenWidth && r.X+r.Width > 0 &&
		r.Y < m.ScreenHeight && r.Y+r.Height > 0
}

// ClampRestoration pulls a restoration rectangle close enough to the screen
// that the window stays reachable after release. A rectangle outside the
// reachable band on either axis is recentered on the display instead of
// dragged to the nearest edge.
func (m Mapper) ClampRestoration(r platform.Rect) platform.Rect {
	const reach = 100

	minX := -r.Width + reach
	maxX := m.ScreenWidth - reach
	minY := -r.Height + reach
	maxY := m.ScreenHeight - reach

	if r.X < minX || r.X > maxX || r.Y < minY || r.Y > maxY {
		r.X = (m.ScreenWidth - r.Width) / 2
		r.Y = (m.ScreenHeight - r.Height) / 2
	}

	if r.X < minX {
		r.X = minX
	}
	if r.X > maxX {
		r.X = maxX
	}
	if r.Y < minY {
		r.Y = minY
	}
	if r.Y > maxY {
		r.Y = maxY
	}

	return r
}

// Reasonable reports whether a rectangle is sane enough to hand to the
// windowing layer. Degenerate or wildly off-screen rectangles are dropped.
func (m Mapper) Reasonable(r platform.Rect) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	const limit = 20000
	if r.X < -limit || r.X > limit || r.Y < -limit || r.Y > limit {
		return false
	}
	return true
}
