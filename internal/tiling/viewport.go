package tiling

// Viewport owns the scroll offsets onto the ribbon and the clamping rules
// for panning and centering. Offsets and targets are separate so the
// animation layer can glide the offsets toward the targets.
type Viewport struct {
	Width  int
	Height int

	OffsetX int
	TargetX int

	OffsetY    int
	TargetY    int
	CurrentRow int
}

// NewViewport creates a viewport of the given dimensions at the origin.
func NewViewport(width, height int) *Viewport {
	return &Viewport{Width: width, Height: height}
}

// MaxOffsetX returns the largest legal horizontal offset for the given
// ribbon extent.
func (v *Viewport) MaxOffsetX(extent int) int {
	max := extent - v.Width
	if max < 0 {
		max = 0
	}
	return max
}

// ClampX saturates a horizontal offset to the legal range.
func (v *Viewport) ClampX(x, extent int) int {
	if x < 0 {
		return 0
	}
	if max := v.MaxOffsetX(extent); x > max {
		return max
	}
	return x
}

// ClampRow saturates a row index. One empty row past the highest occupied
// row stays reachable so new tiles can be started there.
func (v *Viewport) ClampRow(row, maxOccupiedRow int) int {
	if row < 0 {
		return 0
	}
	limit := maxOccupiedRow + 1
	if limit < 0 {
		limit = 0
	}
	if row > limit {
		return limit
	}
	return row
}

// PanHorizontal steps the horizontal target by half the viewport width.
// Returns false when already at the clamped extreme.
func (v *Viewport) PanHorizontal(dir Direction, extent int) bool {
	step := v.Width / 2
	if dir == DirLeft {
		step = -step
	}
	next := v.ClampX(v.TargetX+step, extent)
	if next == v.TargetX {
		return false
	}
	v.TargetX = next
	return true
}

// PanRow steps the current row by one. Returns false at the clamped edge.
func (v *Viewport) PanRow(dir Direction, maxOccupiedRow int) bool {
	step := 1
	if dir == DirUp {
		step = -1
	}
	next := v.ClampRow(v.CurrentRow+step, maxOccupiedRow)
	if next == v.CurrentRow {
		return false
	}
	v.CurrentRow = next
	v.TargetY = next * v.Height
	return true
}

// CenterOn sets both targets so the tile's center aligns with the viewport
// center, clamped to bounds.
func (v *Viewport) CenterOn(t *Tile, tileWidth, extent, maxOccupiedRow int) {
	v.TargetX = v.ClampX(t.X+tileWidth/2-v.Width/2, extent)
	v.CurrentRow = v.ClampRow(t.Row, maxOccupiedRow)
	v.TargetY = v.CurrentRow * v.Height
}

// SpanVisible reports whether a virtual x-interval lies fully inside the
// horizontal viewport at the current target offset.
func (v *Viewport) SpanVisible(start, end int) bool {
	return start >= v.TargetX && end <= v.TargetX+v.Width
}

// Settle snaps offsets to their targets. Used when repositioning without
// animation and at scroll completion.
func (v *Viewport) Settle() {
	v.OffsetX = v.TargetX
	v.OffsetY = v.TargetY
}

// Moving reports whether the offsets have not yet reached their targets.
func (v *Viewport) Moving() bool {
	return v.OffsetX != v.TargetX || v.OffsetY != v.TargetY
}

// Reset returns the viewport to the origin. Used when the last tile leaves.
func (v *Viewport) Reset() {
	v.OffsetX, v.TargetX = 0, 0
	v.OffsetY, v.TargetY = 0, 0
	v.CurrentRow = 0
}

// Rescale adjusts the horizontal offsets by a resolution-change ratio so
// the same tiles stay in view at the new width.
func (v *Viewport) Rescale(oldWidth, newWidth int, extent int) {
	if oldWidth <= 0 {
		return
	}
	v.Width = newWidth
	v.TargetX = v.ClampX(v.TargetX*newWidth/oldWidth, extent)
	v.OffsetX = v.TargetX
}
