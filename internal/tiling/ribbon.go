package tiling

import (
	"sort"

	"github.com/1broseidon/ribbonwm/internal/platform"
)

// Ribbon owns the set of managed tiles and their virtual coordinates.
// It is pure layout math: no windowing calls, no clocks, no locks. The
// caller serializes access.
type Ribbon struct {
	tiles  []*Tile
	packer Packer
	width  int // viewport width, drives tile pixel widths
}

// NewRibbon creates an empty layout using the given packing policy.
func NewRibbon(packer Packer, viewportWidth int) *Ribbon {
	return &Ribbon{packer: packer, width: viewportWidth}
}

// ViewportWidth returns the width tiles are currently sized against.
func (r *Ribbon) ViewportWidth() int {
	return r.width
}

// SetViewportWidth changes the width tiles are sized against. Callers
// repack afterwards.
func (r *Ribbon) SetViewportWidth(w int) {
	r.width = w
}

// TileWidth returns the pixel width of a tile of the given size class.
func (r *Ribbon) TileWidth(size Size) int {
	return r.packer.TileWidth(size, r.width)
}

// Len returns the number of managed tiles.
func (r *Ribbon) Len() int {
	return len(r.tiles)
}

// Tiles returns the managed tiles. The slice is shared; callers must not
// reorder it.
func (r *Ribbon) Tiles() []*Tile {
	return r.tiles
}

// Find returns the tile for a window, or nil.
func (r *Ribbon) Find(win platform.WindowID) *Tile {
	for _, t := range r.tiles {
		if t.Window == win {
			return t
		}
	}
	return nil
}

// Contains reports whether a window is managed.
func (r *Ribbon) Contains(win platform.WindowID) bool {
	return r.Find(win) != nil
}

// RowTiles returns the tiles on one row, sorted by x ascending.
func (r *Ribbon) RowTiles(row int) []*Tile {
	var out []*Tile
	for _, t := range r.tiles {
		if t.Row == row {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].X < out[j].X
	})
	return out
}

// RowExtent returns the rightmost occupied x on a row, zero when empty.
func (r *Ribbon) RowExtent(row int) int {
	extent := 0
	for _, t := range r.tiles {
		if t.Row != row {
			continue
		}
		if end := t.X + r.TileWidth(t.Size); end > extent {
			extent = end
		}
	}
	return extent
}

// MaxExtent returns the widest row's extent across the whole ribbon.
func (r *Ribbon) MaxExtent() int {
	extent := 0
	for _, t := range r.tiles {
		if end := t.X + r.TileWidth(t.Size); end > extent {
			extent = end
		}
	}
	return extent
}

// MaxRow returns the highest occupied row index, or -1 when empty.
func (r *Ribbon) MaxRow() int {
	max := -1
	for _, t := range r.tiles {
		if t.Row > max {
			max = t.Row
		}
	}
	return max
}

// InsertionX picks where a new tile should enter a row. With a focused tile
// on that row, the new tile lands against the focused tile's edge nearest
// the viewport center so the visual jump is minimal. Otherwise it lands at
// the row's end.
func (r *Ribbon) InsertionX(row int, focused *Tile, viewportCenter int) int {
	if focused == nil || focused.Row != row {
		return r.RowExtent(row)
	}
	center := focused.X + r.TileWidth(focused.Size)/2
	if center <= viewportCenter {
		return focused.X + r.TileWidth(focused.Size)
	}
	return focused.X
}

// Insert adds a tile at the given position, shifting every tile on the row
// at or past the insertion point right by the new tile's width. Returns nil
// if the window is already managed.
func (r *Ribbon) Insert(win platform.WindowID, x, row int, size Size) *Tile {
	if r.Contains(win) {
		return nil
	}

	width := r.TileWidth(size)
	for _, t := range r.tiles {
		if t.Row == row && t.X >= x {
			t.X += width
		}
	}

	tile := &Tile{Window: win, X: x, Row: row, Size: size}
	r.tiles = append(r.tiles, tile)
	return tile
}

// Resize toggles a tile between half and full width. Growth shifts every
// trailing tile on the row right by the delta; shrink leaves a gap for the
// next recalculation to close.
func (r *Ribbon) Resize(t *Tile) {
	oldWidth := r.TileWidth(t.Size)
	t.Size = t.Size.Toggle()
	newWidth := r.TileWidth(t.Size)

	delta := newWidth - oldWidth
	if delta <= 0 {
		return
	}

	oldEnd := t.X + oldWidth
	for _, other := range r.tiles {
		if other == t {
			continue
		}
		if other.Row == t.Row && other.X >= oldEnd {
			other.X += delta
		}
	}
}

// MoveHorizontal steps a tile by half the viewport width. When the
// destination interval would overlap a neighbor, the two tiles swap x
// instead, so the model never holds an overlap. Returns the distance the
// tile actually moved.
func (r *Ribbon) MoveHorizontal(t *Tile, dir Direction) int {
	step := r.width / 2
	if dir == DirLeft {
		step = -step
	}

	oldX := t.X
	newX := t.X + step
	if newX < 0 {
		newX = 0
	}
	if newX == oldX {
		return 0
	}

	width := r.TileWidth(t.Size)
	for _, other := range r.tiles {
		if other == t || other.Row != t.Row {
			continue
		}
		otherWidth := r.TileWidth(other.Size)
		if Overlaps(newX, newX+width, other.X, other.X+otherWidth) {
			t.X, other.X = other.X, oldX
			return t.X - oldX
		}
	}

	t.X = newX
	return newX - oldX
}

// MoveVertical relocates a tile one row up or down. Tiles in the
// destination row overlapping the mover's span are shifted right by the
// mover's width to make room. Returns the row delta, zero on no-op.
func (r *Ribbon) MoveVertical(t *Tile, dir Direction) int {
	rowDelta := 1
	if dir == DirUp {
		rowDelta = -1
	}

	destRow := t.Row + rowDelta
	if destRow < 0 {
		return 0
	}

	width := r.TileWidth(t.Size)
	for _, other := range r.tiles {
		if other == t || other.Row != destRow {
			continue
		}
		otherWidth := r.TileWidth(other.Size)
		if Overlaps(t.X, t.X+width, other.X, other.X+otherWidth) {
			other.X += width
		}
	}

	t.Row = destRow
	return rowDelta
}

// Remove drops a tile from the model. Callers run exit animations before
// calling this; the model itself has no notion of deferral.
func (r *Ribbon) Remove(win platform.WindowID) bool {
	for i, t := range r.tiles {
		if t.Window == win {
			r.tiles = append(r.tiles[:i], r.tiles[i+1:]...)
			return true
		}
	}
	return false
}

// Recalculate packs tiles back into gap-free positions using the active
// policy. Returns true when any tile moved.
func (r *Ribbon) Recalculate() bool {
	before := make(map[platform.WindowID]Tile, len(r.tiles))
	for _, t := range r.tiles {
		before[t.Window] = *t
	}

	r.packer.Pack(r.tiles, r.width)

	for _, t := range r.tiles {
		if prev := before[t.Window]; prev.X != t.X || prev.Row != t.Row {
			return true
		}
	}
	return false
}
