package tiling

import (
	"github.com/1broseidon/ribbonwm/internal/platform"
)

// Size is a tile's width class within the ribbon.
type Size int

const (
	// SizeHalf occupies half the viewport width.
	SizeHalf Size = iota
	// SizeFull occupies the whole viewport width.
	SizeFull
)

func (s Size) String() string {
	if s == SizeFull {
		return "full"
	}
	return "half"
}

// Toggle flips between the two width classes.
func (s Size) Toggle() Size {
	if s == SizeFull {
		return SizeHalf
	}
	return SizeFull
}

// Direction is a movement or resize direction on the ribbon.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	default:
		return "down"
	}
}

// Tile is the virtual position and size record for one managed window.
// X is a ribbon coordinate, unbounded to the right; Row counts screens
// downward from zero.
type Tile struct {
	Window platform.WindowID
	X      int
	Row    int
	Size   Size
}

// Span returns the virtual x-interval [start, end) the tile occupies given
// its pixel width.
func (t *Tile) Span(width int) (start, end int) {
	return t.X, t.X + width
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
