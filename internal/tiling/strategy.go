package tiling

import (
	"sort"
)

// Packer decides tile widths and how tiles are packed back into gap-free
// positions. The two policies share every other layout operation.
type Packer interface {
	// TileWidth returns the pixel width of a tile of the given size class
	// for the given viewport width.
	TileWidth(size Size, viewportWidth int) int
	// Pack reassigns tile coordinates so no gaps remain. Relative order is
	// preserved.
	Pack(tiles []*Tile, viewportWidth int)
}

// RowPacker keeps tiles on their assigned rows and packs each row from
// x = 0 with no gaps. This is the ribbon policy.
type RowPacker struct{}

var _ Packer = RowPacker{}

func (RowPacker) TileWidth(size Size, viewportWidth int) int {
	if size == SizeFull {
		return viewportWidth
	}
	return viewportWidth / 2
}

func (p RowPacker) Pack(tiles []*Tile, viewportWidth int) {
	rows := make(map[int][]*Tile)
	for _, t := range tiles {
		rows[t.Row] = append(rows[t.Row], t)
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
		x := 0
		for _, t := range row {
			t.X = x
			x += p.TileWidth(t.Size, viewportWidth)
		}
	}
}

// GridPacker ignores assigned rows and reflows tiles into viewport-width
// pages, wrapping to the next row when a tile would spill past the page
// edge. Relative order follows the previous (row, x) order.
type GridPacker struct{}

var _ Packer = GridPacker{}

func (GridPacker) TileWidth(size Size, viewportWidth int) int {
	if size == SizeFull {
		return viewportWidth
	}
	return viewportWidth / 2
}

func (p GridPacker) Pack(tiles []*Tile, viewportWidth int) {
	ordered := make([]*Tile, len(tiles))
	copy(ordered, tiles)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Row != ordered[j].Row {
			return ordered[i].Row < ordered[j].Row
		}
		return ordered[i].X < ordered[j].X
	})

	row, x := 0, 0
	for _, t := range ordered {
		w := p.TileWidth(t.Size, viewportWidth)
		if x > 0 && x+w > viewportWidth {
			row++
			x = 0
		}
		t.Row = row
		t.X = x
		x += w
	}
}
