package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Geometry is one window placement in a batched reposition round.
type Geometry struct {
	Window xproto.Window
	X      int
	Y      int
	Width  int
	Height int
}

// ApplyGeometries issues ConfigureWindow requests for every entry in a
// single round, then checks the cookies together. Windows whose request
// fails are retried individually through the EWMH path so one dead window
// cannot stall an animation frame.
func (c *Connection) ApplyGeometries(geoms []Geometry) error {
	type pending struct {
		geom   Geometry
		cookie xproto.ConfigureWindowCookie
	}

	mask := uint16(xproto.ConfigWindowX |
		xproto.ConfigWindowY |
		xproto.ConfigWindowWidth |
		xproto.ConfigWindowHeight)

	round := make([]pending, 0, len(geoms))
	for _, g := range geoms {
		values := []uint32{
			uint32(int32(g.X)),
			uint32(int32(g.Y)),
			uint32(g.Width),
			uint32(g.Height),
		}
		cookie := xproto.ConfigureWindowChecked(c.XUtil.Conn(), g.Window, mask, values)
		round = append(round, pending{geom: g, cookie: cookie})
	}

	var firstErr error
	for _, p := range round {
		if err := p.cookie.Check(); err != nil {
			if fallbackErr := c.MoveResizeWindow(
				p.geom.Window, p.geom.X, p.geom.Y, p.geom.Width, p.geom.Height,
			); fallbackErr != nil && firstErr == nil {
				firstErr = fallbackErr
			}
		}
	}

	return firstErr
}
