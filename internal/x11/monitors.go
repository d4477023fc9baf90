package x11

import (
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// DisplaySize returns the primary monitor's dimensions in pixels. It prefers
// RandR's primary output and falls back to the root screen geometry when the
// extension is unavailable.
func (c *Connection) DisplaySize() (width, height int, err error) {
	if w, h, ok := c.primaryOutputSize(); ok {
		return w, h, nil
	}

	screen := xproto.Setup(c.XUtil.Conn()).DefaultScreen(c.XUtil.Conn())
	return int(screen.WidthInPixels), int(screen.HeightInPixels), nil
}

func (c *Connection) primaryOutputSize() (int, int, bool) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return 0, 0, false
	}

	primary, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply()
	if err != nil || primary.Output == 0 {
		return 0, 0, false
	}

	resources, err := randr.GetScreenResourcesCurrent(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, false
	}

	info, err := randr.GetOutputInfo(c.XUtil.Conn(), primary.Output, resources.ConfigTimestamp).Reply()
	if err != nil || info.Crtc == 0 {
		return 0, 0, false
	}

	crtc, err := randr.GetCrtcInfo(c.XUtil.Conn(), info.Crtc, resources.ConfigTimestamp).Reply()
	if err != nil || crtc.Width == 0 || crtc.Height == 0 {
		return 0, 0, false
	}

	return int(crtc.Width), int(crtc.Height), true
}
