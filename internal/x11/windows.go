package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	err := ewmh.MoveresizeWindow(
		c.XUtil,
		windowID,
		x, y, width, height,
	)

	if err != nil {
		// Fallback to direct window manipulation
		win := xwindow.New(c.XUtil, windowID)
		win.MoveResize(x, y, width, height)
	}

	return nil
}

// UnmaximizeWindow removes maximized state from a window, reporting which
// axes were maximized so the caller can restore them later.
func (c *Connection) UnmaximizeWindow(windowID xproto.Window) (hadH, hadV bool, err error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, false, err
	}

	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" {
			hadH = true
		}
		if state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			hadV = true
		}
	}

	if hadH {
		ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if hadV {
		ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_MAXIMIZED_VERT")
	}

	return hadH, hadV, nil
}

// MaximizeWindow re-adds maximized state on the given axes.
func (c *Connection) MaximizeWindow(windowID xproto.Window, horizontal, vertical bool) {
	if horizontal {
		ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if vertical {
		ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_VERT")
	}
}

// WindowGeometry returns the window's root-relative geometry.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// IsWindowAlive reports whether the window still exists on the server.
func (c *Connection) IsWindowAlive(windowID xproto.Window) bool {
	_, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	return err == nil
}

// IsWindowViewable reports whether the window is currently mapped.
func (c *Connection) IsWindowViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// IsWindowMinimized reports whether the window is iconified/hidden.
func (c *Connection) IsWindowMinimized(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	// Check for normal window type
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_TOOLBAR" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// IsPopupWindow reports whether the window is a transient dialog/popup that
// should float rather than tile.
func (c *Connection) IsPopupWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err == nil {
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DIALOG" ||
				t == "_NET_WM_WINDOW_TYPE_UTILITY" {
				return true
			}
		}
	}

	// Owned transients float even without an explicit dialog type.
	if transient, err := icccm.WmTransientForGet(c.XUtil, windowID); err == nil && transient != 0 {
		return true
	}

	return false
}

// WindowTitle returns the window's EWMH name, falling back to the ICCCM name.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return name
	}
	return ""
}

// WindowClass returns the window's WM_CLASS class name.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	class, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil || class == nil {
		return ""
	}
	return class.Class
}

const opacityProp = "_NET_WM_WINDOW_OPACITY"

// SetWindowOpacity applies a 0-255 alpha as _NET_WM_WINDOW_OPACITY.
func (c *Connection) SetWindowOpacity(windowID xproto.Window, alpha uint8) error {
	scaled := uint(uint64(alpha) * 0xFFFFFFFF / 255)
	return xprop.ChangeProp32(c.XUtil, windowID, opacityProp, "CARDINAL", scaled)
}

// ClearWindowOpacity removes the opacity property, restoring full opacity.
func (c *Connection) ClearWindowOpacity(windowID xproto.Window) error {
	atom, err := xprop.Atm(c.XUtil, opacityProp)
	if err != nil {
		return err
	}
	return xproto.DeletePropertyChecked(c.XUtil.Conn(), windowID, atom).Check()
}

// HasWindowOpacity reports whether the opacity property is set.
func (c *Connection) HasWindowOpacity(windowID xproto.Window) bool {
	prop, err := xprop.GetProperty(c.XUtil, windowID, opacityProp)
	return err == nil && prop != nil && len(prop.Value) > 0
}

// FocusWindow activates and raises a window by sending a _NET_ACTIVE_WINDOW
// client message to the root window. The message is built manually; the
// xgbutil ewmh helper panics on this library version.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return err
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
