//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/ribbonwm/internal/x11"
)

// LinuxBackend implements Backend using X11
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a new Linux/X11 backend
func NewLinuxBackend() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	return &LinuxBackend{conn: conn}, nil
}

// Connection exposes the underlying X11 connection for hotkey registration.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// XUtil exposes the xgbutil handle for event wiring.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	return b.conn.XUtil
}

// EventLoop runs the X event loop. Blocks until Disconnect or Quit.
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// Quit stops the X event loop.
func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

// Disconnect closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	b.conn.Close()
}

func (b *LinuxBackend) DisplaySize() (int, int, error) {
	return b.conn.DisplaySize()
}

func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	win, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	return WindowID(win), nil
}

// Classify decides how a window should be handled. Windows with no title
// are ignored so short-lived helper surfaces never enter the layout.
func (b *LinuxBackend) Classify(id WindowID) Classification {
	win := xproto.Window(id)

	if !b.conn.IsWindowAlive(win) {
		return ClassIgnore
	}
	if b.conn.IsPopupWindow(win) {
		return ClassFloat
	}
	if !b.conn.IsNormalWindow(win) {
		return ClassIgnore
	}
	if b.conn.WindowTitle(win) == "" {
		return ClassIgnore
	}
	return ClassManage
}

func (b *LinuxBackend) WindowAlive(id WindowID) bool {
	return b.conn.IsWindowAlive(xproto.Window(id))
}

func (b *LinuxBackend) WindowVisible(id WindowID) bool {
	return b.conn.IsWindowViewable(xproto.Window(id))
}

func (b *LinuxBackend) WindowMinimized(id WindowID) bool {
	return b.conn.IsWindowMinimized(xproto.Window(id))
}

func (b *LinuxBackend) WindowGeometry(id WindowID) (Rect, error) {
	x, y, w, h, err := b.conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, fmt.Errorf("failed to get window geometry: %w", err)
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// CaptureState records a window's geometry and maximized flags, then
// unmaximizes it so tiling geometry is honored.
func (b *LinuxBackend) CaptureState(id WindowID) (WindowState, error) {
	win := xproto.Window(id)

	geom, err := b.WindowGeometry(id)
	if err != nil {
		return WindowState{}, err
	}

	hadH, hadV, err := b.conn.UnmaximizeWindow(win)
	if err != nil {
		hadH, hadV = false, false
	}

	return WindowState{
		Geometry:   geom,
		MaximizedH: hadH,
		MaximizedV: hadV,
		HadOpacity: b.conn.HasWindowOpacity(win),
	}, nil
}

// RestoreState puts a window back where it was before management.
func (b *LinuxBackend) RestoreState(id WindowID, state WindowState) error {
	win := xproto.Window(id)

	if err := b.conn.MoveResizeWindow(win,
		state.Geometry.X, state.Geometry.Y,
		state.Geometry.Width, state.Geometry.Height); err != nil {
		return err
	}

	if state.MaximizedH || state.MaximizedV {
		b.conn.MaximizeWindow(win, state.MaximizedH, state.MaximizedV)
	}

	if !state.HadOpacity {
		if err := b.conn.ClearWindowOpacity(win); err != nil {
			return err
		}
	}

	return nil
}

func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	return b.conn.MoveResizeWindow(xproto.Window(id),
		bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (b *LinuxBackend) BatchMoveResize(updates []Update) error {
	if len(updates) == 0 {
		return nil
	}
	geoms := make([]x11.Geometry, 0, len(updates))
	for _, u := range updates {
		geoms = append(geoms, x11.Geometry{
			Window: xproto.Window(u.Window),
			X:      u.Bounds.X,
			Y:      u.Bounds.Y,
			Width:  u.Bounds.Width,
			Height: u.Bounds.Height,
		})
	}
	return b.conn.ApplyGeometries(geoms)
}

func (b *LinuxBackend) SetOpacity(id WindowID, alpha uint8) error {
	return b.conn.SetWindowOpacity(xproto.Window(id), alpha)
}

func (b *LinuxBackend) ClearOpacity(id WindowID) error {
	return b.conn.ClearWindowOpacity(xproto.Window(id))
}

func (b *LinuxBackend) Focus(id WindowID) error {
	return b.conn.FocusWindow(xproto.Window(id))
}
