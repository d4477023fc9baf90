package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// CenterX returns the horizontal center of the rect.
func (r Rect) CenterX() int { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rect.
func (r Rect) CenterY() int { return r.Y + r.Height/2 }

// Update pairs a window with its next geometry for batched repositioning.
type Update struct {
	Window WindowID
	Bounds Rect
}

// WindowState captures the attributes saved when a window enters management,
// so they can be reapplied when it is released.
type WindowState struct {
	Geometry   Rect
	MaximizedH bool
	MaximizedV bool
	HadOpacity bool
}

// Classification sorts windows into management categories.
type Classification int

const (
	// ClassIgnore marks system windows (docks, desktops, notifications).
	ClassIgnore Classification = iota
	// ClassManage marks normal application windows eligible for tiling.
	ClassManage
	// ClassFloat marks transient dialogs/popups tracked for transparency only.
	ClassFloat
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	switch c {
	case ClassIgnore:
		return "ignore"
	case ClassManage:
		return "manage"
	case ClassFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	// DisplaySize returns the primary display dimensions.
	DisplaySize() (width, height int, err error)

	// ActiveWindow returns the currently focused window, or 0 when none.
	ActiveWindow() (WindowID, error)

	// Classify decides whether a window should be tiled, floated, or ignored.
	Classify(windowID WindowID) Classification

	// WindowAlive reports whether the window still exists.
	WindowAlive(windowID WindowID) bool
	// WindowVisible reports whether the window is mapped on screen.
	WindowVisible(windowID WindowID) bool
	// WindowMinimized reports whether the window is iconified/hidden.
	WindowMinimized(windowID WindowID) bool

	// WindowGeometry returns the window's current screen rectangle.
	WindowGeometry(windowID WindowID) (Rect, error)

	// CaptureState records a window's geometry and state for later
	// restoration, unmaximizing it so it can be tiled.
	CaptureState(windowID WindowID) (WindowState, error)
	// RestoreState reapplies a previously captured state.
	RestoreState(windowID WindowID, state WindowState) error

	// MoveResize repositions a single window.
	MoveResize(windowID WindowID, bounds Rect) error
	// BatchMoveResize repositions many windows in one committed round,
	// falling back to individual updates when batching is unavailable.
	BatchMoveResize(updates []Update) error

	// SetOpacity applies a 0-255 alpha to the window; ClearOpacity removes it.
	SetOpacity(windowID WindowID, alpha uint8) error
	ClearOpacity(windowID WindowID) error

	// Focus requests foreground focus for the window.
	Focus(windowID WindowID) error
}
