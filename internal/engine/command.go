package engine

import (
	"fmt"
	"time"

	"github.com/1broseidon/ribbonwm/internal/platform"
)

// CommandKind identifies one ribbon operation.
type CommandKind int

const (
	CmdAddWindow CommandKind = iota
	CmdRemoveWindow
	CmdPanLeft
	CmdPanRight
	CmdPanRowUp
	CmdPanRowDown
	CmdResizeLeft
	CmdResizeRight
	CmdMoveLeft
	CmdMoveRight
	CmdMoveUp
	CmdMoveDown
	CmdTransparencyUp
	CmdTransparencyDown
	CmdMarginsUp
	CmdMarginsDown
	CmdCycleRate
	CmdForceRecalc
	CmdScrollToFocused
	CmdShutdown
)

var commandNames = map[CommandKind]string{
	CmdAddWindow:        "add_window",
	CmdRemoveWindow:     "remove_window",
	CmdPanLeft:          "pan_left",
	CmdPanRight:         "pan_right",
	CmdPanRowUp:         "pan_row_up",
	CmdPanRowDown:       "pan_row_down",
	CmdResizeLeft:       "resize_left",
	CmdResizeRight:      "resize_right",
	CmdMoveLeft:         "move_left",
	CmdMoveRight:        "move_right",
	CmdMoveUp:           "move_up",
	CmdMoveDown:         "move_down",
	CmdTransparencyUp:   "transparency_up",
	CmdTransparencyDown: "transparency_down",
	CmdMarginsUp:        "margins_up",
	CmdMarginsDown:      "margins_down",
	CmdCycleRate:        "cycle_rate",
	CmdForceRecalc:      "force_recalc",
	CmdScrollToFocused:  "scroll_to_focused",
	CmdShutdown:         "shutdown",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ParseCommandKind maps a command name (as used in config hotkeys and the
// IPC send surface) back to its kind.
func ParseCommandKind(name string) (CommandKind, error) {
	for kind, n := range commandNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// throttled reports whether the kind is subject to the per-kind dispatch
// throttle. Pan commands bypass it so key repeat aggregates smoothly.
func (k CommandKind) throttled() bool {
	switch k {
	case CmdPanLeft, CmdPanRight, CmdPanRowUp, CmdPanRowDown:
		return false
	}
	return true
}

// Command is one queued operation. Window is optional; zero means the
// currently focused window.
type Command struct {
	Kind   CommandKind
	Window platform.WindowID
	At     time.Time
}
