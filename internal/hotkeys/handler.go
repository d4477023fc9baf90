package hotkeys

import (
	"fmt"
	"log"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/ribbonwm/internal/engine"
)

// Handler grabs global key bindings and turns them into engine commands.
// It only enqueues; the engine's dispatch goroutine does all the work.
type Handler struct {
	xu     *xgbutil.XUtil
	engine *engine.Engine
}

// NewHandler creates a hotkey handler on the given X connection.
func NewHandler(xu *xgbutil.XUtil, eng *engine.Engine) *Handler {
	return &Handler{xu: xu, engine: eng}
}

// Register binds every configured hotkey. The map is command name to key
// sequence in xgbutil syntax ("mod4-shift-q"). An empty sequence disables
// that command's binding.
func (h *Handler) Register(bindings map[string]string) error {
	for name, sequence := range bindings {
		if sequence == "" {
			continue
		}

		kind, err := engine.ParseCommandKind(name)
		if err != nil {
			return fmt.Errorf("invalid hotkey entry: %w", err)
		}

		cb := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			h.engine.Enqueue(kind, 0)
		})

		if err := cb.Connect(h.xu, h.xu.RootWin(), sequence, true); err != nil {
			return fmt.Errorf("failed to grab %q for %s: %w", sequence, name, err)
		}
		log.Printf("Bound %s to %s", sequence, name)
	}
	return nil
}
