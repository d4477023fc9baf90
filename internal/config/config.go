package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for ribbonwm
type Config struct {
	Animation  AnimationConfig   `yaml:"animation"`
	Layout     LayoutConfig      `yaml:"layout"`
	Appearance AppearanceConfig  `yaml:"appearance"`
	Hotkeys    map[string]string `yaml:"hotkeys"`
}

// AnimationConfig controls transition timing
type AnimationConfig struct {
	// MoveMs, EntryMs, and ExitMs are the per-kind transition lengths.
	MoveMs  int `yaml:"move_ms"`
	EntryMs int `yaml:"entry_ms"`
	ExitMs  int `yaml:"exit_ms"`
	// ScrollMs is the viewport glide length.
	ScrollMs int `yaml:"scroll_ms"`
	// Rates are the frame rates the cycle-rate command steps through.
	Rates []int `yaml:"rates"`
}

func (a AnimationConfig) Move() time.Duration {
	return time.Duration(a.MoveMs) * time.Millisecond
}

func (a AnimationConfig) Entry() time.Duration {
	return time.Duration(a.EntryMs) * time.Millisecond
}

func (a AnimationConfig) Exit() time.Duration {
	return time.Duration(a.ExitMs) * time.Millisecond
}

func (a AnimationConfig) Scroll() time.Duration {
	return time.Duration(a.ScrollMs) * time.Millisecond
}

// LayoutConfig controls tile geometry and packing
type LayoutConfig struct {
	// Strategy selects the packing policy: "ribbon" or "grid".
	Strategy string `yaml:"strategy"`
	// MarginHorizontal and MarginVertical inset each tile from its cell.
	MarginHorizontal int `yaml:"margin_horizontal"`
	MarginVertical   int `yaml:"margin_vertical"`
	// MarginStep is how far one adjust-margins command moves the
	// horizontal margin. The vertical margin moves by twice this.
	MarginStep int `yaml:"margin_step"`
}

// AppearanceConfig controls window transparency
type AppearanceConfig struct {
	// Opacity is the alpha applied to tracked windows, 50 (nearly
	// transparent) to 255. At 255 the opacity attribute is removed.
	Opacity int `yaml:"opacity"`
	// OpacityStep is how far one adjust-transparency command moves it.
	OpacityStep int `yaml:"opacity_step"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Animation: AnimationConfig{
			MoveMs:   87,
			EntryMs:  200,
			ExitMs:   200,
			ScrollMs: 200,
			Rates:    []int{60, 90, 120, 144},
		},
		Layout: LayoutConfig{
			Strategy:         "ribbon",
			MarginHorizontal: 40,
			MarginVertical:   80,
			MarginStep:       5,
		},
		Appearance: AppearanceConfig{
			Opacity:     255,
			OpacityStep: 10,
		},
		Hotkeys: map[string]string{
			"add_window":        "mod4-return",
			"remove_window":     "mod4-shift-q",
			"pan_left":          "mod4-bracketleft",
			"pan_right":         "mod4-bracketright",
			"pan_row_up":        "mod4-prior",
			"pan_row_down":      "mod4-next",
			"resize_left":       "mod4-shift-h",
			"resize_right":      "mod4-shift-l",
			"move_left":         "mod4-left",
			"move_right":        "mod4-right",
			"move_up":           "mod4-up",
			"move_down":         "mod4-down",
			"transparency_up":   "mod4-equal",
			"transparency_down": "mod4-minus",
			"margins_up":        "mod4-shift-equal",
			"margins_down":      "mod4-shift-minus",
			"cycle_rate":        "mod4-f",
			"force_recalc":      "mod4-r",
			"scroll_to_focused": "mod4-space",
		},
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	durations := map[string]int{
		"move_ms":   c.Animation.MoveMs,
		"entry_ms":  c.Animation.EntryMs,
		"exit_ms":   c.Animation.ExitMs,
		"scroll_ms": c.Animation.ScrollMs,
	}
	for name, ms := range durations {
		if ms < 16 || ms > 2000 {
			return fmt.Errorf("animation.%s must be between 16 and 2000, got %d", name, ms)
		}
	}
	if len(c.Animation.Rates) == 0 {
		return fmt.Errorf("animation.rates must not be empty")
	}
	for _, rate := range c.Animation.Rates {
		if rate < 30 || rate > 240 {
			return fmt.Errorf("animation.rates entries must be between 30 and 240, got %d", rate)
		}
	}

	if c.Layout.Strategy != "ribbon" && c.Layout.Strategy != "grid" {
		return fmt.Errorf("layout.strategy must be \"ribbon\" or \"grid\", got %q", c.Layout.Strategy)
	}
	if c.Layout.MarginHorizontal < 0 || c.Layout.MarginHorizontal > 200 {
		return fmt.Errorf("layout.margin_horizontal must be between 0 and 200, got %d", c.Layout.MarginHorizontal)
	}
	if c.Layout.MarginVertical < 0 || c.Layout.MarginVertical > 200 {
		return fmt.Errorf("layout.margin_vertical must be between 0 and 200, got %d", c.Layout.MarginVertical)
	}
	if c.Layout.MarginStep < 1 || c.Layout.MarginStep > 50 {
		return fmt.Errorf("layout.margin_step must be between 1 and 50, got %d", c.Layout.MarginStep)
	}

	if c.Appearance.Opacity < 50 || c.Appearance.Opacity > 255 {
		return fmt.Errorf("appearance.opacity must be between 50 and 255, got %d", c.Appearance.Opacity)
	}
	if c.Appearance.OpacityStep < 1 || c.Appearance.OpacityStep > 100 {
		return fmt.Errorf("appearance.opacity_step must be between 1 and 100, got %d", c.Appearance.OpacityStep)
	}

	return nil
}
