package anim

import (
	"math"
	"time"

	"github.com/1broseidon/ribbonwm/internal/platform"
)

// Kind distinguishes how an animation started and what its completion means.
type Kind int

const (
	// KindMove animates a managed window between two tiled positions.
	KindMove Kind = iota
	// KindEntry grows a newly managed window out of its target's center.
	KindEntry
	// KindExit shrinks a departing window toward its restoration bounds.
	// The window leaves the layout only when the exit completes.
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindEntry:
		return "entry"
	case KindExit:
		return "exit"
	default:
		return "unknown"
	}
}

// EaseOutCubic maps linear progress to decelerating progress.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv*inv
}

func lerp(a, b int, t float64) int {
	return a + int(math.Round(float64(b-a)*t))
}

func lerpRect(a, b platform.Rect, t float64) platform.Rect {
	return platform.Rect{
		X:      lerp(a.X, b.X, t),
		Y:      lerp(a.Y, b.Y, t),
		Width:  lerp(a.Width, b.Width, t),
		Height: lerp(a.Height, b.Height, t),
	}
}

// EntryFrom builds the starting bounds for an entry animation: the target
// scaled to a tenth of its size about its own center.
func EntryFrom(target platform.Rect) platform.Rect {
	w := target.Width / 10
	h := target.Height / 10
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return platform.Rect{
		X:      target.CenterX() - w/2,
		Y:      target.CenterY() - h/2,
		Width:  w,
		Height: h,
	}
}

// State is one window's in-flight animation.
type State struct {
	Kind     Kind
	From     platform.Rect
	To       platform.Rect
	Start    time.Time
	Duration time.Duration
}

// NewState starts an animation of the given kind from one rect to another.
func NewState(kind Kind, from, to platform.Rect, start time.Time, duration time.Duration) State {
	return State{Kind: kind, From: from, To: to, Start: start, Duration: duration}
}

// At returns the interpolated bounds at the given instant, and whether the
// animation has finished. Finished animations report exactly To.
func (s State) At(now time.Time) (platform.Rect, bool) {
	if s.Duration <= 0 {
		return s.To, true
	}
	elapsed := now.Sub(s.Start)
	if elapsed >= s.Duration {
		return s.To, true
	}
	t := EaseOutCubic(float64(elapsed) / float64(s.Duration))
	return lerpRect(s.From, s.To, t), false
}

// Retarget supersedes the animation with a new destination, resampling the
// current interpolated bounds as the new origin so motion stays continuous.
func (s State) Retarget(now time.Time, to platform.Rect, duration time.Duration) State {
	current, _ := s.At(now)
	return State{
		Kind:     s.Kind,
		From:     current,
		To:       to,
		Start:    now,
		Duration: duration,
	}
}

// Scroll animates the viewport offsets rather than a single window.
type Scroll struct {
	FromX, ToX int
	FromY, ToY int
	Start      time.Time
	Duration   time.Duration
}

// NewScroll starts a viewport glide from one offset pair to another.
func NewScroll(fromX, toX, fromY, toY int, start time.Time, duration time.Duration) Scroll {
	return Scroll{FromX: fromX, ToX: toX, FromY: fromY, ToY: toY, Start: start, Duration: duration}
}

// At returns the interpolated offsets at the given instant and whether the
// glide has finished.
func (s Scroll) At(now time.Time) (x, y int, done bool) {
	if s.Duration <= 0 {
		return s.ToX, s.ToY, true
	}
	elapsed := now.Sub(s.Start)
	if elapsed >= s.Duration {
		return s.ToX, s.ToY, true
	}
	t := EaseOutCubic(float64(elapsed) / float64(s.Duration))
	return lerp(s.FromX, s.ToX, t), lerp(s.FromY, s.ToY, t), false
}

// Retarget supersedes the glide with new destinations, resampling the
// current offsets as the new origin.
func (s Scroll) Retarget(now time.Time, toX, toY int, duration time.Duration) Scroll {
	x, y, _ := s.At(now)
	return Scroll{FromX: x, ToX: toX, FromY: y, ToY: toY, Start: now, Duration: duration}
}
