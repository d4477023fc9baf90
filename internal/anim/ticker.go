package anim

import (
	"sync"
	"time"
)

const (
	baseInterval   = 16 * time.Millisecond
	relaxAfter     = 200 * time.Millisecond
	relaxStep      = 100 * time.Millisecond
	maxRelax       = 4 * time.Millisecond
	minBase        = 5 * time.Millisecond
	recalcInterval = 500 * time.Millisecond
)

// Interval returns the tick spacing for a ticker running at the default
// rate for the given duration. Fresh tickers run at 16ms; after 200ms the
// interval relaxes by 1ms per 100ms, capped at 4ms over base.
func Interval(elapsed time.Duration) time.Duration {
	return intervalAt(baseInterval, elapsed)
}

func intervalAt(base, elapsed time.Duration) time.Duration {
	if elapsed < relaxAfter {
		return base
	}
	relax := ((elapsed-relaxAfter)/relaxStep + 1) * time.Millisecond
	if relax > maxRelax {
		relax = maxRelax
	}
	return base + relax
}

// Ticker drives animation frames. It is a pure notifier: it never touches
// layout state, it only signals the owning goroutine through Wake. Recalc
// fires at a coarser rate so expensive passes are not run every frame.
//
// The ticker is lazily started when animations begin and stopped when none
// remain, so an idle manager spends no cycles.
type Ticker struct {
	Wake   chan struct{}
	Recalc chan struct{}

	mu      sync.Mutex
	base    time.Duration
	running bool
	stop    chan struct{}
}

func NewTicker() *Ticker {
	return &Ticker{
		Wake:   make(chan struct{}, 1),
		Recalc: make(chan struct{}, 1),
		base:   baseInterval,
	}
}

// SetRate changes the base tick spacing to match a target frame rate.
// Takes effect on the next tick.
func (t *Ticker) SetRate(fps int) {
	if fps <= 0 {
		return
	}
	base := time.Second / time.Duration(fps)
	if base < minBase {
		base = minBase
	}
	t.mu.Lock()
	t.base = base
	t.mu.Unlock()
}

func (t *Ticker) intervalFor(elapsed time.Duration) time.Duration {
	t.mu.Lock()
	base := t.base
	t.mu.Unlock()
	return intervalAt(base, elapsed)
}

// Start spawns the tick loop if it is not already running.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	go t.loop(t.stop)
}

// Stop halts the tick loop. Safe to call when not running.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
}

// Running reports whether the tick loop is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) loop(stop chan struct{}) {
	start := time.Now()
	lastRecalc := start
	timer := time.NewTimer(t.intervalFor(0))
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-timer.C:
			select {
			case t.Wake <- struct{}{}:
			default:
			}
			if now.Sub(lastRecalc) >= recalcInterval {
				lastRecalc = now
				select {
				case t.Recalc <- struct{}{}:
				default:
				}
			}
			timer.Reset(t.intervalFor(time.Since(start)))
		}
	}
}
