package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/ribbonwm/internal/anim"
	"github.com/1broseidon/ribbonwm/internal/config"
	"github.com/1broseidon/ribbonwm/internal/platform"
	"github.com/1broseidon/ribbonwm/internal/tiling"
)

const (
	throttleWindow = 50 * time.Millisecond
	queueCapacity  = 64

	opacityFloor = 50
	opacityCeil  = 255
	marginCeil   = 200
)

// managed carries the per-window state the ribbon itself does not track:
// the saved pre-management geometry, the live animation if any, and whether
// the window is on its way out.
type managed struct {
	tile    *tiling.Tile
	saved   platform.WindowState
	anim    *anim.State
	exiting bool
}

// Engine owns all layout, viewport, and animation state. A single dispatch
// goroutine (Run) mutates it; the mutex exists only so synchronous status
// queries and shutdown can observe a consistent snapshot.
type Engine struct {
	mu      sync.Mutex
	backend platform.Backend
	cfg     *config.Config
	logger  *slog.Logger

	// now is the clock. Tests substitute a fake.
	now func() time.Time

	ribbon   *tiling.Ribbon
	viewport *tiling.Viewport
	mapper   tiling.Mapper

	windows  map[platform.WindowID]*managed
	floating map[platform.WindowID]struct{}

	scroll *anim.Scroll
	ticker *anim.Ticker

	queue        chan Command
	lastDispatch map[CommandKind]time.Time

	opacity       int
	rateIdx       int
	recalcPending bool
	stopped       bool

	done chan struct{}
}

// New creates an engine against the given backend. The initial viewport
// matches the primary display.
func New(backend platform.Backend, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	width, height, err := backend.DisplaySize()
	if err != nil {
		return nil, fmt.Errorf("failed to query display size: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var packer tiling.Packer = tiling.RowPacker{}
	if cfg.Layout.Strategy == "grid" {
		packer = tiling.GridPacker{}
	}

	e := &Engine{
		backend:  backend,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		ribbon:   tiling.NewRibbon(packer, width),
		viewport: tiling.NewViewport(width, height),
		mapper: tiling.Mapper{
			ScreenWidth:  width,
			ScreenHeight: height,
			MarginH:      cfg.Layout.MarginHorizontal,
			MarginV:      cfg.Layout.MarginVertical,
		},
		windows:      make(map[platform.WindowID]*managed),
		floating:     make(map[platform.WindowID]struct{}),
		ticker:       anim.NewTicker(),
		queue:        make(chan Command, queueCapacity),
		lastDispatch: make(map[CommandKind]time.Time),
		opacity:      cfg.Appearance.Opacity,
		done:         make(chan struct{}),
	}
	e.ticker.SetRate(cfg.Animation.Rates[0])

	return e, nil
}

// Enqueue adds a command to the inbound queue. Never blocks; commands are
// dropped when the queue is full.
func (e *Engine) Enqueue(kind CommandKind, win platform.WindowID) {
	cmd := Command{Kind: kind, Window: win, At: e.now()}
	select {
	case e.queue <- cmd:
	default:
		e.logger.Warn("command queue full, dropping", "kind", kind.String())
	}
}

// Done closes when the engine has shut down.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Run is the dispatch loop. It is the only goroutine that mutates layout
// state. Returns when the context is cancelled or a shutdown command is
// processed.
func (e *Engine) Run(ctx context.Context) {
	resolution := time.NewTicker(time.Second)
	defer resolution.Stop()
	defer e.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.Shutdown()
			return
		case <-e.done:
			return
		case cmd := <-e.queue:
			if e.Process(cmd) {
				return
			}
		case <-e.ticker.Wake:
			e.mu.Lock()
			e.stepLocked(e.now())
			e.mu.Unlock()
		case <-e.ticker.Recalc:
			e.mu.Lock()
			if e.recalcPending && !e.animatingLocked() {
				e.recalculateLocked(e.now())
			}
			e.mu.Unlock()
		case <-resolution.C:
			e.mu.Lock()
			e.checkResolutionLocked(e.now())
			e.mu.Unlock()
		}
	}
}

// Process runs one command through the cleanup, throttle, and dispatch
// pipeline. Returns true when the command shuts the engine down. Exported
// so tests can drive the engine without the Run loop.
func (e *Engine) Process(cmd Command) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return true
	}

	now := e.now()
	e.cleanupLocked()

	if cmd.Kind.throttled() {
		if last, ok := e.lastDispatch[cmd.Kind]; ok && cmd.At.Sub(last) < throttleWindow {
			return false
		}
	}
	e.lastDispatch[cmd.Kind] = cmd.At

	switch cmd.Kind {
	case CmdAddWindow:
		e.addWindowLocked(cmd.Window, now)
	case CmdRemoveWindow:
		e.removeWindowLocked(cmd.Window, now)
	case CmdPanLeft, CmdPanRight:
		dir := tiling.DirRight
		if cmd.Kind == CmdPanLeft {
			dir = tiling.DirLeft
		}
		if e.viewport.PanHorizontal(dir, e.ribbon.MaxExtent()) {
			e.startScrollLocked(now)
		}
	case CmdPanRowUp, CmdPanRowDown:
		dir := tiling.DirDown
		if cmd.Kind == CmdPanRowUp {
			dir = tiling.DirUp
		}
		if e.viewport.PanRow(dir, e.ribbon.MaxRow()) {
			e.startScrollLocked(now)
		}
	case CmdResizeLeft, CmdResizeRight:
		e.resizeLocked(cmd.Window, now)
	case CmdMoveLeft, CmdMoveRight:
		dir := tiling.DirRight
		if cmd.Kind == CmdMoveLeft {
			dir = tiling.DirLeft
		}
		e.moveHorizontalLocked(cmd.Window, dir, now)
	case CmdMoveUp, CmdMoveDown:
		dir := tiling.DirDown
		if cmd.Kind == CmdMoveUp {
			dir = tiling.DirUp
		}
		e.moveVerticalLocked(cmd.Window, dir, now)
	case CmdTransparencyUp:
		e.adjustTransparencyLocked(e.cfg.Appearance.OpacityStep)
	case CmdTransparencyDown:
		e.adjustTransparencyLocked(-e.cfg.Appearance.OpacityStep)
	case CmdMarginsUp:
		e.adjustMarginsLocked(1, now)
	case CmdMarginsDown:
		e.adjustMarginsLocked(-1, now)
	case CmdCycleRate:
		e.cycleRateLocked()
	case CmdForceRecalc:
		e.recalculateLocked(now)
	case CmdScrollToFocused:
		e.scrollToFocusedLocked(cmd.Window, now)
	case CmdShutdown:
		e.shutdownLocked()
		return true
	}

	// A structural drop with no animation in flight must not wait for a
	// ticker that may never run.
	if e.recalcPending && !e.animatingLocked() {
		e.recalculateLocked(now)
	}

	return false
}

// cleanupLocked drops tiles whose backing window is gone, hidden, or
// minimized. Stale commands then fall through as silent no-ops.
func (e *Engine) cleanupLocked() {
	dropped := false
	for id, m := range e.windows {
		if m.exiting {
			continue
		}
		if !e.backend.WindowAlive(id) || !e.backend.WindowVisible(id) {
			e.dropLocked(id)
			dropped = true
			continue
		}
		if e.backend.WindowMinimized(id) {
			e.dropLocked(id)
			dropped = true
		}
	}

	for id := range e.floating {
		if !e.backend.WindowAlive(id) {
			delete(e.floating, id)
		}
	}

	if dropped {
		e.recalcPending = true
		if e.ribbon.Len() == 0 {
			e.viewport.Reset()
		}
	}
}

// dropLocked discards a tile with no exit animation. Used when the backing
// window already disappeared on its own.
func (e *Engine) dropLocked(id platform.WindowID) {
	e.ribbon.Remove(id)
	delete(e.windows, id)
	e.logger.Info("dropped vanished window", "window", id)
}

func (e *Engine) targetWindowLocked(win platform.WindowID) (platform.WindowID, bool) {
	if win != 0 {
		return win, true
	}
	active, err := e.backend.ActiveWindow()
	if err != nil || active == 0 {
		return 0, false
	}
	return active, true
}

func (e *Engine) addWindowLocked(win platform.WindowID, now time.Time) {
	win, ok := e.targetWindowLocked(win)
	if !ok {
		return
	}

	switch e.backend.Classify(win) {
	case platform.ClassFloat:
		e.floating[win] = struct{}{}
		e.applyOpacityLocked(win)
		if err := e.backend.Focus(win); err != nil {
			e.logger.Warn("focus request for popup declined", "window", win, "error", err)
		}
		e.logger.Info("tracking floating window", "window", win)
		return
	case platform.ClassManage:
	default:
		return
	}

	if _, exists := e.windows[win]; exists {
		return
	}

	saved, err := e.backend.CaptureState(win)
	if err != nil {
		e.logger.Error("failed to capture window state", "window", win, "error", err)
		return
	}

	var focused *tiling.Tile
	if active, err := e.backend.ActiveWindow(); err == nil {
		focused = e.ribbon.Find(active)
	}

	before := e.snapshotLocked(now)

	row := e.viewport.CurrentRow
	x := e.ribbon.InsertionX(row, focused, e.viewport.TargetX+e.viewport.Width/2)
	tile := e.ribbon.Insert(win, x, row, tiling.SizeHalf)
	if tile == nil {
		return
	}
	e.windows[win] = &managed{tile: tile, saved: saved}

	width := e.ribbon.TileWidth(tile.Size)
	if !e.viewport.SpanVisible(tile.X, tile.X+width) {
		e.viewport.CenterOn(tile, width, e.ribbon.MaxExtent(), e.ribbon.MaxRow())
		e.startScrollLocked(now)
	}

	e.animateChangesLocked(before, now)
	e.applyOpacityLocked(win)
	e.logger.Info("managing window", "window", win, "x", tile.X, "row", tile.Row)
}

// removeWindowLocked releases a window: exit animation toward its saved
// geometry, structural removal deferred until that animation completes.
func (e *Engine) removeWindowLocked(win platform.WindowID, now time.Time) {
	win, ok := e.targetWindowLocked(win)
	if !ok {
		return
	}
	m, exists := e.windows[win]
	if !exists || m.exiting {
		return
	}

	restoration := e.mapper.ClampRestoration(m.saved.Geometry)
	from := e.appliedRectLocked(m, now)
	exit := anim.NewState(anim.KindExit, from, restoration, now, e.cfg.Animation.Exit())
	m.anim = &exit
	m.exiting = true
	e.ticker.Start()
	e.logger.Info("releasing window", "window", win)
}

func (e *Engine) resizeLocked(win platform.WindowID, now time.Time) {
	win, ok := e.targetWindowLocked(win)
	if !ok {
		return
	}
	m, exists := e.windows[win]
	if !exists {
		// Resizing an unmanaged window pulls it into the ribbon first.
		e.addWindowLocked(win, now)
		return
	}
	if m.exiting {
		return
	}

	before := e.snapshotLocked(now)
	e.ribbon.Resize(m.tile)
	e.recalcPending = true

	width := e.ribbon.TileWidth(m.tile.Size)
	if !e.viewport.SpanVisible(m.tile.X, m.tile.X+width) {
		e.viewport.CenterOn(m.tile, width, e.ribbon.MaxExtent(), e.ribbon.MaxRow())
		e.startScrollLocked(now)
	}

	e.animateChangesLocked(before, now)
}

// moveHorizontalLocked steps a tile along its row. The viewport follows by
// the same distance, so on screen the moved tile holds still while the rest
// of the ribbon glides past it.
func (e *Engine) moveHorizontalLocked(win platform.WindowID, dir tiling.Direction, now time.Time) {
	win, ok := e.targetWindowLocked(win)
	if !ok {
		return
	}
	m, exists := e.windows[win]
	if !exists || m.exiting {
		return
	}

	before := e.snapshotLocked(now)
	moved := e.ribbon.MoveHorizontal(m.tile, dir)
	if moved == 0 {
		return
	}
	// A swap can leave row neighbors overlapping; the deferred
	// recalculation untangles them once motion settles.
	e.recalcPending = true

	e.viewport.TargetX = e.viewport.ClampX(e.viewport.TargetX+moved, e.ribbon.MaxExtent())
	e.viewport.Settle()
	e.scroll = nil

	e.animateChangesLocked(before, now)
}

// moveVerticalLocked relocates a tile one row away and shifts the viewport
// a row in the same direction, keeping the tile visually in place.
func (e *Engine) moveVerticalLocked(win platform.WindowID, dir tiling.Direction, now time.Time) {
	win, ok := e.targetWindowLocked(win)
	if !ok {
		return
	}
	m, exists := e.windows[win]
	if !exists || m.exiting {
		return
	}

	before := e.snapshotLocked(now)
	delta := e.ribbon.MoveVertical(m.tile, dir)
	if delta == 0 {
		return
	}
	e.recalcPending = true

	e.viewport.CurrentRow = e.viewport.ClampRow(e.viewport.CurrentRow+delta, e.ribbon.MaxRow())
	e.viewport.TargetY = e.viewport.CurrentRow * e.viewport.Height
	e.viewport.Settle()
	e.scroll = nil

	e.animateChangesLocked(before, now)
}

func (e *Engine) scrollToFocusedLocked(win platform.WindowID, now time.Time) {
	win, ok := e.targetWindowLocked(win)
	if !ok {
		return
	}
	m, exists := e.windows[win]
	if !exists || m.exiting {
		return
	}

	width := e.ribbon.TileWidth(m.tile.Size)
	e.viewport.CenterOn(m.tile, width, e.ribbon.MaxExtent(), e.ribbon.MaxRow())
	e.startScrollLocked(now)
}

func (e *Engine) adjustTransparencyLocked(delta int) {
	next := e.opacity + delta
	if next < opacityFloor {
		next = opacityFloor
	}
	if next > opacityCeil {
		next = opacityCeil
	}
	if next == e.opacity {
		return
	}
	e.opacity = next
	e.refreshOpacityLocked()
	e.logger.Info("opacity adjusted", "level", e.opacity)
}

// refreshOpacityLocked reapplies the transparency level to every tracked
// window.
func (e *Engine) refreshOpacityLocked() {
	for id, m := range e.windows {
		if !m.exiting {
			e.applyOpacityLocked(id)
		}
	}
	for id := range e.floating {
		e.applyOpacityLocked(id)
	}
}

// applyOpacityLocked sets or removes one window's opacity attribute. A
// level of 255 means the attribute is absent entirely.
func (e *Engine) applyOpacityLocked(id platform.WindowID) {
	if e.opacity >= opacityCeil {
		if err := e.backend.ClearOpacity(id); err != nil {
			e.logger.Warn("failed to clear opacity", "window", id, "error", err)
		}
		return
	}
	if err := e.backend.SetOpacity(id, uint8(e.opacity)); err != nil {
		e.logger.Warn("failed to set opacity", "window", id, "error", err)
	}
}

func (e *Engine) adjustMarginsLocked(sign int, now time.Time) {
	step := e.cfg.Layout.MarginStep
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > marginCeil {
			return marginCeil
		}
		return v
	}

	h := clamp(e.mapper.MarginH + sign*step)
	v := clamp(e.mapper.MarginV + sign*2*step)
	if h == e.mapper.MarginH && v == e.mapper.MarginV {
		return
	}

	before := e.snapshotLocked(now)
	e.mapper.MarginH, e.mapper.MarginV = h, v
	e.animateChangesLocked(before, now)
	e.logger.Info("margins adjusted", "horizontal", h, "vertical", v)
}

func (e *Engine) cycleRateLocked() {
	rates := e.cfg.Animation.Rates
	e.rateIdx = (e.rateIdx + 1) % len(rates)
	e.ticker.SetRate(rates[e.rateIdx])
	e.logger.Info("animation rate changed", "fps", rates[e.rateIdx])
}

// recalculateLocked packs the ribbon, clamps the viewport against the new
// extent, and animates every displaced tile.
func (e *Engine) recalculateLocked(now time.Time) {
	before := e.snapshotLocked(now)

	changed := e.ribbon.Recalculate()
	e.recalcPending = false

	extent := e.ribbon.MaxExtent()
	e.viewport.TargetX = e.viewport.ClampX(e.viewport.TargetX, extent)
	e.viewport.CurrentRow = e.viewport.ClampRow(e.viewport.CurrentRow, e.ribbon.MaxRow())
	e.viewport.TargetY = e.viewport.CurrentRow * e.viewport.Height
	if e.scroll == nil {
		e.viewport.Settle()
	}

	if changed || e.viewport.Moving() {
		e.animateChangesLocked(before, now)
	}
}

// snapshotLocked records every live tile's currently applied rectangle, the
// baseline for animating a structural change.
func (e *Engine) snapshotLocked(now time.Time) map[platform.WindowID]platform.Rect {
	out := make(map[platform.WindowID]platform.Rect, len(e.windows))
	for id, m := range e.windows {
		if m.exiting {
			continue
		}
		out[id] = e.appliedRectLocked(m, now)
	}
	return out
}

// appliedRectLocked is the rectangle the window holds right now: the
// interpolated animation value, or its settled position at the current
// offsets.
func (e *Engine) appliedRectLocked(m *managed, now time.Time) platform.Rect {
	if m.anim != nil {
		r, _ := m.anim.At(now)
		return r
	}
	width := e.ribbon.TileWidth(m.tile.Size)
	return e.mapper.ScreenRect(m.tile, width, e.viewport.OffsetX, e.viewport.OffsetY)
}

// targetRectLocked is where the window belongs once all motion settles.
func (e *Engine) targetRectLocked(m *managed) platform.Rect {
	width := e.ribbon.TileWidth(m.tile.Size)
	return e.mapper.ScreenRect(m.tile, width, e.viewport.TargetX, e.viewport.TargetY)
}

// animateChangesLocked starts or retargets a move animation for every tile
// whose settled rectangle changed since the snapshot. Tiles absent from the
// snapshot are newcomers and get an entry animation instead.
func (e *Engine) animateChangesLocked(before map[platform.WindowID]platform.Rect, now time.Time) {
	for id, m := range e.windows {
		if m.exiting {
			continue
		}
		target := e.targetRectLocked(m)

		prev, seen := before[id]
		if !seen {
			entry := anim.NewState(anim.KindEntry, anim.EntryFrom(target), target, now, e.cfg.Animation.Entry())
			m.anim = &entry
			continue
		}

		if m.anim != nil {
			duration := e.cfg.Animation.Move()
			if m.anim.Kind == anim.KindEntry {
				duration = e.cfg.Animation.Entry()
			}
			next := m.anim.Retarget(now, target, duration)
			m.anim = &next
			continue
		}
		if prev != target {
			move := anim.NewState(anim.KindMove, prev, target, now, e.cfg.Animation.Move())
			m.anim = &move
		}
	}

	if e.animatingLocked() {
		e.ticker.Start()
	}
}

func (e *Engine) startScrollLocked(now time.Time) {
	v := e.viewport
	if !v.Moving() {
		return
	}
	duration := e.cfg.Animation.Scroll()
	if e.scroll != nil {
		next := e.scroll.Retarget(now, v.TargetX, v.TargetY, duration)
		e.scroll = &next
	} else {
		next := anim.NewScroll(v.OffsetX, v.TargetX, v.OffsetY, v.TargetY, now, duration)
		e.scroll = &next
	}
	e.ticker.Start()
}

func (e *Engine) animatingLocked() bool {
	if e.scroll != nil {
		return true
	}
	for _, m := range e.windows {
		if m.anim != nil {
			return true
		}
	}
	return false
}

// stepLocked advances all live animations one frame and commits the
// resulting rectangles in a single batched reposition.
func (e *Engine) stepLocked(now time.Time) {
	if e.scroll != nil {
		x, y, done := e.scroll.At(now)
		e.viewport.OffsetX, e.viewport.OffsetY = x, y
		if done {
			e.scroll = nil
			e.viewport.TargetX = e.viewport.ClampX(e.viewport.TargetX, e.ribbon.MaxExtent())
			e.viewport.Settle()
			e.recalcPending = true
			e.focusFollowLocked()
		}
	}

	var finishedExits []platform.WindowID
	for id, m := range e.windows {
		if m.anim == nil {
			continue
		}
		if _, done := m.anim.At(now); done {
			if m.exiting {
				finishedExits = append(finishedExits, id)
			} else {
				m.anim = nil
			}
		}
	}

	e.applyLocked(now)

	for _, id := range finishedExits {
		e.finishExitLocked(id)
	}

	if !e.animatingLocked() {
		e.ticker.Stop()
		if e.recalcPending {
			e.recalculateLocked(now)
		}
	}
}

// applyLocked pushes every live rectangle to the backend in one batch.
// Failures are swallowed; the model stays authoritative and the next
// recalculation corrects any drift.
func (e *Engine) applyLocked(now time.Time) {
	updates := make([]platform.Update, 0, len(e.windows))
	for id, m := range e.windows {
		rect := e.appliedRectLocked(m, now)
		if !e.mapper.Reasonable(rect) {
			continue
		}
		updates = append(updates, platform.Update{Window: id, Bounds: rect})
	}

	if err := e.backend.BatchMoveResize(updates); err != nil {
		e.logger.Error("batched reposition failed", "error", err)
	}
}

// finishExitLocked completes a release: restore the window's original
// state, drop the tile, and queue the gap-closing recalculation.
func (e *Engine) finishExitLocked(id platform.WindowID) {
	m, exists := e.windows[id]
	if !exists {
		return
	}
	if err := e.backend.RestoreState(id, m.saved); err != nil {
		e.logger.Error("failed to restore window", "window", id, "error", err)
	}
	e.ribbon.Remove(id)
	delete(e.windows, id)
	e.recalcPending = true

	if e.ribbon.Len() == 0 {
		e.viewport.Reset()
	}
	e.logger.Info("released window", "window", id)
}

// focusFollowLocked hands focus to the tile nearest the viewport center
// after a scroll settles. A request only; the host may decline.
func (e *Engine) focusFollowLocked() {
	var best platform.WindowID
	bestDist := -1

	cx := e.mapper.ScreenWidth / 2
	cy := e.mapper.ScreenHeight / 2

	for id, m := range e.windows {
		if m.exiting {
			continue
		}
		width := e.ribbon.TileWidth(m.tile.Size)
		rect := e.mapper.ScreenRect(m.tile, width, e.viewport.OffsetX, e.viewport.OffsetY)
		if !e.mapper.Visible(rect) {
			continue
		}
		dx := rect.CenterX() - cx
		dy := rect.CenterY() - cy
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist {
			best, bestDist = id, dist
		}
	}

	if bestDist < 0 {
		return
	}
	if err := e.backend.Focus(best); err != nil {
		e.logger.Warn("focus request declined", "window", best, "error", err)
	}
}

// Shutdown restores every window and stops the engine. Safe to call more
// than once and from any goroutine.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdownLocked()
}

func (e *Engine) shutdownLocked() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.ticker.Stop()

	// No further ticks will run, so windows are restored directly rather
	// than through exit animations.
	for id, m := range e.windows {
		if err := e.backend.RestoreState(id, m.saved); err != nil {
			e.logger.Error("failed to restore window on shutdown", "window", id, "error", err)
		}
		e.ribbon.Remove(id)
	}
	e.windows = make(map[platform.WindowID]*managed)

	for id := range e.floating {
		if err := e.backend.ClearOpacity(id); err != nil {
			e.logger.Warn("failed to clear opacity", "window", id, "error", err)
		}
	}
	e.floating = make(map[platform.WindowID]struct{})

	e.scroll = nil
	e.viewport.Reset()
	close(e.done)
	e.logger.Info("engine shut down, all windows restored")
}
