package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/ribbonwm/internal/config"
	"github.com/1broseidon/ribbonwm/internal/platform"
)

// fakeBackend is an in-memory windowing collaborator. Every window it
// knows about is alive, visible, and manageable unless marked otherwise.
type fakeBackend struct {
	width, height int
	active        platform.WindowID

	dead      map[platform.WindowID]bool
	hidden    map[platform.WindowID]bool
	minimized map[platform.WindowID]bool
	popup     map[platform.WindowID]bool
	geoms     map[platform.WindowID]platform.Rect

	applied  map[platform.WindowID]platform.Rect
	restored map[platform.WindowID]platform.WindowState
	opacity  map[platform.WindowID]uint8
	focused  []platform.WindowID
	batches  int
}

var _ platform.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		width:     1920,
		height:    1080,
		dead:      make(map[platform.WindowID]bool),
		hidden:    make(map[platform.WindowID]bool),
		minimized: make(map[platform.WindowID]bool),
		popup:     make(map[platform.WindowID]bool),
		geoms:     make(map[platform.WindowID]platform.Rect),
		applied:   make(map[platform.WindowID]platform.Rect),
		restored:  make(map[platform.WindowID]platform.WindowState),
		opacity:   make(map[platform.WindowID]uint8),
	}
}

func (f *fakeBackend) addFakeWindow(id platform.WindowID, geom platform.Rect) {
	f.geoms[id] = geom
}

func (f *fakeBackend) DisplaySize() (int, int, error) { return f.width, f.height, nil }

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) { return f.active, nil }

func (f *fakeBackend) Classify(id platform.WindowID) platform.Classification {
	if f.dead[id] {
		return platform.ClassIgnore
	}
	if f.popup[id] {
		return platform.ClassFloat
	}
	if _, known := f.geoms[id]; !known {
		return platform.ClassIgnore
	}
	return platform.ClassManage
}

func (f *fakeBackend) WindowAlive(id platform.WindowID) bool     { return !f.dead[id] }
func (f *fakeBackend) WindowVisible(id platform.WindowID) bool   { return !f.dead[id] && !f.hidden[id] }
func (f *fakeBackend) WindowMinimized(id platform.WindowID) bool { return f.minimized[id] }

func (f *fakeBackend) WindowGeometry(id platform.WindowID) (platform.Rect, error) {
	return f.geoms[id], nil
}

func (f *fakeBackend) CaptureState(id platform.WindowID) (platform.WindowState, error) {
	return platform.WindowState{Geometry: f.geoms[id]}, nil
}

func (f *fakeBackend) RestoreState(id platform.WindowID, s platform.WindowState) error {
	f.restored[id] = s
	return nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect) error {
	f.applied[id] = r
	return nil
}

func (f *fakeBackend) BatchMoveResize(updates []platform.Update) error {
	f.batches++
	for _, u := range updates {
		f.applied[u.Window] = u.Bounds
	}
	return nil
}

func (f *fakeBackend) SetOpacity(id platform.WindowID, alpha uint8) error {
	f.opacity[id] = alpha
	return nil
}

func (f *fakeBackend) ClearOpacity(id platform.WindowID) error {
	delete(f.opacity, id)
	return nil
}

func (f *fakeBackend) Focus(id platform.WindowID) error {
	f.focused = append(f.focused, id)
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(t *testing.T) (*Engine, *fakeBackend, *fakeClock) {
	t.Helper()
	backend := newFakeBackend()
	cfg := config.DefaultConfig()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := New(backend, cfg, logger)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	clk := &fakeClock{t: time.Unix(1000, 0)}
	e.now = clk.Now
	t.Cleanup(e.Shutdown)
	return e, backend, clk
}

// send dispatches one command at the fake clock's current time.
func send(e *Engine, clk *fakeClock, kind CommandKind, win platform.WindowID) {
	e.Process(Command{Kind: kind, Window: win, At: clk.t})
}

// settle advances past the animation duration and runs one frame so every
// in-flight animation completes.
func settle(e *Engine, clk *fakeClock) {
	clk.advance(time.Second)
	e.mu.Lock()
	e.stepLocked(e.now())
	e.mu.Unlock()
}

func findWindow(t *testing.T, s Status, id uint32) WindowStatus {
	t.Helper()
	for _, w := range s.Windows {
		if w.ID == id {
			return w
		}
	}
	t.Fatalf("window %d not in status %+v", id, s.Windows)
	return WindowStatus{}
}

func TestAddResizeRemoveSequence(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{X: 100, Y: 100, Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{X: 200, Y: 150, Width: 640, Height: 480})

	// Add W1: half tile at the row start.
	send(e, clk, CmdAddWindow, 1)
	w1 := findWindow(t, e.Status(), 1)
	if w1.X != 0 || w1.Row != 0 || w1.Size != "half" {
		t.Fatalf("w1 = %+v, want x=0 row=0 half", w1)
	}

	// Add W2 with W1 focused: lands at [960,1920).
	backend.active = 1
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)
	if w2 := findWindow(t, e.Status(), 2); w2.X != 960 {
		t.Fatalf("w2 x = %d, want 960", w2.X)
	}

	// Resize W1 to full: W2 shifts to 1920, one viewport step of slack.
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdResizeRight, 1)
	s := e.Status()
	if w2 := findWindow(t, s, 2); w2.X != 1920 {
		t.Fatalf("w2 x after resize = %d, want 1920", w2.X)
	}
	if s.MaxOffset != 960 {
		t.Fatalf("max offset = %d, want 960", s.MaxOffset)
	}

	// Remove W2: exit animation first, structural removal deferred.
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdRemoveWindow, 2)
	if s := e.Status(); s.Managed != 2 {
		t.Fatalf("managed = %d immediately after remove, want 2 (exit pending)", s.Managed)
	}

	// After the exit completes: W2 restored, gap closed, no slack left.
	settle(e, clk)
	s = e.Status()
	if s.Managed != 1 {
		t.Fatalf("managed = %d after exit, want 1", s.Managed)
	}
	restored, ok := backend.restored[2]
	if !ok {
		t.Fatal("w2 was not restored")
	}
	if restored.Geometry.Width != 640 || restored.Geometry.Height != 480 {
		t.Errorf("restored geometry = %+v, want 640x480", restored.Geometry)
	}
	w1 = findWindow(t, s, 1)
	if w1.X != 0 || w1.Size != "full" {
		t.Errorf("w1 = %+v, want x=0 full", w1)
	}
	if s.MaxOffset != 0 {
		t.Errorf("max offset after remove = %d, want 0", s.MaxOffset)
	}
}

func TestPanClampsAtExtent(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(3, platform.Rect{Width: 800, Height: 600})

	for _, id := range []platform.WindowID{1, 2, 3} {
		send(e, clk, CmdAddWindow, id)
		clk.advance(100 * time.Millisecond)
	}
	settle(e, clk)
	if s := e.Status(); s.Extent != 2880 || s.MaxOffset != 960 {
		t.Fatalf("extent/maxoffset = %d/%d, want 2880/960", s.Extent, s.MaxOffset)
	}

	// Back to the origin, then pan right twice: the first pan reaches the
	// clamp, the second is a no-op.
	send(e, clk, CmdPanLeft, 0)
	settle(e, clk)
	send(e, clk, CmdPanRight, 0)
	if s := e.Status(); s.TargetX != 960 {
		t.Fatalf("target after first pan = %d, want 960", s.TargetX)
	}
	send(e, clk, CmdPanRight, 0)
	if s := e.Status(); s.TargetX != 960 {
		t.Fatalf("target after second pan = %d, want 960 unchanged", s.TargetX)
	}
}

func TestPanIsNotThrottled(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	send(e, clk, CmdResizeRight, 1) // full: extent 1920
	settle(e, clk)

	// Build slack: second full tile.
	clk.advance(100 * time.Millisecond)
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 2)
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdResizeRight, 2)
	settle(e, clk)

	// The resize recentered the viewport at the far end.
	if s := e.Status(); s.TargetX != 1920 {
		t.Fatalf("target = %d, want 1920 before panning", s.TargetX)
	}

	// Two pans back to back, zero time apart, both take effect.
	send(e, clk, CmdPanLeft, 0)
	send(e, clk, CmdPanLeft, 0)
	if s := e.Status(); s.TargetX != 0 {
		t.Fatalf("target = %d, want 0 after two unthrottled pans", s.TargetX)
	}
}

func TestThrottleDropsRapidRepeats(t *testing.T) {
	e, _, clk := newTestEngine(t)

	start := e.Status().Opacity

	// Two transparency bumps 10ms apart: the second is dropped.
	send(e, clk, CmdTransparencyDown, 0)
	clk.advance(10 * time.Millisecond)
	send(e, clk, CmdTransparencyDown, 0)
	if got := e.Status().Opacity; got != start-10 {
		t.Fatalf("opacity = %d, want %d (one step)", got, start-10)
	}

	// 51ms apart: both execute.
	clk.advance(51 * time.Millisecond)
	send(e, clk, CmdTransparencyDown, 0)
	if got := e.Status().Opacity; got != start-20 {
		t.Fatalf("opacity = %d, want %d (two steps)", got, start-20)
	}
}

func TestTransparencySaturates(t *testing.T) {
	e, _, clk := newTestEngine(t)

	for i := 0; i < 50; i++ {
		clk.advance(60 * time.Millisecond)
		send(e, clk, CmdTransparencyDown, 0)
	}
	if got := e.Status().Opacity; got != 50 {
		t.Fatalf("opacity floor = %d, want 50", got)
	}

	for i := 0; i < 50; i++ {
		clk.advance(60 * time.Millisecond)
		send(e, clk, CmdTransparencyUp, 0)
	}
	if got := e.Status().Opacity; got != 255 {
		t.Fatalf("opacity ceiling = %d, want 255", got)
	}
}

func TestTransparencyAttributeLifecycle(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)

	// At the default level of 255 no opacity attribute is set.
	if _, ok := backend.opacity[1]; ok {
		t.Fatal("opacity attribute set at level 255")
	}

	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdTransparencyDown, 0)
	if got := backend.opacity[1]; got != 245 {
		t.Fatalf("opacity = %d, want 245", got)
	}

	// Back at 255 the attribute is removed again.
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdTransparencyUp, 0)
	if _, ok := backend.opacity[1]; ok {
		t.Fatal("opacity attribute should be removed at 255")
	}
}

func TestResizeAddsUnmanagedWindow(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(5, platform.Rect{Width: 800, Height: 600})

	send(e, clk, CmdResizeRight, 5)

	s := e.Status()
	if s.Managed != 1 {
		t.Fatalf("managed = %d, want 1 (resize adopts unmanaged windows)", s.Managed)
	}
	if w := findWindow(t, s, 5); w.Size != "half" {
		t.Errorf("size = %s, want half (adopted, not toggled)", w.Size)
	}
}

func TestMarginsSaturate(t *testing.T) {
	e, _, clk := newTestEngine(t)

	for i := 0; i < 100; i++ {
		clk.advance(60 * time.Millisecond)
		send(e, clk, CmdMarginsDown, 0)
	}
	s := e.Status()
	if s.MarginH != 0 || s.MarginV != 0 {
		t.Fatalf("margins = %d/%d, want 0/0", s.MarginH, s.MarginV)
	}

	for i := 0; i < 100; i++ {
		clk.advance(60 * time.Millisecond)
		send(e, clk, CmdMarginsUp, 0)
	}
	s = e.Status()
	if s.MarginH != 200 || s.MarginV != 200 {
		t.Fatalf("margins = %d/%d, want 200/200", s.MarginH, s.MarginV)
	}
}

func TestCleanupDropsVanishedWindows(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)
	settle(e, clk)

	backend.dead[2] = true

	// Any command triggers the cleanup pass first.
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdPanRight, 0)

	s := e.Status()
	if s.Managed != 1 {
		t.Fatalf("managed = %d, want 1 after cleanup", s.Managed)
	}
	// The survivor is repacked to the origin.
	if w1 := findWindow(t, s, 1); w1.X != 0 {
		t.Errorf("w1 x = %d, want 0", w1.X)
	}
	// A vanished window is never "restored": it no longer exists.
	if _, ok := backend.restored[2]; ok {
		t.Error("vanished window should not get a restore call")
	}
}

func TestMinimizedWindowsAreReleased(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	settle(e, clk)

	backend.minimized[1] = true
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdForceRecalc, 0)

	if s := e.Status(); s.Managed != 0 {
		t.Fatalf("managed = %d, want 0 after minimize", s.Managed)
	}
}

func TestCommandForUnmanagedWindowIsNoOp(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)

	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdRemoveWindow, 99)
	send(e, clk, CmdMoveRight, 99)

	if s := e.Status(); s.Managed != 1 {
		t.Fatalf("managed = %d, want 1", s.Managed)
	}
}

func TestDuplicateAddIsNoOp(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 1)

	if s := e.Status(); s.Managed != 1 {
		t.Fatalf("managed = %d, want 1", s.Managed)
	}
}

func TestPopupWindowsFloat(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.popup[7] = true
	backend.addFakeWindow(7, platform.Rect{Width: 400, Height: 300})

	send(e, clk, CmdAddWindow, 7)

	s := e.Status()
	if s.Managed != 0 || s.Floating != 1 {
		t.Fatalf("managed/floating = %d/%d, want 0/1", s.Managed, s.Floating)
	}
	// Floating windows are focused on arrival but never repositioned.
	if _, ok := backend.applied[7]; ok {
		t.Error("floating window should not be repositioned")
	}
	if len(backend.focused) == 0 || backend.focused[len(backend.focused)-1] != 7 {
		t.Error("popup should receive a focus request")
	}
}

func TestEntryAnimationConverges(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)

	// Mid-animation the window is smaller than its target.
	clk.advance(50 * time.Millisecond)
	e.mu.Lock()
	e.stepLocked(e.now())
	e.mu.Unlock()
	mid := backend.applied[1]
	target := platform.Rect{X: 20, Y: 40, Width: 920, Height: 1000}
	if mid.Width >= target.Width {
		t.Fatalf("mid-entry width = %d, want < %d", mid.Width, target.Width)
	}

	// After the duration it sits exactly on target.
	settle(e, clk)
	if got := backend.applied[1]; got != target {
		t.Fatalf("final rect = %+v, want %+v", got, target)
	}
}

func TestMoveHorizontalSwapsAndHoldsFocusStill(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	backend.active = 1
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)
	settle(e, clk)

	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdMoveRight, 1)

	s := e.Status()
	w1, w2 := findWindow(t, s, 1), findWindow(t, s, 2)
	if w1.X != 960 || w2.X != 0 {
		t.Fatalf("positions = %d/%d, want swap to 960/0", w1.X, w2.X)
	}
	// The viewport followed the mover, so its settled screen position is
	// unchanged. (Offset clamps to 0 here since the extent is one screen.)
	if s.OffsetX != s.TargetX {
		t.Fatalf("offsets not settled: %d != %d", s.OffsetX, s.TargetX)
	}
}

func TestMoveVerticalOpensRow(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	settle(e, clk)

	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdMoveDown, 1)

	s := e.Status()
	w1 := findWindow(t, s, 1)
	if w1.Row != 1 {
		t.Fatalf("row = %d, want 1", w1.Row)
	}
	if s.Row != 1 {
		t.Fatalf("viewport row = %d, want 1 (follows the mover)", s.Row)
	}

	// Moving up from row 0 is a no-op.
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdMoveUp, 1)
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdMoveUp, 1)
	if got := findWindow(t, e.Status(), 1).Row; got != 0 {
		t.Fatalf("row = %d, want 0", got)
	}
}

func TestShutdownRestoresEverything(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{X: 5, Y: 6, Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{X: 7, Y: 8, Width: 640, Height: 480})
	send(e, clk, CmdAddWindow, 1)
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)

	clk.advance(100 * time.Millisecond)
	if done := e.Process(Command{Kind: CmdShutdown, At: clk.t}); !done {
		t.Fatal("shutdown command should report done")
	}

	for _, id := range []platform.WindowID{1, 2} {
		if _, ok := backend.restored[id]; !ok {
			t.Errorf("window %d not restored on shutdown", id)
		}
	}

	select {
	case <-e.Done():
	default:
		t.Error("Done should be closed after shutdown")
	}
}

func TestResolutionChangeRepacksWithoutAnimation(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	backend.active = 1
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)
	settle(e, clk)

	backend.width, backend.height = 2560, 1440
	e.mu.Lock()
	e.checkResolutionLocked(e.now())
	animating := e.animatingLocked()
	e.mu.Unlock()

	if animating {
		t.Fatal("resolution change must not animate")
	}

	s := e.Status()
	if s.Screen.Width != 2560 || s.Screen.Height != 1440 {
		t.Fatalf("screen = %dx%d, want 2560x1440", s.Screen.Width, s.Screen.Height)
	}
	// Half tiles are now 1280 wide and repacked.
	if w2 := findWindow(t, s, 2); w2.X != 1280 {
		t.Fatalf("w2 x = %d, want 1280", w2.X)
	}
	// New geometry applied immediately.
	if got := backend.applied[2]; got.Width != 1280-s.MarginH {
		t.Fatalf("applied width = %d, want %d", got.Width, 1280-s.MarginH)
	}
}

func TestScrollCompletionRequestsFocus(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(3, platform.Rect{Width: 800, Height: 600})
	for _, id := range []platform.WindowID{1, 2, 3} {
		send(e, clk, CmdAddWindow, id)
		clk.advance(100 * time.Millisecond)
	}
	settle(e, clk)

	requestsBefore := len(backend.focused)
	send(e, clk, CmdPanLeft, 0)
	settle(e, clk)

	if len(backend.focused) <= requestsBefore {
		t.Fatal("no focus request after scroll completion")
	}
	// At offset 0 the first two tiles fill the screen; both centers sit
	// 480 from screen center, and the nearest visible tile wins.
	last := backend.focused[len(backend.focused)-1]
	if last != 1 && last != 2 {
		t.Errorf("focused %d, want tile 1 or 2", last)
	}
}

func TestEmptyRibbonResetsViewport(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	settle(e, clk)

	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdMoveDown, 1) // viewport to row 1
	settle(e, clk)

	backend.dead[1] = true
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdPanRight, 0)

	s := e.Status()
	if s.Managed != 0 || s.Row != 0 || s.OffsetX != 0 {
		t.Fatalf("status after last window left = %+v, want empty at origin", s)
	}
}

func TestMoveIntoCrowdedRowRepacksNeighbors(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(3, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	backend.active = 1
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)
	backend.active = 2
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 3)
	settle(e, clk)

	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdResizeRight, 1) // w1 full, w2 and w3 shift right
	settle(e, clk)

	// The full tile swaps with W2 but now spans two half slots, landing on
	// top of W3. The idle recalculation squeezes the row back together.
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdMoveRight, 1)
	settle(e, clk)
	settle(e, clk)

	s := e.Status()
	w1, w2, w3 := findWindow(t, s, 1), findWindow(t, s, 2), findWindow(t, s, 3)
	if w2.X != 0 || w1.X != 960 || w3.X != 2880 {
		t.Fatalf("positions = %d/%d/%d, want 0/960/2880", w2.X, w1.X, w3.X)
	}
	if w1.Size != "full" {
		t.Fatalf("w1 size = %s, want full", w1.Size)
	}
}

func TestShrinkClosesRowGap(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)
	backend.active = 1
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)
	settle(e, clk)

	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdResizeRight, 1) // grow to full, w2 shifts to 1920
	settle(e, clk)

	// Shrinking back leaves a half-width hole in front of W2 until the
	// idle recalculation closes it.
	clk.advance(100 * time.Millisecond)
	send(e, clk, CmdResizeRight, 1)
	settle(e, clk)
	settle(e, clk)

	s := e.Status()
	if w2 := findWindow(t, s, 2); w2.X != 960 {
		t.Fatalf("w2 x = %d, want 960 (gap closed)", w2.X)
	}
	if w1 := findWindow(t, s, 1); w1.Size != "half" {
		t.Fatalf("w1 size = %s, want half", w1.Size)
	}
}

func TestInterruptedEntryKeepsItsPace(t *testing.T) {
	e, backend, clk := newTestEngine(t)
	backend.addFakeWindow(1, platform.Rect{Width: 800, Height: 600})
	backend.addFakeWindow(2, platform.Rect{Width: 800, Height: 600})
	send(e, clk, CmdAddWindow, 1)

	// A second add mid-entry resamples W1's animation. The restarted leg
	// runs on the entry clock, not the much shorter move clock.
	backend.active = 1
	clk.advance(60 * time.Millisecond)
	send(e, clk, CmdAddWindow, 2)

	clk.advance(100 * time.Millisecond)
	e.mu.Lock()
	e.stepLocked(e.now())
	e.mu.Unlock()

	target := platform.Rect{X: 20, Y: 40, Width: 920, Height: 1000}
	if got := backend.applied[1]; got.Width >= target.Width {
		t.Fatalf("width %d after 100ms of the restarted entry, want still growing toward %d", got.Width, target.Width)
	}

	settle(e, clk)
	if got := backend.applied[1]; got != target {
		t.Fatalf("final rect = %+v, want %+v", got, target)
	}
}
