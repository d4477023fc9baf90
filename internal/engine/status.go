package engine

// Status is a point-in-time snapshot of the engine for the IPC surface.
type Status struct {
	Managed   int  `json:"managed"`
	Floating  int  `json:"floating"`
	Row       int  `json:"row"`
	OffsetX   int  `json:"offset_x"`
	TargetX   int  `json:"target_x"`
	MaxOffset int  `json:"max_offset"`
	Extent    int  `json:"extent"`
	Animating bool `json:"animating"`

	Strategy string `json:"strategy"`
	Opacity  int    `json:"opacity"`
	Rate     int    `json:"rate"`
	MarginH  int    `json:"margin_h"`
	MarginV  int    `json:"margin_v"`

	Screen struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"screen"`

	Windows []WindowStatus `json:"windows"`
}

// WindowStatus describes one managed tile.
type WindowStatus struct {
	ID   uint32 `json:"id"`
	X    int    `json:"x"`
	Row  int    `json:"row"`
	Size string `json:"size"`
}

// Status returns a consistent snapshot. Safe to call from any goroutine.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Status{
		Managed:   e.ribbon.Len(),
		Floating:  len(e.floating),
		Row:       e.viewport.CurrentRow,
		OffsetX:   e.viewport.OffsetX,
		TargetX:   e.viewport.TargetX,
		MaxOffset: e.viewport.MaxOffsetX(e.ribbon.MaxExtent()),
		Extent:    e.ribbon.MaxExtent(),
		Animating: e.animatingLocked(),
		Strategy:  e.cfg.Layout.Strategy,
		Opacity:   e.opacity,
		Rate:      e.cfg.Animation.Rates[e.rateIdx],
		MarginH:   e.mapper.MarginH,
		MarginV:   e.mapper.MarginV,
	}
	s.Screen.Width = e.mapper.ScreenWidth
	s.Screen.Height = e.mapper.ScreenHeight

	for _, t := range e.ribbon.Tiles() {
		s.Windows = append(s.Windows, WindowStatus{
			ID:   uint32(t.Window),
			X:    t.X,
			Row:  t.Row,
			Size: t.Size.String(),
		})
	}

	return s
}
