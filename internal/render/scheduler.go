package render

// DrawFunc redraws the requested layers.
type DrawFunc func(static, interactive bool)

// Scheduler coalesces redraw requests into at most one draw per frame tick.
// Requests only set dirty flags; Flush performs the draw. It is driven by the
// owner's frame clock and is not safe for concurrent use.
type Scheduler struct {
	draw        DrawFunc
	static      bool
	interactive bool
	frames      int
}

func NewScheduler(draw DrawFunc) *Scheduler {
	if draw == nil {
		panic("NewScheduler requires a non-nil DrawFunc")
	}
	return &Scheduler{draw: draw}
}

func (s *Scheduler) Request(l Layer) {
	switch l {
	case LayerStatic:
		s.static = true
	case LayerInteractive:
		s.interactive = true
	}
}

// RequestScene marks both layers dirty; the overlay follows the camera too.
func (s *Scheduler) RequestScene() {
	s.static = true
	s.interactive = true
}

func (s *Scheduler) RequestOverlay() { s.interactive = true }

// RenderNow draws both layers synchronously and drops pending requests.
func (s *Scheduler) RenderNow() {
	s.Cancel()
	s.frames++
	s.draw(true, true)
}

// Flush runs the pending draw, if any. It reports whether a draw happened.
func (s *Scheduler) Flush() bool {
	if !s.Pending() {
		return false
	}
	st, in := s.static, s.interactive
	s.Cancel()
	s.frames++
	s.draw(st, in)
	return true
}

// Cancel drops pending requests.
func (s *Scheduler) Cancel() {
	s.static = false
	s.interactive = false
}

func (s *Scheduler) Pending() bool { return s.static || s.interactive }

// Frames counts draws performed.
func (s *Scheduler) Frames() int { return s.frames }
