package shiftmatrix

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/devices/v3/shiftmatrix/glyph"
	"periph.io/x/devices/v3/shiftmatrix/image1bit"
)

// DefaultColumnDwell is how long each scroll position stays on screen.
const DefaultColumnDwell = 40 * time.Millisecond

// Phase is the state of a scroll pass.
type Phase int

const (
	// Filling renders glyph columns into the window.
	Filling Phase = iota
	// Draining shifts the last filled window out to the left.
	Draining
	// Done ends the pass, either drained or interrupted.
	Done
)

func (p Phase) String() string {
	switch p {
	case Filling:
		return "Filling"
	case Draining:
		return "Draining"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Renderer draws one complete frame of a window. *Scanner implements it.
type Renderer interface {
	ScanFrame(w *image1bit.Window) error
}

// Poller reports, without blocking, whether new input is waiting.
type Poller interface {
	Pending() bool
}

// PollerFunc adapts a function to Poller.
type PollerFunc func() bool

// Pending implements Poller.
func (f PollerFunc) Pending() bool {
	return f()
}

type neverPending struct{}

func (neverPending) Pending() bool { return false }

// EngineOpts is the configuration for a scroll Engine.
type EngineOpts struct {
	W int // Window width (default: 32, must be between 1 and 64)
	H int // Window height (default: 8, must be between 1 and 8)

	ColumnDwell time.Duration   // Time per scroll position (default: 40ms)
	Clock       clockwork.Clock // Dwell clock, must move on its own (default: real clock)
	Input       Poller          // Checked at every safe point (default: never pending)

	// LeadIn starts each pass with a blank window so the text enters from
	// the right edge instead of appearing left-aligned.
	LeadIn bool
}

// Engine scrolls a glyph buffer across the display window one column per
// tick.
//
// Filling ticks render the window from the cursor position; once the cursor
// passes the last glyph the last filled window is shifted left one more
// column per tick until it is empty.
type Engine struct {
	r     Renderer
	clock clockwork.Clock
	in    Poller
	dwell time.Duration
	width int
	lead  bool

	buf   *glyph.Buffer
	win   *image1bit.Window
	drain *image1bit.Window // window at the end of Filling

	phase       Phase
	glyphIdx    int // glyph under the leftmost column
	bitOff      int // column within that glyph
	blank       int // lead-in columns left before glyph 0
	shift       int // drain shift count
	ticks       int
	interrupted bool
}

// NewEngine returns an idle engine rendering through r.
//
// opts can be nil to use defaults.
func NewEngine(r Renderer, opts *EngineOpts) (*Engine, error) {
	if r == nil {
		return nil, errors.New("shiftmatrix: renderer is required")
	}
	if opts == nil {
		opts = &EngineOpts{}
	}
	w, h := opts.W, opts.H
	if w == 0 {
		w = Width
	}
	if h == 0 {
		h = Height
	}
	if w < 0 || w > image1bit.MaxWidth {
		return nil, errors.New("shiftmatrix: width must be between 1 and 64")
	}
	if h < 0 || h > 8 {
		return nil, errors.New("shiftmatrix: height must be between 1 and 8")
	}
	e := &Engine{
		r:     r,
		clock: opts.Clock,
		in:    opts.Input,
		dwell: opts.ColumnDwell,
		width: w,
		lead:  opts.LeadIn,
		win:   image1bit.NewWindow(w, h),
		drain: image1bit.NewWindow(w, h),
		phase: Done,
	}
	if e.clock == nil {
		e.clock = clockwork.NewRealClock()
	}
	if e.in == nil {
		e.in = neverPending{}
	}
	if e.dwell == 0 {
		e.dwell = DefaultColumnDwell
	}
	return e, nil
}

// Load starts a new pass over buf. buf is read, never modified, and must not
// change until the pass is Done. A nil or empty buffer ends on the next tick.
func (e *Engine) Load(buf *glyph.Buffer) {
	e.buf = buf
	e.win.Clear()
	e.drain.Clear()
	e.phase = Filling
	e.glyphIdx = 0
	e.bitOff = 0
	e.blank = 0
	if e.lead {
		e.blank = e.width
	}
	e.shift = 0
	e.ticks = 0
	e.interrupted = false
}

// Tick advances the pass by one column and renders the result for the
// column dwell. It returns the phase after the tick.
//
// Pending input is checked before the window changes and between frames;
// when seen, the pass ends as Done and Interrupted reports true. An
// in-flight frame is always completed first.
func (e *Engine) Tick() (Phase, error) {
	if e.phase == Done {
		return Done, nil
	}
	if e.in.Pending() {
		e.abandon()
		return Done, nil
	}

	switch e.phase {
	case Filling:
		if e.buf == nil || e.buf.Len() == 0 {
			e.win.Clear()
			e.ticks++
			e.phase = Done
			return Done, nil
		}
		e.fill()
		e.ticks++
		if err := e.hold(); err != nil {
			return e.phase, err
		}
		if e.interrupted {
			return Done, nil
		}
		e.advance()

	case Draining:
		e.shift++
		e.win.CopyFrom(e.drain)
		e.win.ShiftLeft(e.shift)
		e.ticks++
		if err := e.hold(); err != nil {
			return e.phase, err
		}
		if e.interrupted {
			return Done, nil
		}
		if e.shift >= e.width {
			e.phase = Done
		}
	}
	return e.phase, nil
}

// Run ticks until the pass is Done.
func (e *Engine) Run() error {
	for e.phase != Done {
		if _, err := e.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Ticks returns the number of ticks of the current pass.
func (e *Engine) Ticks() int {
	return e.ticks
}

// Interrupted reports whether the pass was abandoned for new input.
func (e *Engine) Interrupted() bool {
	return e.interrupted
}

// Cursor returns the glyph index and bit offset of the next Filling tick.
func (e *Engine) Cursor() (glyphIdx, bitOff int) {
	return e.glyphIdx, e.bitOff
}

// Window returns a copy of the current window.
func (e *Engine) Window() *image1bit.Window {
	return e.win.Copy()
}

// fill redraws the window from the cursor, leaving columns past the last
// glyph blank.
func (e *Engine) fill() {
	e.win.Clear()
	g, off := e.glyphIdx, e.bitOff
	n := e.buf.Len()
	for col := e.blank; col < e.width && g < n; col++ {
		src := e.buf.At(g)
		for row := 0; row < e.win.Height() && row < glyph.Height; row++ {
			if src.Bit(row, off) {
				e.win.SetPixel(row, col, true)
			}
		}
		off++
		if off == glyph.Width {
			off = 0
			g++
		}
	}
}

// advance moves the cursor one column and enters Draining once it passes
// the last glyph.
func (e *Engine) advance() {
	if e.blank > 0 {
		e.blank--
		return
	}
	e.bitOff = (e.bitOff + 1) % glyph.Width
	if e.bitOff == 0 {
		e.glyphIdx++
	}
	if e.glyphIdx >= e.buf.Len() {
		e.drain.CopyFrom(e.win)
		e.phase = Draining
	}
}

// hold renders frames until the column dwell has elapsed, polling for input
// between frames. At least one frame is rendered.
func (e *Engine) hold() error {
	start := e.clock.Now()
	for {
		if err := e.r.ScanFrame(e.win); err != nil {
			return err
		}
		if e.clock.Since(start) >= e.dwell {
			return nil
		}
		if e.in.Pending() {
			e.abandon()
			return nil
		}
	}
}

func (e *Engine) abandon() {
	e.interrupted = true
	e.phase = Done
}
