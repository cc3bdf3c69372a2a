package shiftmatrix

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/devices/v3/shiftmatrix/glyph"
	"periph.io/x/devices/v3/shiftmatrix/image1bit"
)

const testDwell = 10 * time.Millisecond

// frameLog is a Renderer recording every frame. Each frame moves the fake
// clock forward by step.
type frameLog struct {
	clock  clockwork.FakeClock
	step   time.Duration
	frames []*image1bit.Window
	after  func(n int) // called after frame n (1-based)
	err    error
}

func (f *frameLog) ScanFrame(w *image1bit.Window) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, w.Copy())
	f.clock.Advance(f.step)
	if f.after != nil {
		f.after(len(f.frames))
	}
	return nil
}

// flag is a Poller the test can raise.
type flag struct {
	up bool
}

func (f *flag) Pending() bool { return f.up }

func newTestEngine(t *testing.T, step time.Duration, lead bool) (*Engine, *frameLog, *flag) {
	t.Helper()
	clk := clockwork.NewFakeClock()
	fl := &frameLog{clock: clk, step: step}
	in := &flag{}
	e, err := NewEngine(fl, &EngineOpts{
		ColumnDwell: testDwell,
		Clock:       clk,
		Input:       in,
		LeadIn:      lead,
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, fl, in
}

func fill(t *testing.T, text string) *glyph.Buffer {
	t.Helper()
	b := glyph.NewBuffer(DefaultMaxText)
	if err := b.Fill(glyph.Basic, text); err != nil {
		t.Fatalf("Fill(%q) error = %v", text, err)
	}
	return b
}

// runPass ticks to Done and counts ticks per phase.
func runPass(t *testing.T, e *Engine) map[Phase]int {
	t.Helper()
	counts := map[Phase]int{}
	for i := 0; e.Phase() != Done; i++ {
		if i > 10000 {
			t.Fatal("pass did not end")
		}
		counts[e.Phase()]++
		if _, err := e.Tick(); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}
	return counts
}

func TestScrollLiteralAB(t *testing.T) {
	e, fl, _ := newTestEngine(t, testDwell, false)
	e.Load(fill(t, "AB\r"))

	counts := runPass(t, e)
	if counts[Filling] != 16 {
		t.Errorf("Filling ticks = %d, want 16", counts[Filling])
	}
	if counts[Draining] != 32 {
		t.Errorf("Draining ticks = %d, want 32", counts[Draining])
	}
	if e.Ticks() != 48 {
		t.Errorf("Ticks() = %d, want 48", e.Ticks())
	}
	if len(fl.frames) != 48 {
		t.Errorf("rendered %d frames, want one per tick (48)", len(fl.frames))
	}
	if e.Interrupted() {
		t.Error("pass should not be interrupted")
	}
	if !e.Window().IsEmpty() {
		t.Errorf("window not empty at Done:\n%s", e.Window())
	}
}

func TestScrollTickCount(t *testing.T) {
	for _, text := range []string{"A", "AB", "HELLO", "0123456789", "scrolling text!"} {
		t.Run(text, func(t *testing.T) {
			e, _, _ := newTestEngine(t, testDwell, false)
			buf := fill(t, text)
			e.Load(buf)
			runPass(t, e)
			if want := buf.Len()*glyph.Width + Width; e.Ticks() != want {
				t.Errorf("Ticks() = %d, want %d", e.Ticks(), want)
			}
		})
	}
}

func TestScrollFirstWindow(t *testing.T) {
	e, fl, _ := newTestEngine(t, testDwell, false)
	e.Load(fill(t, "AB"))
	if _, err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	a, _ := glyph.Basic.Glyph('A')
	b, _ := glyph.Basic.Glyph('B')
	w := fl.frames[0]
	for row := 0; row < glyph.Height; row++ {
		for col := 0; col < Width; col++ {
			var want bool
			switch {
			case col < 8:
				want = a.Bit(row, col)
			case col < 16:
				want = b.Bit(row, col-8)
			}
			if got := w.Pixel(row, col); got != want {
				t.Errorf("Pixel(%d, %d) = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestScrollMovesOneColumnPerTick(t *testing.T) {
	e, fl, _ := newTestEngine(t, testDwell, false)
	e.Load(fill(t, "Hello, world"))
	runPass(t, e)

	for i := 1; i < len(fl.frames); i++ {
		prev := fl.frames[i-1].Copy()
		prev.ShiftLeft(1)
		// The rightmost column is new data; everything else moved left.
		next := fl.frames[i].Copy()
		for row := 0; row < next.Height(); row++ {
			next.SetPixel(row, Width-1, false)
		}
		if !prev.Equal(next) {
			t.Fatalf("frame %d is not frame %d shifted by one column:\n%s\nvs\n%s",
				i, i-1, fl.frames[i-1], fl.frames[i])
		}
	}
}

func TestScrollCursor(t *testing.T) {
	e, _, _ := newTestEngine(t, testDwell, false)
	e.Load(fill(t, "ABC"))
	for i := 0; i < 9; i++ {
		if _, err := e.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if g, b := e.Cursor(); g != 1 || b != 1 {
		t.Errorf("Cursor() = (%d, %d), want (1, 1)", g, b)
	}
	if e.Phase() != Filling {
		t.Errorf("Phase() = %v, want Filling", e.Phase())
	}
}

func TestScrollEmptyBuffer(t *testing.T) {
	for _, tt := range []struct {
		name string
		buf  *glyph.Buffer
	}{
		{"nil", nil},
		{"empty", glyph.NewBuffer(4)},
		{"whitespace", fill(t, "  \r")},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e, fl, _ := newTestEngine(t, testDwell, false)
			e.Load(tt.buf)
			p, err := e.Tick()
			if err != nil {
				t.Fatal(err)
			}
			if p != Done {
				t.Errorf("Tick() = %v, want Done", p)
			}
			if e.Ticks() != 1 {
				t.Errorf("Ticks() = %d, want 1", e.Ticks())
			}
			if len(fl.frames) != 0 {
				t.Errorf("renderer called %d times, want 0", len(fl.frames))
			}
			if !e.Window().IsEmpty() {
				t.Error("window should be cleared")
			}
		})
	}
}

func TestScrollInterruptWhileDraining(t *testing.T) {
	e, fl, in := newTestEngine(t, testDwell, false)
	e.Load(fill(t, "AB"))
	for e.Phase() != Draining {
		if _, err := e.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := e.Tick(); err != nil {
			t.Fatal(err)
		}
	}

	before := e.Window()
	frames := len(fl.frames)
	in.up = true

	p, err := e.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if p != Done || !e.Interrupted() {
		t.Errorf("Tick() = %v, Interrupted() = %v, want Done, true", p, e.Interrupted())
	}
	if !e.Window().Equal(before) {
		t.Error("window changed after the interrupt was seen")
	}
	if len(fl.frames) != frames {
		t.Errorf("rendered %d frames after the interrupt", len(fl.frames)-frames)
	}

	// Further ticks are no-ops.
	if p, _ := e.Tick(); p != Done {
		t.Errorf("Tick() after Done = %v", p)
	}
}

func TestScrollInterruptDuringDwell(t *testing.T) {
	e, fl, in := newTestEngine(t, time.Millisecond, false)
	fl.after = func(n int) {
		if n == 3 {
			in.up = true
		}
	}
	e.Load(fill(t, "HI"))

	p, err := e.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if p != Done || !e.Interrupted() {
		t.Errorf("Tick() = %v, Interrupted() = %v, want Done, true", p, e.Interrupted())
	}
	// The frame in flight when input arrived is finished, nothing after it.
	if len(fl.frames) != 3 {
		t.Errorf("rendered %d frames, want 3", len(fl.frames))
	}
}

func TestScrollInterruptLeavesWholeFrame(t *testing.T) {
	bus := &fakeBus{}
	clk := newStepClock(time.Microsecond)
	s := NewScanner(bus, clk, 5*time.Microsecond)
	polls := 0
	e, err := NewEngine(s, &EngineOpts{
		ColumnDwell: time.Millisecond,
		Clock:       clk,
		Input: PollerFunc(func() bool {
			polls++
			return polls > 40
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Load(fill(t, "AB"))
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if !e.Interrupted() {
		t.Fatal("pass should have been interrupted")
	}

	// Every row: columns, row select, latch. Only whole frames go out.
	if n := len(bus.calls); n == 0 || n%(3*Height) != 0 {
		t.Fatalf("bus saw %d calls, want a whole number of frames", n)
	}
	if last := bus.calls[len(bus.calls)-1]; last.Op != "latch" {
		t.Errorf("last bus call = %v, want latch", last)
	}
	if prev := bus.calls[len(bus.calls)-2]; prev.Op != "row" || prev.V != uint64(RowSelect(Height-1)) {
		t.Errorf("call before the last latch = %v, want last row select", prev)
	}
}

func TestScrollLeadIn(t *testing.T) {
	e, fl, _ := newTestEngine(t, testDwell, true)
	e.Load(fill(t, "A"))
	counts := runPass(t, e)

	if counts[Filling] != Width+glyph.Width {
		t.Errorf("Filling ticks = %d, want %d", counts[Filling], Width+glyph.Width)
	}
	if counts[Draining] != Width {
		t.Errorf("Draining ticks = %d, want %d", counts[Draining], Width)
	}
	if !fl.frames[0].IsEmpty() {
		t.Error("first lead-in frame should be blank")
	}

	// Glyph column 0 enters at the right edge on the second tick, so column 2
	// sits in the rightmost column on the fourth.
	a, _ := glyph.Basic.Glyph('A')
	w := fl.frames[3]
	for row := 0; row < glyph.Height; row++ {
		if got, want := w.Pixel(row, Width-1), a.Bit(row, 2); got != want {
			t.Errorf("row %d rightmost = %v, want %v", row, got, want)
		}
	}
}

func TestScrollReload(t *testing.T) {
	e, _, in := newTestEngine(t, testDwell, false)
	e.Load(fill(t, "AB"))
	in.up = true
	if _, err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	in.up = false

	e.Load(fill(t, "A"))
	if e.Interrupted() || e.Phase() != Filling || e.Ticks() != 0 {
		t.Fatalf("Load did not reset the pass: interrupted=%v phase=%v ticks=%d",
			e.Interrupted(), e.Phase(), e.Ticks())
	}
	runPass(t, e)
	if e.Ticks() != glyph.Width+Width {
		t.Errorf("Ticks() = %d, want %d", e.Ticks(), glyph.Width+Width)
	}
}

func TestScrollRendererError(t *testing.T) {
	e, fl, _ := newTestEngine(t, testDwell, false)
	boom := errors.New("boom")
	fl.err = boom
	e.Load(fill(t, "A"))
	if err := e.Run(); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want boom", err)
	}
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(nil, nil); err == nil {
		t.Error("NewEngine(nil) should fail")
	}
	fl := &frameLog{clock: clockwork.NewFakeClock()}
	if _, err := NewEngine(fl, &EngineOpts{W: 65}); err == nil {
		t.Error("NewEngine with width 65 should fail")
	}
	if _, err := NewEngine(fl, &EngineOpts{H: 9}); err == nil {
		t.Error("NewEngine with height 9 should fail")
	}
	e, err := NewEngine(fl, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Phase() != Done {
		t.Errorf("idle engine Phase() = %v, want Done", e.Phase())
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{Filling, "Filling"},
		{Draining, "Draining"},
		{Done, "Done"},
		{Phase(7), "Phase(7)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.p), got, tt.want)
		}
	}
}
