package shiftmatrix

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/devices/v3/shiftmatrix/image1bit"
)

// DefaultRowDwell keeps a 32x8 frame around 400µs, well above flicker rate.
const DefaultRowDwell = 50 * time.Microsecond

// Scanner multiplexes a window onto the matrix, one row at a time.
type Scanner struct {
	bus      Bus
	clock    clockwork.Clock
	rowDwell time.Duration
	frames   int
}

// NewScanner returns a scanner pushing rows to bus and holding each row lit
// for rowDwell. clock can be nil to use the real clock.
//
// The row dwell spins on clock.Since, so a clock that only moves when
// advanced by hand, such as clockwork's fake clock, must be advanced from
// Since itself or rowDwell must be 0; otherwise ScanFrame never returns.
func NewScanner(bus Bus, clock clockwork.Clock, rowDwell time.Duration) *Scanner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scanner{bus: bus, clock: clock, rowDwell: rowDwell}
}

// ScanFrame drives every row of w once. For each row it shifts the row's
// column pattern, then the one-hot row-select byte (row 0 in the most
// significant bit), latches, and busy-waits the row dwell.
//
// A frame is never abandoned for pending input; only a bus error stops it
// early.
func (s *Scanner) ScanFrame(w *image1bit.Window) error {
	if w.Height() > 8 {
		return errors.New("shiftmatrix: window taller than the row-select byte")
	}
	for r := 0; r < w.Height(); r++ {
		if err := s.bus.EmitColumns(w.Row(r), w.Width()); err != nil {
			return fmt.Errorf("shiftmatrix: row %d: %w", r, err)
		}
		if err := s.bus.EmitRowScan(RowSelect(r)); err != nil {
			return fmt.Errorf("shiftmatrix: row %d: %w", r, err)
		}
		if err := s.bus.Latch(); err != nil {
			return fmt.Errorf("shiftmatrix: row %d: %w", r, err)
		}
		s.wait(s.rowDwell)
	}
	s.frames++
	return nil
}

// Blank shifts dark columns with no row selected and latches them.
func (s *Scanner) Blank(width int) error {
	if err := s.bus.EmitColumns(0, width); err != nil {
		return err
	}
	if err := s.bus.EmitRowScan(0); err != nil {
		return err
	}
	return s.bus.Latch()
}

// Frames returns the number of complete frames scanned.
func (s *Scanner) Frames() int {
	return s.frames
}

// wait spins until d has elapsed.
func (s *Scanner) wait(d time.Duration) {
	if d <= 0 {
		return
	}
	start := s.clock.Now()
	for s.clock.Since(start) < d {
	}
}

// RowSelect returns the one-hot row-select byte for row r: row 0 is 0x80.
func RowSelect(r int) byte {
	return 0x80 >> uint(r)
}
