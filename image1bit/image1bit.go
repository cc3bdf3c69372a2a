// Package image1bit provides the 1-bit display window used by the shiftmatrix driver.
//
// Rows are stored as row words. Column 0 is the most significant of the
// window's width bits, matching the MSB-first order of the shift registers.
package image1bit

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// MaxWidth is the widest window a row word can hold.
const MaxWidth = 64

// Bit represents a single dot: lit (On) or dark (Off).
type Bit bool

const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA. A lit dot is white.
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit, lighting the dot at half luminance
// or above.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// Window is the visible slice of pixels mapped onto the physical matrix.
type Window struct {
	rows  []uint64
	width int
	mask  uint64
}

// NewWindow creates a cleared window of width columns and height rows.
//
// It panics if width is not in [1, MaxWidth] or height is not positive.
func NewWindow(width, height int) *Window {
	if width <= 0 || width > MaxWidth {
		panic("image1bit: width must be between 1 and 64")
	}
	if height <= 0 {
		panic("image1bit: height must be positive")
	}
	mask := ^uint64(0)
	if width < MaxWidth {
		mask = 1<<uint(width) - 1
	}
	return &Window{
		rows:  make([]uint64, height),
		width: width,
		mask:  mask,
	}
}

// Width returns the number of columns.
func (w *Window) Width() int {
	return w.width
}

// Height returns the number of rows.
func (w *Window) Height() int {
	return len(w.rows)
}

// Clear zeroes every row.
func (w *Window) Clear() {
	for i := range w.rows {
		w.rows[i] = 0
	}
}

// SetPixel lights or clears the dot at (row, col). Out of range coordinates
// are ignored.
func (w *Window) SetPixel(row, col int, on bool) {
	if !w.in(row, col) {
		return
	}
	bit := w.bit(col)
	if on {
		w.rows[row] |= bit
	} else {
		w.rows[row] &^= bit
	}
}

// Pixel reports whether the dot at (row, col) is lit.
func (w *Window) Pixel(row, col int) bool {
	if !w.in(row, col) {
		return false
	}
	return w.rows[row]&w.bit(col) != 0
}

// ShiftLeft moves every row n columns towards column 0. Columns shifted past
// column 0 are lost and the rightmost n columns become dark.
func (w *Window) ShiftLeft(n int) {
	if n <= 0 {
		return
	}
	for i := range w.rows {
		if n >= w.width {
			w.rows[i] = 0
			continue
		}
		w.rows[i] = (w.rows[i] << uint(n)) & w.mask
	}
}

// Row returns the row word of row r. Column 0 is bit width-1.
func (w *Window) Row(r int) uint64 {
	if r < 0 || r >= len(w.rows) {
		return 0
	}
	return w.rows[r]
}

// SetRow replaces the row word of row r, dropping bits above the width.
func (w *Window) SetRow(r int, v uint64) {
	if r < 0 || r >= len(w.rows) {
		return
	}
	w.rows[r] = v & w.mask
}

// IsEmpty reports whether no dot is lit.
func (w *Window) IsEmpty() bool {
	for _, r := range w.rows {
		if r != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both windows have the same geometry and content.
func (w *Window) Equal(o *Window) bool {
	if o == nil || w.width != o.width || len(w.rows) != len(o.rows) {
		return false
	}
	for i, r := range w.rows {
		if o.rows[i] != r {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of the window.
func (w *Window) Copy() *Window {
	c := &Window{
		rows:  make([]uint64, len(w.rows)),
		width: w.width,
		mask:  w.mask,
	}
	copy(c.rows, w.rows)
	return c
}

// CopyFrom overwrites w with the content of src. Both windows must share the
// same geometry.
func (w *Window) CopyFrom(src *Window) {
	if src.width != w.width || len(src.rows) != len(w.rows) {
		panic("image1bit: window geometry mismatch")
	}
	copy(w.rows, src.rows)
}

// String renders the window as rows of '#' and '.', one line per row.
func (w *Window) String() string {
	var sb strings.Builder
	for r := range w.rows {
		for c := 0; c < w.width; c++ {
			if w.Pixel(r, c) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// GoString is used by %#v.
func (w *Window) GoString() string {
	return fmt.Sprintf("image1bit.Window{%dx%d}", w.width, len(w.rows))
}

// ColorModel returns the color model of the window.
// It implements the image.Image interface.
func (w *Window) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the window bounds. X is the column, Y is the row.
func (w *Window) Bounds() image.Rectangle {
	return image.Rect(0, 0, w.width, len(w.rows))
}

// At returns the color of the dot at column x, row y.
func (w *Window) At(x, y int) color.Color {
	return w.BitAt(x, y)
}

// BitAt returns the Bit at column x, row y.
func (w *Window) BitAt(x, y int) Bit {
	return Bit(w.Pixel(y, x))
}

// Set sets the dot at column x, row y. It implements draw.Image.
func (w *Window) Set(x, y int, c color.Color) {
	w.SetPixel(y, x, bool(BitModel.Convert(c).(Bit)))
}

// SetBit sets the dot at column x, row y without color conversion.
func (w *Window) SetBit(x, y int, b Bit) {
	w.SetPixel(y, x, bool(b))
}

func (w *Window) in(row, col int) bool {
	return row >= 0 && row < len(w.rows) && col >= 0 && col < w.width
}

// bit returns the row word mask of column col.
func (w *Window) bit(col int) uint64 {
	return 1 << uint(w.width-1-col)
}
