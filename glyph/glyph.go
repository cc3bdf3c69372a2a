// Package glyph holds the fixed-size character bitmaps scrolled by the
// shiftmatrix driver and the bounded buffer they are queued in.
package glyph

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Glyph cell size in dots.
const (
	Width  = 8
	Height = 8
)

// ErrBufferOverflow is returned when more glyphs are queued than the buffer
// can hold.
var ErrBufferOverflow = errors.New("glyph: buffer overflow")

// Glyph is an 8x8 bitmap. Byte r is row r; bit c of a row is column c, with
// column 0 the leftmost dot.
type Glyph [Height]byte

// Bit reports whether the dot at (row, col) is lit.
func (g Glyph) Bit(row, col int) bool {
	if row < 0 || row >= Height || col < 0 || col >= Width {
		return false
	}
	return g[row]>>uint(col)&1 == 1
}

// Column returns the dots of column col packed with row 0 in bit 0.
func (g Glyph) Column(col int) byte {
	var c byte
	for r := 0; r < Height; r++ {
		if g.Bit(r, col) {
			c |= 1 << uint(r)
		}
	}
	return c
}

// Font maps a rune to its glyph.
type Font interface {
	// Glyph returns the glyph for r and whether the font covers it.
	Glyph(r rune) (Glyph, bool)
}

// Fallback is drawn for runes a font cannot map: a hollow box.
var Fallback = Glyph{0x7F, 0x41, 0x41, 0x41, 0x41, 0x41, 0x7F, 0x00}

// Lookup returns the glyph for r, or Fallback when f does not cover it.
func Lookup(f Font, r rune) Glyph {
	if g, ok := f.Glyph(r); ok {
		return g
	}
	return Fallback
}

// Buffer is an ordered sequence of glyphs with a fixed capacity.
type Buffer struct {
	glyphs []Glyph
	n      int
}

// NewBuffer returns an empty buffer that holds at most capacity glyphs.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		panic("glyph: negative capacity")
	}
	return &Buffer{glyphs: make([]Glyph, capacity)}
}

// Len returns the number of glyphs queued.
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the maximum number of glyphs.
func (b *Buffer) Cap() int {
	return len(b.glyphs)
}

// At returns glyph i. It panics if i is not in [0, Len()).
func (b *Buffer) At(i int) Glyph {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("glyph: index %d out of range [0, %d)", i, b.n))
	}
	return b.glyphs[i]
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.n = 0
}

// Append queues g. It returns ErrBufferOverflow, leaving the buffer
// untouched, when the buffer is full.
func (b *Buffer) Append(g Glyph) error {
	if b.n >= len(b.glyphs) {
		return ErrBufferOverflow
	}
	b.glyphs[b.n] = g
	b.n++
	return nil
}

// Fill replaces the content of the buffer with one glyph per rune of text,
// after trimming leading and trailing white space. Runes f does not cover
// become Fallback.
//
// When text does not fit, the first Cap() glyphs are kept and the returned
// error wraps ErrBufferOverflow.
func (b *Buffer) Fill(f Font, text string) error {
	b.Reset()
	text = strings.TrimFunc(text, unicode.IsSpace)
	total := 0
	for _, r := range text {
		total++
		if b.n < len(b.glyphs) {
			b.glyphs[b.n] = Lookup(f, r)
			b.n++
		}
	}
	if total > b.n {
		return fmt.Errorf("%w: %d glyphs, capacity %d, dropped %d", ErrBufferOverflow, total, len(b.glyphs), total-b.n)
	}
	return nil
}

// Columns returns the number of dot columns the queued glyphs span.
func (b *Buffer) Columns() int {
	return b.n * Width
}
