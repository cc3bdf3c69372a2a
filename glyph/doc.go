// Package glyph provides the 8x8 character bitmaps scrolled across a
// shiftmatrix display.
//
// A Glyph stores one byte per row. Bit 0 of a row byte is the leftmost dot:
//
//	Row byte: 0x0C = 0b00001100
//	Columns:  0 1 2 3 4 5 6 7
//	Lit:      . . # # . . . .
//
// Glyphs are queued in a Buffer of fixed capacity. Filling a buffer with text
// that does not fit keeps what fits and reports ErrBufferOverflow:
//
//	buf := glyph.NewBuffer(64)
//	if err := buf.Fill(glyph.Basic, "HELLO"); errors.Is(err, glyph.ErrBufferOverflow) {
//		log.Printf("text truncated: %v", err)
//	}
//
// Runes a Font cannot map are drawn with Fallback.
package glyph
