// Package image1bit provides the 1-bit display window used by the shiftmatrix
// driver.
//
// Each row of the window is a single row word. Column 0 is the leftmost
// physical column and lives in the most significant bit of the row word, so a
// row word can be shifted out MSB-first without any reordering.
//
// Memory layout example for an 8-column row:
//
//	Columns: 0 1 2 3 4 5 6 7
//	Lit:     X . . . . . X X
//	Row:     0b10000011
//
// This package provides:
//
// - Bit: a color type representing a lit or dark dot
// - BitModel: a color model converting standard Go colors to Bit
// - Window: an image.Image and draw.Image implementation backed by row words
//
// Example usage:
//
//	// Create a 32x8 window
//	w := image1bit.NewWindow(32, 8)
//
//	// Light the top-left dot
//	w.SetPixel(0, 0, true)
//
//	// Scroll every row one column to the left
//	w.ShiftLeft(1)
//
//	// Use with standard Go image operations
//	draw.Draw(w, w.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package image1bit
