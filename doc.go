// Package shiftmatrix drives a multiplexed dot-matrix display built from
// daisy-chained serial-in/parallel-out shift registers (74HC595 and alike)
// and scrolls text across it.
//
// The display has 8 rows and, by default, 32 columns. Only one row is lit
// at a time: for every row the column bits and a one-hot row-select byte are
// shifted into the chain and latched together. Scanning the rows fast enough
// makes the whole window appear lit.
//
// # Hardware Connection
//
// The column registers come first in the chain and the row register last, so
// the column bits are shifted first and the row-select byte pushes them into
// place:
//
//	Register Pin → System Pin
//	SER          → GPIO (data) or SPI MOSI
//	SRCLK        → GPIO (shift clock) or SPI SCLK
//	RCLK         → GPIO (latch)
//	SRCLR        → Optional: GPIO for register clear
//	OE           → Optional: GPIO for output enable
//
// # Bit Order
//
// Everything is shifted MSB-first. Column 0, the leftmost dot, is the most
// significant bit of a row word; row r is selected by 0x80>>r. A 32-column
// row is shifted as four bytes, the byte holding columns 0-7 first.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/devices/v3/shiftmatrix"
//		"periph.io/x/devices/v3/shiftmatrix/glyph"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Create device
//		dev, _ := shiftmatrix.NewGPIO(
//			gpioreg.ByName("GPIO17"), // SER
//			gpioreg.ByName("GPIO27"), // SRCLK
//			gpioreg.ByName("GPIO22"), // RCLK
//			nil)
//		defer dev.Halt()
//
//		// Fill a glyph buffer and scroll it once
//		buf := glyph.NewBuffer(shiftmatrix.DefaultMaxText)
//		buf.Fill(glyph.Basic, "HELLO")
//		eng, _ := shiftmatrix.NewEngine(shiftmatrix.NewScanner(dev, nil, 0), nil)
//		eng.Load(buf)
//		eng.Run()
//	}
//
// # Scrolling
//
// An Engine pass has two phases. While Filling, the window shows the glyph
// columns starting at a cursor that moves one column per tick. Once the
// cursor reaches the end of the text the pass is Draining: the last window
// slides left one column per tick until it is blank. A pass of L glyphs
// takes L*8 + 32 ticks on a 32-column display.
//
// The engine polls its Input between frames. When input is pending the pass
// ends after the frame being scanned, so the caller can read the new text
// and start another pass.
//
// # SPI
//
// NewSPI drives SER and SRCLK from an SPI port in mode 0, which shifts each
// byte MSB-first on rising clock edges just like the GPIO driver. The column
// count must then be a multiple of 8.
package shiftmatrix
