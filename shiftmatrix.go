package shiftmatrix

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Display geometry and timing defaults.
const (
	Height = 8  // Rows, one bit of the row-select byte each
	Width  = 32 // Dots across, four 8-dot glyph cells

	DefaultMaxText = 64 // Glyphs kept from one received line
)

// Bus serializes scan data into the register chain.
//
// Every value is shifted MSB-first, one bit per clock pulse. Nothing becomes
// visible on the register outputs until Latch is called.
type Bus interface {
	// EmitColumns shifts the low bitWidth bits of pattern, most significant
	// 8-bit chunk first.
	EmitColumns(pattern uint64, bitWidth int) error
	// EmitRowScan shifts the 8-bit row-select value.
	EmitRowScan(row byte) error
	// Latch copies the shifted bits to the register outputs.
	Latch() error
}

// Opts is the configuration for the register chain.
type Opts struct {
	// Chain geometry
	W int // Column bits (default: 32, must be between 1 and 64)
	H int // Rows (default: 8, must be between 1 and 8)

	// Optional control pins, nil if wired to a fixed level
	Clear gpio.PinOut // Register clear (SRCLR), active-low
	OE    gpio.PinOut // Output enable, active-low

	// SPI clock, only used by NewSPI (default: 4MHz)
	Freq physic.Frequency
}

func (o *Opts) withDefaults() (*Opts, error) {
	if o == nil {
		o = &Opts{W: Width, H: Height}
	}
	if o.W <= 0 || o.W > 64 {
		return nil, errors.New("shiftmatrix: width must be between 1 and 64")
	}
	if o.H <= 0 || o.H > 8 {
		return nil, errors.New("shiftmatrix: height must be between 1 and 8")
	}
	return o, nil
}

// control holds the pins shared by every bus flavour: latch clock, register
// clear and output enable.
type control struct {
	latch gpio.PinOut
	clear gpio.PinOut
	oe    gpio.PinOut

	w, h   int
	halted bool
}

// Latch pulses the latch clock low then high.
func (c *control) Latch() error {
	if c.halted {
		return errors.New("shiftmatrix: halted")
	}
	if err := c.latch.Out(gpio.Low); err != nil {
		return fmt.Errorf("shiftmatrix: latch pin: %w", err)
	}
	if err := c.latch.Out(gpio.High); err != nil {
		return fmt.Errorf("shiftmatrix: latch pin: %w", err)
	}
	return nil
}

// SetOutputEnabled drives the active-low output enable line. Disabling output
// blanks the display without touching the register content.
//
// It is a no-op when no OE pin is wired.
func (c *control) SetOutputEnabled(on bool) error {
	if c.halted {
		return errors.New("shiftmatrix: halted")
	}
	return c.outputEnable(on)
}

func (c *control) outputEnable(on bool) error {
	if c.oe == nil {
		return nil
	}
	l := gpio.High
	if on {
		l = gpio.Low
	}
	if err := c.oe.Out(l); err != nil {
		return fmt.Errorf("shiftmatrix: OE pin: %w", err)
	}
	return nil
}

// reset blanks the output, empties the register chain and latches the empty
// state. zero is used to shift zeros when no clear pin is wired.
func (c *control) reset(zero func() error) error {
	if err := c.outputEnable(false); err != nil {
		return err
	}
	if c.clear != nil {
		if err := c.clear.Out(gpio.Low); err != nil {
			return fmt.Errorf("shiftmatrix: clear pin: %w", err)
		}
		if err := c.clear.Out(gpio.High); err != nil {
			return fmt.Errorf("shiftmatrix: clear pin: %w", err)
		}
	} else if err := zero(); err != nil {
		return err
	}
	if err := c.Latch(); err != nil {
		return err
	}
	return c.outputEnable(true)
}

// halt blanks the output and rejects further calls.
func (c *control) halt(zero func() error) error {
	if c.halted {
		return nil
	}
	err := c.reset(zero)
	if err == nil {
		err = c.outputEnable(false)
	}
	c.halted = true
	return err
}

// Dev is a register chain bit-banged over three GPIO lines.
type Dev struct {
	control

	data  gpio.PinOut // Serial data (SER)
	clock gpio.PinOut // Shift clock (SRCLK)
}

// NewGPIO creates a register chain driven through the data, clock and latch
// pins.
//
// The chain is reset before returning: output disabled, registers cleared and
// latched, output enabled again.
//
// opts can be nil to use defaults (32x8 display, no clear or OE pin).
func NewGPIO(data, clock, latch gpio.PinOut, opts *Opts) (*Dev, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if data == nil || clock == nil || latch == nil {
		return nil, errors.New("shiftmatrix: data, clock and latch pins are required")
	}

	d := &Dev{
		control: control{
			latch: latch,
			clear: opts.Clear,
			oe:    opts.OE,
			w:     opts.W,
			h:     opts.H,
		},
		data:  data,
		clock: clock,
	}

	// Idle levels: clock and latch high so the first pulse starts with a
	// falling edge.
	if err := d.clock.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("shiftmatrix: clock pin: %w", err)
	}
	if err := d.latch.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("shiftmatrix: latch pin: %w", err)
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// EmitColumns shifts the low bitWidth bits of pattern into the chain.
//
// The pattern is split into ceil(bitWidth/8) chunks of at most 8 bits, most
// significant chunk first. When bitWidth is not a multiple of 8 the first
// chunk carries the leftover high bits.
func (d *Dev) EmitColumns(pattern uint64, bitWidth int) error {
	if d.halted {
		return errors.New("shiftmatrix: halted")
	}
	if bitWidth <= 0 || bitWidth > 64 {
		return fmt.Errorf("shiftmatrix: invalid column width %d", bitWidth)
	}
	for _, ch := range chunks(pattern, bitWidth) {
		if err := d.shiftOut(ch.v, ch.bits); err != nil {
			return err
		}
	}
	return nil
}

// EmitRowScan shifts the row-select byte into the chain.
func (d *Dev) EmitRowScan(row byte) error {
	if d.halted {
		return errors.New("shiftmatrix: halted")
	}
	return d.shiftOut(row, 8)
}

// Reset blanks the display while the registers are cleared, then re-enables
// output with every dot dark.
func (d *Dev) Reset() error {
	if d.halted {
		return errors.New("shiftmatrix: halted")
	}
	return d.reset(d.zero)
}

// Halt blanks and clears the display.
// After calling Halt, the device rejects further calls.
func (d *Dev) Halt() error {
	return d.halt(d.zero)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("shiftmatrix.Dev{%dx%d}", d.w, d.h)
}

// shiftOut clocks the low bits of v out MSB-first: clock low, set data,
// clock high.
func (d *Dev) shiftOut(v byte, bits int) error {
	for i := bits - 1; i >= 0; i-- {
		if err := d.clock.Out(gpio.Low); err != nil {
			return fmt.Errorf("shiftmatrix: clock pin: %w", err)
		}
		if err := d.data.Out(gpio.Level(v>>uint(i)&1 == 1)); err != nil {
			return fmt.Errorf("shiftmatrix: data pin: %w", err)
		}
		if err := d.clock.Out(gpio.High); err != nil {
			return fmt.Errorf("shiftmatrix: clock pin: %w", err)
		}
	}
	return nil
}

// zero shifts a full chain of dark bits.
func (d *Dev) zero() error {
	if err := d.EmitColumns(0, d.w); err != nil {
		return err
	}
	return d.shiftOut(0, 8)
}

// chunk is one physical write of at most 8 bits.
type chunk struct {
	v    byte
	bits int
}

// chunks splits the low bitWidth bits of pattern into 8-bit writes, most
// significant first.
func chunks(pattern uint64, bitWidth int) []chunk {
	n := (bitWidth + 7) / 8
	out := make([]chunk, 0, n)
	for i := n - 1; i >= 0; i-- {
		bits := 8
		if i == n-1 {
			bits = bitWidth - 8*(n-1)
		}
		v := byte(pattern >> uint(8*i))
		if bits < 8 {
			v &= 1<<uint(bits) - 1
		}
		out = append(out, chunk{v: v, bits: bits})
	}
	return out
}

var _ Bus = (*Dev)(nil)
