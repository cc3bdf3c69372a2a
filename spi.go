package shiftmatrix

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPIDev is a register chain clocked by a SPI port: MOSI feeds the serial
// data input and SCLK the shift clock. The latch clock stays on a GPIO pin.
type SPIDev struct {
	control

	c conn.Conn // SPI connection
}

// NewSPI creates a register chain connected via SPI.
//
// The SPI port is configured for opts.Freq (default 4MHz), Mode0 (CPOL=0,
// CPHA=0), 8-bit transfers, MSB first. The column width must be a multiple
// of 8 since SPI only shifts whole bytes.
//
// opts can be nil to use defaults (32x8 display).
func NewSPI(p spi.Port, latch gpio.PinOut, opts *Opts) (*SPIDev, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if opts.W%8 != 0 {
		return nil, errors.New("shiftmatrix: SPI column width must be a multiple of 8")
	}
	if latch == nil {
		return nil, errors.New("shiftmatrix: latch pin is required")
	}
	f := opts.Freq
	if f == 0 {
		f = 4 * physic.MegaHertz
	}

	// 74HC595 samples on the rising clock edge with an idle-low clock.
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("shiftmatrix: %w", err)
	}

	d := &SPIDev{
		control: control{
			latch: latch,
			clear: opts.Clear,
			oe:    opts.OE,
			w:     opts.W,
			h:     opts.H,
		},
		c: c,
	}
	if err := d.latch.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("shiftmatrix: latch pin: %w", err)
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// EmitColumns sends the low bitWidth bits of pattern, most significant byte
// first, in a single transfer.
func (d *SPIDev) EmitColumns(pattern uint64, bitWidth int) error {
	if d.halted {
		return errors.New("shiftmatrix: halted")
	}
	if bitWidth <= 0 || bitWidth > 64 || bitWidth%8 != 0 {
		return fmt.Errorf("shiftmatrix: invalid SPI column width %d", bitWidth)
	}
	cs := chunks(pattern, bitWidth)
	buf := make([]byte, len(cs))
	for i, ch := range cs {
		buf[i] = ch.v
	}
	return d.tx(buf)
}

// EmitRowScan sends the row-select byte.
func (d *SPIDev) EmitRowScan(row byte) error {
	if d.halted {
		return errors.New("shiftmatrix: halted")
	}
	return d.tx([]byte{row})
}

// Reset blanks the display while the registers are cleared, then re-enables
// output with every dot dark.
func (d *SPIDev) Reset() error {
	if d.halted {
		return errors.New("shiftmatrix: halted")
	}
	return d.reset(d.zero)
}

// Halt blanks and clears the display.
// After calling Halt, the device rejects further calls.
func (d *SPIDev) Halt() error {
	return d.halt(d.zero)
}

// String returns a string representation of the device.
func (d *SPIDev) String() string {
	return fmt.Sprintf("shiftmatrix.SPIDev{%dx%d}", d.w, d.h)
}

func (d *SPIDev) tx(w []byte) error {
	if err := d.c.Tx(w, nil); err != nil {
		return fmt.Errorf("shiftmatrix: spi: %w", err)
	}
	return nil
}

func (d *SPIDev) zero() error {
	return d.tx(make([]byte, d.w/8+1))
}

var _ Bus = (*SPIDev)(nil)
