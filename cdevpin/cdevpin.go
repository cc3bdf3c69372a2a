//go:build linux

// Package cdevpin exposes a GPIO character device line as a gpio.PinOut.
//
// It lets the shiftmatrix driver run on kernels and boards where the
// periph.io host drivers cannot reach the GPIO controller, such as the
// Raspberry Pi 5, by going through /dev/gpiochipN instead.
package cdevpin

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Consumer is the label the kernel shows for requested lines.
const Consumer = "shiftmatrix"

var errClosed = errors.New("cdevpin: line closed")

// line is the part of *gpiocdev.Line that Pin uses.
type line interface {
	SetValue(int) error
	Close() error
}

// Pin is an output line requested from a GPIO character device.
type Pin struct {
	chip   string
	offset int
	l      line
	level  gpio.Level
}

// Request claims offset on chip (e.g. "gpiochip0") as an output driven low.
func Request(chip string, offset int) (*Pin, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("cdevpin: %s:%d: %w", chip, offset, err)
	}
	return newPin(chip, offset, l), nil
}

func newPin(chip string, offset int, l line) *Pin {
	return &Pin{chip: chip, offset: offset, l: l, level: gpio.Low}
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.Name()
}

// Halt implements conn.Resource. It drives the line low.
func (p *Pin) Halt() error {
	return p.Out(gpio.Low)
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return fmt.Sprintf("%s:%d", p.chip, p.offset)
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.offset
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	if p.l == nil {
		return "closed"
	}
	return "Out/" + p.level.String()
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if p.l == nil {
		return errClosed
	}
	v := 0
	if l {
		v = 1
	}
	if err := p.l.SetValue(v); err != nil {
		return fmt.Errorf("cdevpin: %s: %w", p.Name(), err)
	}
	p.level = l
	return nil
}

// PWM implements gpio.PinOut. Character device lines have no PWM.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("cdevpin: %s: PWM is not supported", p.Name())
}

// Close releases the line. The pin is unusable afterwards.
func (p *Pin) Close() error {
	if p.l == nil {
		return nil
	}
	err := p.l.Close()
	p.l = nil
	return err
}

var _ gpio.PinOut = &Pin{}
