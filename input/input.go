// Package input receives the text lines scrolled by the shiftmatrix driver.
//
// Lines end with a carriage return. A LineReader can be polled without
// blocking, which lets a scroll pass check for new input between frames.
package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrLineTooLong is returned, with the truncated line, when a line
	// exceeds the reader's limit.
	ErrLineTooLong = errors.New("input: line too long")
	// ErrCanceled is returned when the source sends ETX (Ctrl-C).
	ErrCanceled = errors.New("input: canceled")
)

const etx = 0x03

// Source is a byte stream that can report readiness without blocking.
type Source interface {
	// Ready reports whether ReadByte would return without blocking.
	Ready() (bool, error)
	// ReadByte returns the next byte, blocking until one is available.
	ReadByte() (byte, error)
}

// LineReader assembles carriage-return terminated lines from a Source.
type LineReader struct {
	src     Source
	max     int
	buf     []byte
	dropped int
	lastCR  bool
}

// NewLineReader returns a reader keeping at most max bytes per line,
// counted before trimming. A multi-byte character cut by the limit is
// dropped whole.
func NewLineReader(src Source, max int) *LineReader {
	if max <= 0 {
		panic("input: max must be positive")
	}
	return &LineReader{src: src, max: max, buf: make([]byte, 0, max)}
}

// Pending reports whether a byte is waiting on the source. It never blocks
// and treats source errors as pending so the caller goes on to ReadLine and
// sees them.
func (r *LineReader) Pending() bool {
	ok, err := r.src.Ready()
	return ok || err != nil
}

// ReadLine blocks until a full line has been received and returns it with
// leading and trailing white space removed. A line feed right after a
// carriage return is skipped; a lone line feed also ends a line.
//
// Bytes past the limit are dropped and the line comes back with an error
// wrapping ErrLineTooLong.
func (r *LineReader) ReadLine() (string, error) {
	for {
		b, err := r.src.ReadByte()
		if err != nil {
			return "", err
		}
		switch b {
		case etx:
			r.buf = r.buf[:0]
			r.dropped = 0
			return "", ErrCanceled
		case '\n':
			if r.lastCR {
				r.lastCR = false
				continue
			}
			return r.take()
		case '\r':
			r.lastCR = true
			return r.take()
		}
		r.lastCR = false
		if len(r.buf) < r.max {
			r.buf = append(r.buf, b)
		} else {
			r.dropped++
		}
	}
}

func (r *LineReader) take() (string, error) {
	if r.dropped > 0 {
		r.dropPartialRune()
	}
	line := strings.TrimFunc(string(r.buf), unicode.IsSpace)
	dropped := r.dropped
	r.buf = r.buf[:0]
	r.dropped = 0
	if dropped > 0 {
		return line, fmt.Errorf("%w: dropped %d bytes past %d", ErrLineTooLong, dropped, r.max)
	}
	return line, nil
}

// dropPartialRune removes a trailing UTF-8 sequence left incomplete by the
// limit.
func (r *LineReader) dropPartialRune() {
	for i := len(r.buf) - 1; i >= 0 && i >= len(r.buf)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(r.buf[i]) {
			continue
		}
		if !utf8.FullRune(r.buf[i:]) {
			r.dropped += len(r.buf) - i
			r.buf = r.buf[:i]
		}
		return
	}
}
