//go:build linux

package input

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Term is a Source reading a terminal in raw mode, so bytes arrive as typed
// instead of after the line discipline has buffered a line.
type Term struct {
	fd  int
	old *term.State
}

// OpenTerm switches f to raw mode when it is a terminal. Pipes and files are
// read as they are. Call Close to restore the terminal.
func OpenTerm(f *os.File) (*Term, error) {
	t := &Term{fd: int(f.Fd())}
	if term.IsTerminal(t.fd) {
		old, err := term.MakeRaw(t.fd)
		if err != nil {
			return nil, fmt.Errorf("input: raw mode: %w", err)
		}
		t.old = old
	}
	return t, nil
}

// Ready polls the descriptor with a zero timeout.
func (t *Term) Ready() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err == unix.EINTR {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("input: poll: %w", err)
	}
	return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0, nil
}

// ReadByte blocks until a byte is available.
func (t *Term) ReadByte() (byte, error) {
	var b [1]byte
	for {
		n, err := unix.Read(t.fd, b[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("input: read: %w", err)
		}
		if n == 0 {
			return 0, io.EOF
		}
		return b[0], nil
	}
}

// Close restores the terminal state.
func (t *Term) Close() error {
	if t.old == nil {
		return nil
	}
	err := term.Restore(t.fd, t.old)
	t.old = nil
	return err
}
