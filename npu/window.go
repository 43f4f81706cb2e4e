package npu

import (
	"errors"
	"fmt"
)

// DefaultWindowSize is the size of the shared host window when the
// configuration does not say otherwise.
const DefaultWindowSize = 64 << 10

// ErrWindowBounds reports an access outside the shared host window.
var ErrWindowBounds = errors.New("npu: window access out of bounds")

// Window is the bounded block of host memory the device and its host
// exchange bulk data through. Query strings go in, encoded result batches
// come out. Addresses in the register file are byte offsets into the
// window.
type Window struct {
	buf []byte
}

// NewWindow allocates a window of the given size in bytes. Sizes of zero
// or less fall back to DefaultWindowSize.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{buf: make([]byte, size)}
}

// Size returns the window size in bytes.
func (w *Window) Size() int {
	return len(w.buf)
}

// Reset zeroes the whole window.
func (w *Window) Reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}
}

// check validates an access without ever computing addr+n, which can wrap;
// the address register holds a full 64-bit value of the host's choosing.
func (w *Window) check(addr uint64, n int) error {
	if n < 0 || addr > uint64(len(w.buf)) || uint64(n) > uint64(len(w.buf))-addr {
		return fmt.Errorf("npu: %d bytes at 0x%08X: %w", n, addr, ErrWindowBounds)
	}
	return nil
}

// Write copies p into the window at addr.
func (w *Window) Write(addr uint64, p []byte) error {
	if err := w.check(addr, len(p)); err != nil {
		return err
	}
	copy(w.buf[addr:], p)
	return nil
}

// Read copies n bytes out of the window starting at addr.
func (w *Window) Read(addr uint64, n int) ([]byte, error) {
	if err := w.check(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, w.buf[addr:])
	return out, nil
}

// WriteString copies s into the window at addr.
func (w *Window) WriteString(addr uint64, s string) error {
	return w.Write(addr, []byte(s))
}

// ReadString reads n bytes at addr as a string.
func (w *Window) ReadString(addr uint64, n int) (string, error) {
	b, err := w.Read(addr, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
