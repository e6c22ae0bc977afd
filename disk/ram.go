// Package disk provides Storage backings for the littlefs adapter: a
// RAM medium for tests and simulation, and an image file medium for
// tooling.
package disk

import (
	"errors"

	"github.com/flashkit/littlefs"
)

// EraseValue is the byte a freshly erased flash range reads back as.
const EraseValue = 0xFF

var errOutOfRange = errors.New("disk: access out of range")

// RAM is an in-memory medium. The zero value is not usable; construct
// with NewRAM.
type RAM struct {
	buf []byte
}

var _ littlefs.Storage = (*RAM)(nil)

// NewRAM returns a RAM medium of size bytes, fully erased.
func NewRAM(size int64) *RAM {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = EraseValue
	}
	return &RAM{buf: buf}
}

func (r *RAM) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(r.buf)) {
		return 0, errOutOfRange
	}
	copy(p, r.buf[off:])
	return len(p), nil
}

func (r *RAM) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(r.buf)) {
		return 0, errOutOfRange
	}
	copy(r.buf[off:], p)
	return len(p), nil
}

func (r *RAM) Erase(off, size int64) error {
	if off < 0 || off+size > int64(len(r.buf)) {
		return errOutOfRange
	}
	for i := off; i < off+size; i++ {
		r.buf[i] = EraseValue
	}
	return nil
}
