package littlefs

import (
	"errors"
	"fmt"

	"github.com/flashkit/littlefs/lfs"
)

// Errors translated from engine status codes. Callers branch on these
// with errors.Is.
var (
	ErrIO         = errors.New("littlefs: input/output error")
	ErrCorrupt    = errors.New("littlefs: corrupted metadata")
	ErrNoEnt      = errors.New("littlefs: no such file or directory")
	ErrExist      = errors.New("littlefs: entry already exists")
	ErrNotDir     = errors.New("littlefs: not a directory")
	ErrIsDir      = errors.New("littlefs: is a directory")
	ErrNotEmpty   = errors.New("littlefs: directory not empty")
	ErrBadFd      = errors.New("littlefs: bad file descriptor")
	ErrFileTooBig = errors.New("littlefs: file too large")
	ErrInvalid    = errors.New("littlefs: invalid argument")
	ErrNoSpace    = errors.New("littlefs: no space left on device")
	ErrNoMem      = errors.New("littlefs: out of memory")
)

// Errors reporting misuse of adapter handles. These never come from the
// engine.
var (
	ErrNotMounted = errors.New("littlefs: not mounted")
	ErrMounted    = errors.New("littlefs: already mounted")
	ErrClosed     = errors.New("littlefs: handle is closed")
)

// errFromCode maps an engine status code to the error taxonomy.
// Non-negative codes are success. Every documented negative code is
// enumerated; an unlisted negative code is a translator defect and is
// reported loudly rather than swallowed.
func errFromCode(rc int) error {
	if rc >= 0 {
		return nil
	}
	switch rc {
	case lfs.ErrIO:
		return ErrIO
	case lfs.ErrCorrupt:
		return ErrCorrupt
	case lfs.ErrNoEnt:
		return ErrNoEnt
	case lfs.ErrExist:
		return ErrExist
	case lfs.ErrNotDir:
		return ErrNotDir
	case lfs.ErrIsDir:
		return ErrIsDir
	case lfs.ErrNotEmpty:
		return ErrNotEmpty
	case lfs.ErrBadF:
		return ErrBadFd
	case lfs.ErrFBig:
		return ErrFileTooBig
	case lfs.ErrInval:
		return ErrInvalid
	case lfs.ErrNoSpc:
		return ErrNoSpace
	case lfs.ErrNoMem:
		return ErrNoMem
	}
	return fmt.Errorf("littlefs: unrecognized engine status %d", rc)
}

// sizeFromCode is the counting form of errFromCode, for entry points
// whose non-negative result is a byte count or a position.
func sizeFromCode(rc int) (int, error) {
	if rc >= 0 {
		return rc, nil
	}
	return 0, errFromCode(rc)
}
