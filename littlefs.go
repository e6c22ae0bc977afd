// Package littlefs adapts a littlefs-style embedded filesystem engine to
// caller-supplied storage. The FS owns the storage device, the engine's
// state block and the three scratch buffers; the engine reaches the
// medium only through the callback trampolines wired into the config it
// is mounted with.
package littlefs

import (
	"io"

	"github.com/flashkit/littlefs/lfs"
)

// DirEntry describes one directory entry, copied out of the engine's
// record as soon as it is produced.
type DirEntry struct {
	Type EntryType
	Size int64
	Name string
}

// EntryType distinguishes files from directories.
type EntryType uint8

const (
	EntryFile EntryType = iota
	EntryDir
)

func (t EntryType) String() string {
	if t == EntryDir {
		return "dir"
	}
	return "file"
}

func entryFromInfo(info *lfs.Info) DirEntry {
	typ := EntryFile
	if info.Type == lfs.TypeDir {
		typ = EntryDir
	}
	return DirEntry{
		Type: typ,
		Size: int64(info.Size),
		Name: decodeName(info.Name[:]),
	}
}

// OpenFlag is a bit set controlling OpenFile.
type OpenFlag int

const (
	ReadOnly  OpenFlag = lfs.ORdOnly
	WriteOnly OpenFlag = lfs.OWrOnly
	ReadWrite OpenFlag = lfs.ORdWr
	Create    OpenFlag = lfs.OCreat
	Exclusive OpenFlag = lfs.OExcl
	Truncate  OpenFlag = lfs.OTrunc
	Append    OpenFlag = lfs.OAppend
)

// FS is a filesystem on a Storage. It is created unmounted; Format and
// Mount drive the engine's lifecycle, Unmount releases the engine state
// and the storage together. An FS is not safe for concurrent use.
type FS struct {
	storage Storage
	geo     Geometry
	eng     lfs.Engine

	handle uintptr
	cfg    lfs.Config
	state  lfs.State

	readBuf []byte
	progBuf []byte
	lookBuf []byte

	mounted bool
	closed  bool
}

// New creates an unmounted filesystem over storage, driven by eng. The
// geometry is validated and fixed for the life of the FS. The storage
// must not already belong to another live FS.
func New(storage Storage, eng lfs.Engine, geo Geometry) (*FS, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}

	fs := &FS{
		storage: storage,
		geo:     geo,
		eng:     eng,
		readBuf: make([]byte, geo.ReadSize),
		progBuf: make([]byte, geo.ProgSize),
		lookBuf: make([]byte, geo.Lookahead/8),
	}

	h, err := registerFS(fs)
	if err != nil {
		return nil, err
	}
	fs.handle = h
	return fs, nil
}

// Format writes fresh filesystem metadata across the whole device. The
// FS stays unmounted; formatting does not imply mounting.
func (fs *FS) Format() error {
	if fs.closed {
		return ErrClosed
	}
	if fs.mounted {
		return ErrMounted
	}
	return errFromCode(fs.eng.Format(&fs.state, fs.buildConfig()))
}

// Mount validates the on-medium metadata and loads it into the engine
// state. On failure (ErrCorrupt, ErrIO) the FS stays unmounted and Mount
// may be retried.
func (fs *FS) Mount() error {
	if fs.closed {
		return ErrClosed
	}
	if fs.mounted {
		return ErrMounted
	}
	if err := errFromCode(fs.eng.Mount(&fs.state, fs.buildConfig())); err != nil {
		return err
	}
	fs.mounted = true
	return nil
}

// Unmount flushes pending state, releases the engine resources and the
// storage (closing it if it implements io.Closer). The FS is unusable
// afterwards; every further call answers ErrClosed.
func (fs *FS) Unmount() error {
	if fs.closed {
		return ErrClosed
	}
	if !fs.mounted {
		return ErrNotMounted
	}

	rc := fs.eng.Unmount(&fs.state)

	fs.mounted = false
	fs.closed = true
	unregisterFS(fs.handle)

	if c, ok := fs.storage.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && rc >= 0 {
			return cerr
		}
	}
	return errFromCode(rc)
}

func (fs *FS) opGuard() error {
	if fs.closed {
		return ErrClosed
	}
	if !fs.mounted {
		return ErrNotMounted
	}
	return nil
}

// Remove deletes a file or an empty directory.
func (fs *FS) Remove(path string) error {
	if err := fs.opGuard(); err != nil {
		return err
	}
	p := encodePath(path)
	return errFromCode(fs.eng.Remove(&fs.state, p[:]))
}

// Rename moves or renames a file or directory. Both paths are encoded
// independently, with the same truncation policy.
func (fs *FS) Rename(oldpath, newpath string) error {
	if err := fs.opGuard(); err != nil {
		return err
	}
	op := encodePath(oldpath)
	np := encodePath(newpath)
	return errFromCode(fs.eng.Rename(&fs.state, op[:], np[:]))
}

// Mkdir creates a directory.
func (fs *FS) Mkdir(path string) error {
	if err := fs.opGuard(); err != nil {
		return err
	}
	p := encodePath(path)
	return errFromCode(fs.eng.Mkdir(&fs.state, p[:]))
}

// Stat describes the entry at path.
func (fs *FS) Stat(path string) (DirEntry, error) {
	if err := fs.opGuard(); err != nil {
		return DirEntry{}, err
	}
	p := encodePath(path)
	var info lfs.Info
	if err := errFromCode(fs.eng.Stat(&fs.state, p[:], &info)); err != nil {
		return DirEntry{}, err
	}
	return entryFromInfo(&info), nil
}
