package littlefs

import (
	"io"

	"github.com/flashkit/littlefs/lfs"
)

// Dir is an open directory cursor, consumed by Close.
type Dir struct {
	fs     *FS
	state  lfs.DirState
	closed bool
}

// OpenDir opens the directory at path for enumeration.
func (fs *FS) OpenDir(path string) (*Dir, error) {
	if err := fs.opGuard(); err != nil {
		return nil, err
	}

	d := &Dir{fs: fs}
	p := encodePath(path)
	if err := errFromCode(fs.eng.DirOpen(&fs.state, &d.state, p[:])); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dir) guard() error {
	if d.closed {
		return ErrClosed
	}
	return d.fs.opGuard()
}

// Read returns the next entry, starting with the implicit "." and ".."
// entries. At the end of the directory it returns io.EOF.
func (d *Dir) Read() (DirEntry, error) {
	if err := d.guard(); err != nil {
		return DirEntry{}, err
	}
	var info lfs.Info
	rc := d.fs.eng.DirRead(&d.fs.state, &d.state, &info)
	if rc == 0 {
		return DirEntry{}, io.EOF
	}
	if rc < 0 {
		return DirEntry{}, errFromCode(rc)
	}
	return entryFromInfo(&info), nil
}

// Seek restores a position previously returned by Tell.
func (d *Dir) Seek(off int64) error {
	if err := d.guard(); err != nil {
		return err
	}
	return errFromCode(d.fs.eng.DirSeek(&d.fs.state, &d.state, int(off)))
}

// Tell returns the current position in the directory.
func (d *Dir) Tell() (int64, error) {
	if err := d.guard(); err != nil {
		return 0, err
	}
	pos, err := sizeFromCode(d.fs.eng.DirTell(&d.fs.state, &d.state))
	return int64(pos), err
}

// Rewind resets the cursor to the first entry.
func (d *Dir) Rewind() error {
	if err := d.guard(); err != nil {
		return err
	}
	return errFromCode(d.fs.eng.DirRewind(&d.fs.state, &d.state))
}

// Close consumes the cursor.
func (d *Dir) Close() error {
	if err := d.guard(); err != nil {
		return err
	}
	d.closed = true
	return errFromCode(d.fs.eng.DirClose(&d.fs.state, &d.state))
}
