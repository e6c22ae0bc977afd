package littlefs

import (
	"io"

	"github.com/flashkit/littlefs/lfs"
)

// File is an open file handle. It implements io.Reader, io.Writer and
// io.Seeker. A File is consumed by Close; operations on a closed File
// answer ErrClosed.
type File struct {
	fs     *FS
	state  lfs.FileState
	buf    []byte // per-file program buffer, ProgSize bytes
	closed bool
}

// OpenFile opens the file at path. Flags combine an access mode
// (ReadOnly, WriteOnly, ReadWrite) with Create, Exclusive, Truncate and
// Append. Create|Exclusive fails with ErrExist when the path already
// exists. The file's program buffer is allocated before the engine sees
// the open.
func (fs *FS) OpenFile(path string, flags OpenFlag) (*File, error) {
	if err := fs.opGuard(); err != nil {
		return nil, err
	}

	f := &File{
		fs:  fs,
		buf: make([]byte, fs.geo.ProgSize),
	}
	p := encodePath(path)
	if err := errFromCode(fs.eng.FileOpen(&fs.state, &f.state, p[:], int(flags))); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) guard() error {
	if f.closed {
		return ErrClosed
	}
	return f.fs.opGuard()
}

// Read reads up to len(p) bytes at the current position. At the end of
// the file it returns io.EOF.
func (f *File) Read(p []byte) (int, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	n, err := sizeFromCode(f.fs.eng.FileRead(&f.fs.state, &f.state, p))
	if err == nil && n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, err
}

// Write writes len(p) bytes at the current position (at the end of the
// file when opened with Append) and returns the number written.
func (f *File) Write(p []byte) (int, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	return sizeFromCode(f.fs.eng.FileWrite(&f.fs.state, &f.state, p))
}

// Seek sets the position for the next Read or Write. Whence is
// io.SeekStart, io.SeekCurrent or io.SeekEnd. It returns the new
// position.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	pos, err := sizeFromCode(f.fs.eng.FileSeek(&f.fs.state, &f.state, int(offset), whence))
	return int64(pos), err
}

// Truncate sets the file size. Shrinking discards data past size;
// growing zero-fills.
func (f *File) Truncate(size int64) error {
	if err := f.guard(); err != nil {
		return err
	}
	if size < 0 {
		return ErrInvalid
	}
	if size > 0x7FFFFFFF {
		return ErrFileTooBig
	}
	return errFromCode(f.fs.eng.FileTruncate(&f.fs.state, &f.state, uint32(size)))
}

// Tell returns the current position.
func (f *File) Tell() (int64, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	pos, err := sizeFromCode(f.fs.eng.FileTell(&f.fs.state, &f.state))
	return int64(pos), err
}

// Rewind resets the position to the start of the file.
func (f *File) Rewind() error {
	if err := f.guard(); err != nil {
		return err
	}
	return errFromCode(f.fs.eng.FileRewind(&f.fs.state, &f.state))
}

// Size returns the total size of the file in bytes.
func (f *File) Size() (int64, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	n, err := sizeFromCode(f.fs.eng.FileSize(&f.fs.state, &f.state))
	return int64(n), err
}

// Sync flushes buffered writes to the medium without closing the file.
func (f *File) Sync() error {
	if err := f.guard(); err != nil {
		return err
	}
	return errFromCode(f.fs.eng.FileSync(&f.fs.state, &f.state))
}

// Close flushes the file and consumes the handle.
func (f *File) Close() error {
	if err := f.guard(); err != nil {
		return err
	}
	f.closed = true
	return errFromCode(f.fs.eng.FileClose(&f.fs.state, &f.state))
}
