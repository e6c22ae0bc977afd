package disk

import (
	"fmt"
	"os"

	"github.com/flashkit/littlefs"
)

// File is an image-file medium. Erase writes the erased value; reads and
// writes go straight through to the file.
type File struct {
	f    *os.File
	size int64
}

var _ littlefs.Storage = (*File)(nil)

// OpenFile opens (or creates) an image file and fixes it at size bytes.
// A newly created image is fully erased; an existing image keeps its
// contents.
func OpenFile(path string, size int64) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if os.IsNotExist(err) {
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, err
		}
		d := &File{f: f, size: size}
		if err := d.Erase(0, size); err != nil {
			f.Close()
			return nil, err
		}
		return d, nil
	}
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() != size {
		f.Close()
		return nil, fmt.Errorf("disk: image %s is %d bytes, want %d", path, st.Size(), size)
	}
	return &File{f: f, size: size}, nil
}

func (d *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > d.size {
		return 0, errOutOfRange
	}
	return d.f.ReadAt(p, off)
}

func (d *File) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > d.size {
		return 0, errOutOfRange
	}
	return d.f.WriteAt(p, off)
}

func (d *File) Erase(off, size int64) error {
	if off < 0 || off+size > d.size {
		return errOutOfRange
	}
	blank := make([]byte, 4096)
	for i := range blank {
		blank[i] = EraseValue
	}
	for size > 0 {
		n := int64(len(blank))
		if n > size {
			n = size
		}
		if _, err := d.f.WriteAt(blank[:n], off); err != nil {
			return err
		}
		off += n
		size -= n
	}
	return nil
}

// Close closes the underlying image file.
func (d *File) Close() error {
	return d.f.Close()
}
