package disk

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkit/littlefs"
)

func testMedia(t *testing.T, size int64) map[string]littlefs.Storage {
	f, err := OpenFile(filepath.Join(t.TempDir(), "disk.img"), size)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return map[string]littlefs.Storage{
		"ram":  NewRAM(size),
		"file": f,
	}
}

func TestReadWriteErase(t *testing.T) {
	for name, s := range testMedia(t, 4096) {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			// fresh media read back fully erased
			buf := make([]byte, 16)
			_, err := s.ReadAt(buf, 100)
			r.NoError(err)
			r.Equal(bytes.Repeat([]byte{EraseValue}, 16), buf)

			_, err = s.WriteAt([]byte("abcd"), 100)
			r.NoError(err)
			_, err = s.ReadAt(buf[:4], 100)
			r.NoError(err)
			r.Equal([]byte("abcd"), buf[:4])

			r.NoError(s.Erase(0, 4096))
			_, err = s.ReadAt(buf[:4], 100)
			r.NoError(err)
			r.Equal(bytes.Repeat([]byte{EraseValue}, 4), buf[:4])
		})
	}
}

func TestBounds(t *testing.T) {
	for name, s := range testMedia(t, 1024) {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			_, err := s.ReadAt(make([]byte, 16), 1020)
			r.Error(err)
			_, err = s.WriteAt(make([]byte, 16), 1020)
			r.Error(err)
			r.Error(s.Erase(512, 1024))
			_, err = s.ReadAt(make([]byte, 1), -1)
			r.Error(err)
		})
	}
}

func TestFileImagePersists(t *testing.T) {
	r := require.New(t)
	img := filepath.Join(t.TempDir(), "persist.img")

	f, err := OpenFile(img, 2048)
	r.NoError(err)
	_, err = f.WriteAt([]byte("keep"), 512)
	r.NoError(err)
	r.NoError(f.Close())

	f2, err := OpenFile(img, 2048)
	r.NoError(err)
	defer f2.Close()

	buf := make([]byte, 4)
	_, err = f2.ReadAt(buf, 512)
	r.NoError(err)
	r.Equal([]byte("keep"), buf)
}

func TestFileImageSizeMismatch(t *testing.T) {
	r := require.New(t)
	img := filepath.Join(t.TempDir(), "size.img")

	f, err := OpenFile(img, 2048)
	r.NoError(err)
	r.NoError(f.Close())

	_, err = OpenFile(img, 4096)
	r.Error(err)
}
