package littlefs // import "github.com/flashkit/littlefs"

import (
	"io"
)

// Storage is the raw medium a filesystem lives on: a byte-addressed
// device of Geometry.BlockCount * Geometry.BlockSize bytes. Reads and
// writes never cross the end of the device; Erase resets a whole number
// of blocks to the medium's erased value.
//
// A Storage belongs to exactly one live FS at a time. Writes and erases
// are assumed synchronously durable; the adapter issues no separate
// flush.
type Storage interface {
	io.ReaderAt
	io.WriterAt

	// Erase resets the range [off, off+size) to the erased value. The
	// range is always aligned to whole blocks.
	Erase(off, size int64) error
}
