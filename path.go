package littlefs

import (
	"github.com/flashkit/littlefs/lfs"
)

// encodePath copies path into a fixed engine name buffer: at most
// lfs.NameMax bytes of the path, the remainder zero-filled, so the
// result is always in bounds and zero-terminated. Oversized paths are
// truncated, deterministically, rather than rejected.
func encodePath(path string) [lfs.NameMax + 1]byte {
	var buf [lfs.NameMax + 1]byte
	n := len(path)
	if n > lfs.NameMax {
		n = lfs.NameMax
	}
	copy(buf[:n], path)
	return buf
}

// decodeName returns the string held in a zero-terminated name buffer.
func decodeName(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
