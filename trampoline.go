package littlefs

import (
	"sync"

	"github.com/flashkit/littlefs/lfs"
)

// The engine identifies a filesystem only by the opaque context token
// stowed in its config. Handing the engine a real Go pointer would pin
// nothing and promise nothing, so the adapter keeps a registry of live
// filesystems keyed by small integer tokens, the same trick
// runtime/cgo.Handle plays. The registry is also where the single-owner
// rule for Storage is enforced.

var (
	handlesMu  sync.Mutex
	handles    = make(map[uintptr]*FS)
	nextHandle uintptr = 1
)

// registerFS assigns fs a context token. It fails if the storage is
// already owned by a live filesystem.
func registerFS(fs *FS) (uintptr, error) {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	for _, other := range handles {
		if storageEqual(other.storage, fs.storage) {
			return 0, ErrMounted
		}
	}

	h := nextHandle
	nextHandle++
	handles[h] = fs
	return h, nil
}

func unregisterFS(h uintptr) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, h)
}

func lookupFS(h uintptr) *FS {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	return handles[h]
}

// storageEqual reports whether two Storage values are the same device.
// Interface comparison panics on non-comparable dynamic types, so those
// are treated as distinct.
func storageEqual(a, b Storage) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// The four trampolines the engine calls for raw I/O. Each recovers the
// owning FS from the config's context token and forwards to its Storage.
// A Storage failure comes back to the engine as ErrIO, a recoverable
// status, never a crash.

func trampolineRead(c *lfs.Config, block, off uint32, buf []byte) int {
	fs := lookupFS(c.Context)
	if fs == nil {
		return lfs.ErrIO
	}
	pos := int64(block)*int64(c.BlockSize) + int64(off)
	if _, err := fs.storage.ReadAt(buf, pos); err != nil {
		return lfs.ErrIO
	}
	return lfs.ErrOK
}

func trampolineProg(c *lfs.Config, block, off uint32, data []byte) int {
	fs := lookupFS(c.Context)
	if fs == nil {
		return lfs.ErrIO
	}
	pos := int64(block)*int64(c.BlockSize) + int64(off)
	if _, err := fs.storage.WriteAt(data, pos); err != nil {
		return lfs.ErrIO
	}
	return lfs.ErrOK
}

func trampolineErase(c *lfs.Config, block uint32) int {
	fs := lookupFS(c.Context)
	if fs == nil {
		return lfs.ErrIO
	}
	pos := int64(block) * int64(c.BlockSize)
	if err := fs.storage.Erase(pos, int64(c.BlockSize)); err != nil {
		return lfs.ErrIO
	}
	return lfs.ErrOK
}

func trampolineSync(c *lfs.Config) int {
	// Writes and erases are synchronously durable; nothing to flush.
	return lfs.ErrOK
}
