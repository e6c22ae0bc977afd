package littlefs

import (
	"github.com/flashkit/littlefs/lfs"
)

// buildConfig assembles the engine config for the next format or mount
// call. It is rebuilt every time so the captured buffer slices and
// context token are fresh. The record lives inside the FS struct, not on
// the stack, because the engine keeps the pointer for the lifetime of
// the mount.
func (fs *FS) buildConfig() *lfs.Config {
	fs.cfg = lfs.Config{
		Context: fs.handle,

		Read:  trampolineRead,
		Prog:  trampolineProg,
		Erase: trampolineErase,
		Sync:  trampolineSync,

		ReadSize:   fs.geo.ReadSize,
		ProgSize:   fs.geo.ProgSize,
		BlockSize:  fs.geo.BlockSize,
		BlockCount: fs.geo.BlockCount,
		Lookahead:  fs.geo.Lookahead,

		ReadBuffer:      fs.readBuf,
		ProgBuffer:      fs.progBuf,
		LookaheadBuffer: fs.lookBuf,
	}
	return &fs.cfg
}
