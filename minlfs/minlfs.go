// Package minlfs is a deliberately small filesystem engine implementing
// the lfs contract in pure Go, so the adapter can run without a linked
// engine library. It keeps the contract honest: every byte it moves goes
// through the config's read/prog/erase callbacks in read_size/prog_size
// units, staged through the config's buffers, with erase-before-program
// discipline per block and free-block selection through the lookahead
// window.
//
// It is not littlefs: the on-medium format is a single-superblock FAT
// layout with no wear leveling or copy-on-write commits. The call-level
// semantics (status codes, open flags, dot entries, rename rules) follow
// the contract.
package minlfs

import (
	"github.com/flashkit/littlefs/lfs"
)

// Engine implements lfs.Engine.
type Engine struct{}

var _ lfs.Engine = (*Engine)(nil)

// New returns an engine. Engines are stateless; all per-filesystem state
// lives in the lfs.State block populated by Mount.
func New() *Engine {
	return &Engine{}
}

// fsState is the mounted filesystem: the config it was mounted with
// (valid until unmount, per the contract), the decoded FAT and entry
// table, and the lookahead window position. Data blocks are written
// through immediately; FAT and table changes sit in memory until
// flushMeta.
type fsState struct {
	cfg *lfs.Config

	tableBlocks uint32
	dataStart   uint32

	fat     []uint32
	tab     []entry
	laStart uint32

	// live handle count per table index. An entry with a live handle
	// must not be removed or replaced: clearing its slot would leave the
	// handle addressing freed blocks, and the freed slot could be handed
	// to the next create.
	open map[uint32]uint32
}

func (s *fsState) release(idx uint32) {
	if s.open[idx] > 1 {
		s.open[idx]--
	} else {
		delete(s.open, idx)
	}
}

func state(fs *lfs.State) (*fsState, int) {
	if s, ok := fs.Sys.(*fsState); ok && s != nil {
		return s, lfs.ErrOK
	}
	return nil, lfs.ErrInval
}

// checkGeometry verifies the layout fits the config. The adapter has
// already validated alignment; this guards the layout's own limits.
func checkGeometry(c *lfs.Config) (tableBlocks uint32, rc int) {
	if c.BlockSize < fatOff || (c.BlockSize-fatOff)/4 < c.BlockCount {
		return 0, lfs.ErrInval
	}
	if c.BlockSize < entrySize {
		return 0, lfs.ErrInval
	}
	tableBlocks = c.BlockCount / 16
	if tableBlocks == 0 {
		tableBlocks = 1
	}
	if 1+tableBlocks+1 > c.BlockCount {
		return 0, lfs.ErrInval
	}
	if len(c.ReadBuffer) < int(c.ReadSize) || len(c.ProgBuffer) < int(c.ProgSize) ||
		len(c.LookaheadBuffer) < int(c.Lookahead)/8 {
		return 0, lfs.ErrInval
	}
	return tableBlocks, lfs.ErrOK
}

// Format writes fresh metadata across the device. It does not mount:
// the state block is left untouched.
func (e *Engine) Format(fs *lfs.State, c *lfs.Config) int {
	tableBlocks, rc := checkGeometry(c)
	if rc < 0 {
		return rc
	}

	s := &fsState{
		cfg:         c,
		tableBlocks: tableBlocks,
		dataStart:   1 + tableBlocks,
		fat:         make([]uint32, c.BlockCount),
	}
	for b := uint32(0); b < s.dataStart; b++ {
		s.fat[b] = fatReserved
	}
	s.tab = make([]entry, s.tableBlocks*(c.BlockSize/entrySize))
	return s.flushMeta()
}

// Mount reads and validates block 0, then loads the FAT and entry table.
func (e *Engine) Mount(fs *lfs.State, c *lfs.Config) int {
	if _, rc := checkGeometry(c); rc < 0 {
		return rc
	}

	s := &fsState{cfg: c, open: make(map[uint32]uint32)}
	buf := make([]byte, c.BlockSize)
	if rc := s.readBlock(0, buf); rc < 0 {
		return rc
	}
	if rc := decodeSuper(s, buf); rc < 0 {
		return rc
	}

	perBlock := c.BlockSize / entrySize
	s.tab = make([]entry, s.tableBlocks*perBlock)
	for tb := uint32(0); tb < s.tableBlocks; tb++ {
		if rc := s.readBlock(1+tb, buf); rc < 0 {
			return rc
		}
		for i := uint32(0); i < perBlock; i++ {
			s.tab[tb*perBlock+i] = decodeEntry(buf[i*entrySize:])
		}
	}

	s.laStart = s.dataStart
	fs.Sys = s
	return lfs.ErrOK
}

// Unmount flushes metadata and drops the state.
func (e *Engine) Unmount(fs *lfs.State) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	rc = s.flushMeta()
	fs.Sys = nil
	return rc
}

// readBlock reads a whole block through the read callback in ReadSize
// units, staged through the config's read buffer.
func (s *fsState) readBlock(block uint32, dst []byte) int {
	step := int(s.cfg.ReadSize)
	for off := 0; off < len(dst); off += step {
		n := step
		if off+n > len(dst) {
			n = len(dst) - off
		}
		buf := s.cfg.ReadBuffer[:n]
		if rc := s.cfg.Read(s.cfg, block, uint32(off), buf); rc < 0 {
			return rc
		}
		copy(dst[off:], buf)
	}
	return lfs.ErrOK
}

// progBlock erases a block and programs it with data, in ProgSize units
// staged through the config's prog buffer. data is always a whole block.
func (s *fsState) progBlock(block uint32, data []byte) int {
	if rc := s.cfg.Erase(s.cfg, block); rc < 0 {
		return rc
	}
	step := int(s.cfg.ProgSize)
	for off := 0; off < len(data); off += step {
		n := step
		if off+n > len(data) {
			n = len(data) - off
		}
		buf := s.cfg.ProgBuffer[:n]
		copy(buf, data[off:off+n])
		if rc := s.cfg.Prog(s.cfg, block, uint32(off), buf); rc < 0 {
			return rc
		}
	}
	return lfs.ErrOK
}

// flushMeta rewrites block 0 and the entry table.
func (s *fsState) flushMeta() int {
	buf := make([]byte, s.cfg.BlockSize)
	encodeSuper(s, buf)
	if rc := s.progBlock(0, buf); rc < 0 {
		return rc
	}

	perBlock := s.cfg.BlockSize / entrySize
	for tb := uint32(0); tb < s.tableBlocks; tb++ {
		for i := range buf {
			buf[i] = 0
		}
		for i := uint32(0); i < perBlock; i++ {
			encodeEntry(&s.tab[tb*perBlock+i], buf[i*entrySize:])
		}
		if rc := s.progBlock(1+tb, buf); rc < 0 {
			return rc
		}
	}
	return lfs.ErrOK
}

// allocBlock claims a free block. Candidates are found by filling the
// lookahead window from the FAT and taking the first set bit, sliding
// the window until the whole device has been scanned.
func (s *fsState) allocBlock() (uint32, int) {
	total := uint32(len(s.fat))
	la := s.cfg.LookaheadBuffer[:s.cfg.Lookahead/8]
	window := uint32(len(la)) * 8
	if window == 0 {
		return 0, lfs.ErrInval
	}

	for scanned := uint32(0); scanned < total+window; scanned += window {
		if s.laStart < s.dataStart || s.laStart >= total {
			s.laStart = s.dataStart
		}
		for i := range la {
			la[i] = 0
		}
		for w := uint32(0); w < window && s.laStart+w < total; w++ {
			if s.fat[s.laStart+w] == fatFree {
				la[w/8] |= 1 << (w % 8)
			}
		}
		for w := uint32(0); w < window && s.laStart+w < total; w++ {
			if la[w/8]&(1<<(w%8)) != 0 {
				b := s.laStart + w
				s.fat[b] = fatEnd
				return b, lfs.ErrOK
			}
		}
		s.laStart += window
	}
	return 0, lfs.ErrNoSpc
}

// allocEntry claims a free slot in the entry table.
func (s *fsState) allocEntry() (uint32, int) {
	for i := range s.tab {
		if !s.tab[i].used {
			return uint32(i), lfs.ErrOK
		}
	}
	return 0, lfs.ErrNoSpc
}

// freeChain returns a file's data blocks to the FAT.
func (s *fsState) freeChain(e *entry) {
	b := e.first
	for b != noBlock {
		next := s.fat[b]
		s.fat[b] = fatFree
		b = next
	}
	e.first = noBlock
}
