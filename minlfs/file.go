package minlfs

import (
	"github.com/flashkit/littlefs/lfs"
)

// maxFileSize keeps sizes and positions inside the contract's signed
// status range.
const maxFileSize = 0x7FFFFFFF

// fileState is an open file: its table index, the open flags, and the
// cursor position.
type fileState struct {
	idx   uint32
	flags int
	pos   uint32
}

func fileOf(f *lfs.FileState) (*fileState, int) {
	if fst, ok := f.Sys.(*fileState); ok && fst != nil {
		return fst, lfs.ErrOK
	}
	return nil, lfs.ErrBadF
}

func (e *Engine) FileOpen(fs *lfs.State, f *lfs.FileState, path []byte, flags int) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	if flags&lfs.ORdWr == 0 {
		return lfs.ErrInval
	}
	// truncation needs write access
	if flags&lfs.OTrunc != 0 && flags&lfs.OWrOnly == 0 {
		return lfs.ErrInval
	}

	comps := splitPath(path)
	if len(comps) == 0 {
		return lfs.ErrIsDir
	}
	parent, leaf, rc := s.resolveParent(comps)
	if rc < 0 {
		return rc
	}

	idx, ok := s.findChild(parent, leaf)
	if ok {
		if flags&lfs.OCreat != 0 && flags&lfs.OExcl != 0 {
			return lfs.ErrExist
		}
		if s.tab[idx].typ == lfs.TypeDir {
			return lfs.ErrIsDir
		}
	} else {
		if flags&lfs.OCreat == 0 {
			return lfs.ErrNoEnt
		}
		idx, rc = s.allocEntry()
		if rc < 0 {
			return rc
		}
		s.tab[idx] = entry{
			used:   true,
			typ:    lfs.TypeReg,
			first:  noBlock,
			parent: parent,
			name:   leaf,
		}
		if rc := s.flushMeta(); rc < 0 {
			s.tab[idx] = entry{first: noBlock}
			return rc
		}
	}

	if flags&lfs.OTrunc != 0 {
		ent := &s.tab[idx]
		s.freeChain(ent)
		ent.size = 0
		if rc := s.flushMeta(); rc < 0 {
			return rc
		}
	}

	s.open[idx]++
	f.Sys = &fileState{idx: idx, flags: flags}
	return lfs.ErrOK
}

func (e *Engine) FileClose(fs *lfs.State, f *lfs.FileState) int {
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}
	if rc := e.FileSync(fs, f); rc < 0 {
		return rc
	}
	s, _ := state(fs)
	s.release(fst.idx)
	f.Sys = nil
	return lfs.ErrOK
}

func (e *Engine) FileSync(fs *lfs.State, f *lfs.FileState) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	if _, rc := fileOf(f); rc < 0 {
		return rc
	}
	return s.flushMeta()
}

func (e *Engine) FileRead(fs *lfs.State, f *lfs.FileState, buf []byte) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}
	if fst.flags&lfs.ORdOnly == 0 {
		return lfs.ErrBadF
	}

	ent := &s.tab[fst.idx]
	if fst.pos >= ent.size {
		return 0
	}
	n := uint32(len(buf))
	if n > ent.size-fst.pos {
		n = ent.size - fst.pos
	}

	bs := s.cfg.BlockSize
	scratch := make([]byte, bs)
	done := uint32(0)
	for done < n {
		off := fst.pos + done
		b, rc := s.blockAt(ent, off/bs, false)
		if rc < 0 {
			return rc
		}
		if rc := s.readBlock(b, scratch); rc < 0 {
			return rc
		}
		c := bs - off%bs
		if c > n-done {
			c = n - done
		}
		copy(buf[done:done+c], scratch[off%bs:])
		done += c
	}
	fst.pos += n
	return int(n)
}

func (e *Engine) FileWrite(fs *lfs.State, f *lfs.FileState, data []byte) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}
	if fst.flags&lfs.OWrOnly == 0 {
		return lfs.ErrBadF
	}

	ent := &s.tab[fst.idx]
	if fst.flags&lfs.OAppend != 0 {
		fst.pos = ent.size
	}
	if int64(fst.pos)+int64(len(data)) > maxFileSize {
		return lfs.ErrFBig
	}

	// a seek past the end leaves a hole that reads back as zeros
	if fst.pos > ent.size {
		if rc := s.writeRange(ent, ent.size, make([]byte, fst.pos-ent.size)); rc < 0 {
			return rc
		}
	}
	if rc := s.writeRange(ent, fst.pos, data); rc < 0 {
		return rc
	}
	fst.pos += uint32(len(data))
	return len(data)
}

func (e *Engine) FileSeek(fs *lfs.State, f *lfs.FileState, off int, whence int) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}

	var base int64
	switch whence {
	case lfs.SeekSet:
		base = 0
	case lfs.SeekCur:
		base = int64(fst.pos)
	case lfs.SeekEnd:
		base = int64(s.tab[fst.idx].size)
	default:
		return lfs.ErrInval
	}
	pos := base + int64(off)
	if pos < 0 || pos > maxFileSize {
		return lfs.ErrInval
	}
	fst.pos = uint32(pos)
	return int(pos)
}

func (e *Engine) FileTruncate(fs *lfs.State, f *lfs.FileState, size uint32) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}
	if fst.flags&lfs.OWrOnly == 0 {
		return lfs.ErrBadF
	}
	if size > maxFileSize {
		return lfs.ErrFBig
	}

	ent := &s.tab[fst.idx]
	switch {
	case size == ent.size:
	case size > ent.size:
		if rc := s.writeRange(ent, ent.size, make([]byte, size-ent.size)); rc < 0 {
			return rc
		}
	case size == 0:
		s.freeChain(ent)
		ent.size = 0
	default:
		if rc := s.shrink(ent, size); rc < 0 {
			return rc
		}
	}
	ent.size = size
	return lfs.ErrOK
}

func (e *Engine) FileTell(fs *lfs.State, f *lfs.FileState) int {
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}
	return int(fst.pos)
}

func (e *Engine) FileRewind(fs *lfs.State, f *lfs.FileState) int {
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}
	fst.pos = 0
	return lfs.ErrOK
}

func (e *Engine) FileSize(fs *lfs.State, f *lfs.FileState) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	fst, rc := fileOf(f)
	if rc < 0 {
		return rc
	}
	return int(s.tab[fst.idx].size)
}

// blockAt walks the FAT chain to the block holding file block index bi,
// extending the chain when alloc is set.
func (s *fsState) blockAt(ent *entry, bi uint32, alloc bool) (uint32, int) {
	if ent.first == noBlock {
		if !alloc {
			return 0, lfs.ErrInval
		}
		b, rc := s.allocBlock()
		if rc < 0 {
			return 0, rc
		}
		ent.first = b
	}

	b := ent.first
	for i := uint32(0); i < bi; i++ {
		next := s.fat[b]
		if next == fatEnd {
			if !alloc {
				return 0, lfs.ErrInval
			}
			nb, rc := s.allocBlock()
			if rc < 0 {
				return 0, rc
			}
			s.fat[b] = nb
			next = nb
		}
		b = next
	}
	return b, lfs.ErrOK
}

// writeRange writes data at byte offset start, allocating blocks as
// needed and read-modify-writing blocks that already hold file content.
// It grows ent.size when the range extends past it; the FAT and size
// changes stay in memory until the next flushMeta.
func (s *fsState) writeRange(ent *entry, start uint32, data []byte) int {
	if len(data) == 0 {
		return lfs.ErrOK
	}

	bs := s.cfg.BlockSize
	oldBlocks := (ent.size + bs - 1) / bs
	scratch := make([]byte, bs)

	off := start
	for len(data) > 0 {
		bi := off / bs
		bo := off % bs
		b, rc := s.blockAt(ent, bi, true)
		if rc < 0 {
			return rc
		}

		if bi < oldBlocks {
			if rc := s.readBlock(b, scratch); rc < 0 {
				return rc
			}
		} else {
			for i := range scratch {
				scratch[i] = 0
			}
		}

		n := bs - bo
		if n > uint32(len(data)) {
			n = uint32(len(data))
		}
		copy(scratch[bo:bo+n], data[:n])
		if rc := s.progBlock(b, scratch); rc < 0 {
			return rc
		}

		off += n
		data = data[n:]
	}

	if off > ent.size {
		ent.size = off
	}
	return lfs.ErrOK
}

// shrink cuts the chain after the last block still in use and zeros the
// tail of that block so a later extension reads back zeros, not stale
// content.
func (s *fsState) shrink(ent *entry, size uint32) int {
	bs := s.cfg.BlockSize
	last, rc := s.blockAt(ent, (size-1)/bs, false)
	if rc < 0 {
		return rc
	}

	next := s.fat[last]
	s.fat[last] = fatEnd
	for next != fatEnd {
		n := s.fat[next]
		s.fat[next] = fatFree
		next = n
	}

	if size%bs != 0 {
		scratch := make([]byte, bs)
		if rc := s.readBlock(last, scratch); rc < 0 {
			return rc
		}
		for i := size % bs; i < bs; i++ {
			scratch[i] = 0
		}
		if rc := s.progBlock(last, scratch); rc < 0 {
			return rc
		}
	}
	return lfs.ErrOK
}
