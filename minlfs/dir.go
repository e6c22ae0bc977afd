package minlfs

import (
	"github.com/flashkit/littlefs/lfs"
)

// Metadata operations and the directory cursor.

// Mkdir creates an empty directory.
func (e *Engine) Mkdir(fs *lfs.State, path []byte) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}

	comps := splitPath(path)
	if len(comps) == 0 {
		return lfs.ErrExist
	}
	parent, leaf, rc := s.resolveParent(comps)
	if rc < 0 {
		return rc
	}
	if _, ok := s.findChild(parent, leaf); ok {
		return lfs.ErrExist
	}

	idx, rc := s.allocEntry()
	if rc < 0 {
		return rc
	}
	s.tab[idx] = entry{
		used:   true,
		typ:    lfs.TypeDir,
		first:  noBlock,
		parent: parent,
		name:   leaf,
	}
	return s.flushMeta()
}

// Remove deletes a file or an empty directory.
func (e *Engine) Remove(fs *lfs.State, path []byte) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}

	comps := splitPath(path)
	if len(comps) == 0 {
		return lfs.ErrInval
	}
	idx, rc := s.resolve(comps)
	if rc < 0 {
		return rc
	}

	// a removed slot may be reused by the next create, so an entry with
	// a live handle on it must stay put
	if s.open[idx] > 0 {
		return lfs.ErrInval
	}

	ent := &s.tab[idx]
	if ent.typ == lfs.TypeDir {
		if s.hasChild(idx) {
			return lfs.ErrNotEmpty
		}
	} else {
		s.freeChain(ent)
	}
	*ent = entry{first: noBlock}
	return s.flushMeta()
}

// Rename moves oldpath to newpath. An existing destination is replaced:
// files replace files, empty directories replace empty directories.
func (e *Engine) Rename(fs *lfs.State, oldpath, newpath []byte) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}

	oldComps := splitPath(oldpath)
	newComps := splitPath(newpath)
	if len(oldComps) == 0 || len(newComps) == 0 {
		return lfs.ErrInval
	}

	oldIdx, rc := s.resolve(oldComps)
	if rc < 0 {
		return rc
	}
	parent, leaf, rc := s.resolveParent(newComps)
	if rc < 0 {
		return rc
	}

	// a directory must not move into its own subtree
	for p := parent; p != rootIdx; p = s.tab[p].parent {
		if p == oldIdx {
			return lfs.ErrInval
		}
	}

	if dstIdx, ok := s.findChild(parent, leaf); ok {
		if dstIdx == oldIdx {
			return lfs.ErrOK
		}
		dst := &s.tab[dstIdx]
		oldIsDir := s.tab[oldIdx].typ == lfs.TypeDir
		dstIsDir := dst.typ == lfs.TypeDir
		switch {
		case dstIsDir && !oldIsDir:
			return lfs.ErrIsDir
		case !dstIsDir && oldIsDir:
			return lfs.ErrNotDir
		case dstIsDir && s.hasChild(dstIdx):
			return lfs.ErrNotEmpty
		case s.open[dstIdx] > 0:
			return lfs.ErrInval
		}
		if !dstIsDir {
			s.freeChain(dst)
		}
		*dst = entry{first: noBlock}
	}

	s.tab[oldIdx].parent = parent
	s.tab[oldIdx].name = leaf
	return s.flushMeta()
}

// Stat fills info for the entry at path.
func (e *Engine) Stat(fs *lfs.State, path []byte, info *lfs.Info) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}

	comps := splitPath(path)
	if len(comps) == 0 {
		fillInfo(info, lfs.TypeDir, 0, "/")
		return lfs.ErrOK
	}
	idx, rc := s.resolve(comps)
	if rc < 0 {
		return rc
	}
	ent := &s.tab[idx]
	fillInfo(info, ent.typ, ent.size, ent.name)
	return lfs.ErrOK
}

// dirState is an open directory cursor. Positions 0 and 1 are the
// implicit "." and ".." entries; children follow in table order.
type dirState struct {
	idx uint32
	pos int
}

func dirOf(d *lfs.DirState) (*dirState, int) {
	if ds, ok := d.Sys.(*dirState); ok && ds != nil {
		return ds, lfs.ErrOK
	}
	return nil, lfs.ErrBadF
}

func (e *Engine) DirOpen(fs *lfs.State, d *lfs.DirState, path []byte) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}

	idx, rc := s.resolve(splitPath(path))
	if rc < 0 {
		return rc
	}
	if idx != rootIdx && s.tab[idx].typ != lfs.TypeDir {
		return lfs.ErrNotDir
	}
	s.open[idx]++
	d.Sys = &dirState{idx: idx}
	return lfs.ErrOK
}

func (e *Engine) DirClose(fs *lfs.State, d *lfs.DirState) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	ds, rc := dirOf(d)
	if rc < 0 {
		return rc
	}
	s.release(ds.idx)
	d.Sys = nil
	return lfs.ErrOK
}

// DirRead produces the next entry. It returns 1 when an entry was
// produced and 0 at the end of the directory.
func (e *Engine) DirRead(fs *lfs.State, d *lfs.DirState, info *lfs.Info) int {
	s, rc := state(fs)
	if rc < 0 {
		return rc
	}
	ds, rc := dirOf(d)
	if rc < 0 {
		return rc
	}

	switch ds.pos {
	case 0:
		fillInfo(info, lfs.TypeDir, 0, ".")
		ds.pos++
		return 1
	case 1:
		fillInfo(info, lfs.TypeDir, 0, "..")
		ds.pos++
		return 1
	}

	n := ds.pos - 2
	for i := range s.tab {
		if !s.tab[i].used || s.tab[i].parent != ds.idx {
			continue
		}
		if n == 0 {
			fillInfo(info, s.tab[i].typ, s.tab[i].size, s.tab[i].name)
			ds.pos++
			return 1
		}
		n--
	}
	return 0
}

func (e *Engine) DirSeek(fs *lfs.State, d *lfs.DirState, off int) int {
	ds, rc := dirOf(d)
	if rc < 0 {
		return rc
	}
	if off < 0 {
		return lfs.ErrInval
	}
	ds.pos = off
	return lfs.ErrOK
}

func (e *Engine) DirTell(fs *lfs.State, d *lfs.DirState) int {
	ds, rc := dirOf(d)
	if rc < 0 {
		return rc
	}
	return ds.pos
}

func (e *Engine) DirRewind(fs *lfs.State, d *lfs.DirState) int {
	ds, rc := dirOf(d)
	if rc < 0 {
		return rc
	}
	ds.pos = 0
	return lfs.ErrOK
}
