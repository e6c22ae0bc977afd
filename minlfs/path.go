package minlfs

import (
	"strings"

	"github.com/flashkit/littlefs/lfs"
)

// splitPath turns a zero-terminated path buffer into its components.
// Leading and repeated slashes are ignored, "." components are dropped,
// ".." pops. An empty result addresses the root.
func splitPath(path []byte) []string {
	end := len(path)
	for i, b := range path {
		if b == 0 {
			end = i
			break
		}
	}

	var comps []string
	for _, c := range strings.Split(string(path[:end]), "/") {
		switch c {
		case "", ".":
		case "..":
			if len(comps) > 0 {
				comps = comps[:len(comps)-1]
			}
		default:
			comps = append(comps, c)
		}
	}
	return comps
}

// findChild looks up a name inside the directory with table index
// parent (rootIdx for the root).
func (s *fsState) findChild(parent uint32, name string) (uint32, bool) {
	for i := range s.tab {
		if s.tab[i].used && s.tab[i].parent == parent && s.tab[i].name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

func (s *fsState) hasChild(parent uint32) bool {
	for i := range s.tab {
		if s.tab[i].used && s.tab[i].parent == parent {
			return true
		}
	}
	return false
}

// resolve walks comps from the root and returns the table index of the
// final component, or rootIdx for the root itself.
func (s *fsState) resolve(comps []string) (uint32, int) {
	cur := uint32(rootIdx)
	for i, c := range comps {
		if cur != rootIdx && s.tab[cur].typ != lfs.TypeDir {
			return 0, lfs.ErrNotDir
		}
		idx, ok := s.findChild(cur, c)
		if !ok {
			return 0, lfs.ErrNoEnt
		}
		if i < len(comps)-1 && s.tab[idx].typ != lfs.TypeDir {
			return 0, lfs.ErrNotDir
		}
		cur = idx
	}
	return cur, lfs.ErrOK
}

// resolveParent resolves everything but the last component, which must
// name a directory, and returns that directory's index plus the leaf
// name. The caller has checked comps is non-empty.
func (s *fsState) resolveParent(comps []string) (uint32, string, int) {
	parent, rc := s.resolve(comps[:len(comps)-1])
	if rc < 0 {
		return 0, "", rc
	}
	if parent != rootIdx && s.tab[parent].typ != lfs.TypeDir {
		return 0, "", lfs.ErrNotDir
	}
	return parent, comps[len(comps)-1], lfs.ErrOK
}
