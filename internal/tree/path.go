package tree

import "strings"

// pathSep joins path segments into a map key. Keys never contain it.
const pathSep = "\x1f"

// Path is the sequence of keys from a root to a node. It is stable across
// projections as long as the underlying data still exists.
type Path []string

// Child returns a new path extended by key. p is not modified.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Equal reports whether two paths name the same node.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the path for display and logging.
func (p Path) String() string {
	return strings.Join(p, "/")
}

func (p Path) key() string {
	return strings.Join(p, pathSep)
}
