package tree

// RootParent is the parent key reported for top-level rows.
const RootParent = "Root"

// ViewItem is one display row. Node points into the tree it was flattened
// from, so toggling Node.Expanded changes that generation directly.
type ViewItem struct {
	Key         string
	Level       int
	Expanded    bool
	HasChildren bool
	ParentKey   string
	Path        Path
	Node        *Node
}

// Flatten lists the visible rows of t in depth-first preorder. Hidden keys
// are skipped along with their subtrees, and only expanded containers are
// descended into. The result depends only on the tree's content.
func Flatten(t *Tree) []ViewItem {
	if t == nil {
		return nil
	}
	var out []ViewItem
	for _, r := range t.Roots {
		out = flatten(out, r, Path{r.Key}, 0, RootParent)
	}
	return out
}

func flatten(out []ViewItem, n *Node, p Path, level int, parent string) []ViewItem {
	if n.Hidden() {
		return out
	}
	out = append(out, ViewItem{
		Key:         n.Key,
		Level:       level,
		Expanded:    n.Expanded,
		HasChildren: n.IsContainer(),
		ParentKey:   parent,
		Path:        p,
		Node:        n,
	})
	if n.IsContainer() && n.Expanded {
		for _, c := range n.Children {
			out = flatten(out, c, p.Child(c.Key), level+1, n.Key)
		}
	}
	return out
}
