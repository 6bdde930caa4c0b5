// Package tree projects a store snapshot into a navigable hierarchy and
// flattens it into display rows.
//
// A tree is rebuilt from scratch on every projection, so node identity never
// survives between generations. What survives is each container's Expanded
// flag, carried forward by looking up its Path in the previous generation.
package tree

import "strings"

// ReservedPrefix marks keys that are kept in the tree but never displayed.
const ReservedPrefix = "_"

// Kind distinguishes containers from leaves.
type Kind int

const (
	// KindLeaf holds a formatted value and has no children.
	KindLeaf Kind = iota
	// KindContainer holds ordered children and can be expanded.
	KindContainer
)

// Node is one element of the tree.
type Node struct {
	Key  string
	Kind Kind

	// Container state.
	Expanded bool
	Children []*Node

	// Leaf state.
	Value string
	Unit  string

	// DisplaySuffix is appended after the key when rendering, e.g. the
	// arrival rate of a message type. It is not part of the node's path.
	DisplaySuffix string
}

// Container creates a container node.
func Container(key string, expanded bool, children ...*Node) *Node {
	return &Node{Key: key, Kind: KindContainer, Expanded: expanded, Children: children}
}

// Leaf creates a leaf node.
func Leaf(key, value string) *Node {
	return &Node{Key: key, Kind: KindLeaf, Value: value}
}

// IsContainer reports whether n can hold children. An empty container is
// still a container.
func (n *Node) IsContainer() bool {
	return n.Kind == KindContainer
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the direct child with the given key.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Hidden reports whether the key is reserved and excluded from display.
func (n *Node) Hidden() bool {
	return strings.HasPrefix(n.Key, ReservedPrefix)
}

// Label is the display text without indentation or expansion marker.
func (n *Node) Label() string {
	s := n.Key + n.DisplaySuffix
	if n.Kind == KindLeaf {
		s += ": " + n.Value + n.Unit
	}
	return s
}

// Tree is one projection generation.
type Tree struct {
	Roots []*Node
}

// Empty reports whether the tree has no root nodes.
func (t *Tree) Empty() bool {
	return t == nil || len(t.Roots) == 0
}

// Find returns the node at p.
func (t *Tree) Find(p Path) *Node {
	if t == nil || len(p) == 0 {
		return nil
	}
	var n *Node
	for _, r := range t.Roots {
		if r.Key == p[0] {
			n = r
			break
		}
	}
	for _, key := range p[1:] {
		if n == nil {
			return nil
		}
		n = n.Child(key)
	}
	return n
}

// Walk visits every node in preorder, hidden ones included.
func (t *Tree) Walk(fn func(p Path, n *Node)) {
	if t == nil {
		return
	}
	for _, r := range t.Roots {
		walk(Path{r.Key}, r, fn)
	}
}

func walk(p Path, n *Node, fn func(Path, *Node)) {
	fn(p, n)
	for _, c := range n.Children {
		walk(p.Child(c.Key), c, fn)
	}
}

// ExpandAll expands every container in the tree.
func (t *Tree) ExpandAll() {
	t.setAll(true)
}

// CollapseAll collapses every container in the tree.
func (t *Tree) CollapseAll() {
	t.setAll(false)
}

func (t *Tree) setAll(expanded bool) {
	t.Walk(func(_ Path, n *Node) {
		if n.IsContainer() {
			n.Expanded = expanded
		}
	})
}
