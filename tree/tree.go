// Package tree holds the flat, index addressed representation of a parsed
// document together with its expand and collapse state.
//
// A Tree has a single owner for mutation (building, toggling, bulk
// expansion).  Readers such as search and diff never look at the
// Expanded flags and may run concurrently with one another.
package tree

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/signadot/unfold/intern"
)

type Tree struct {
	nodes    []Node
	parents  []int
	maxDepth int
	fileSize int64
	interner *intern.Interner
	paths    *lru.Cache[int, string]
}

type Stats struct {
	FileSize  int64 `json:"fileSize"`
	NodeCount int   `json:"nodeCount"`
	MaxDepth  int   `json:"maxDepth"`
}

// Root returns the index of the root node.
func (t *Tree) Root() int {
	return 0
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Interner() *intern.Interner {
	return t.interner
}

// Node returns the node at i, or nil if i is out of range.
func (t *Tree) Node(i int) *Node {
	if i < 0 || i >= len(t.nodes) {
		return nil
	}
	return &t.nodes[i]
}

func (t *Tree) Stats() Stats {
	return Stats{
		FileSize:  t.fileSize,
		NodeCount: len(t.nodes),
		MaxDepth:  t.maxDepth,
	}
}

// Text returns the display text of the value at i.
func (t *Tree) Text(i int) string {
	n := t.Node(i)
	if n == nil {
		return ""
	}
	return n.Value.Text()
}

// Key returns the key of node i: the member name, an [i] label or "".
func (t *Tree) Key(i int) string {
	n := t.Node(i)
	if n == nil {
		return ""
	}
	return n.Key.String()
}

// Toggle flips the expansion of container i and returns the new state.
// Leaves and out of range indices are left alone.
func (t *Tree) Toggle(i int) bool {
	n := t.Node(i)
	if n == nil || n.IsLeaf() {
		return false
	}
	n.Expanded = !n.Expanded
	return n.Expanded
}

func (t *Tree) SetExpanded(i int, v bool) {
	n := t.Node(i)
	if n == nil || n.IsLeaf() {
		return
	}
	n.Expanded = v
}

// ExpandAll expands i and every container below it.
func (t *Tree) ExpandAll(i int) {
	t.setSubtree(i, true)
}

// CollapseAll collapses i and every container below it.
func (t *Tree) CollapseAll(i int) {
	t.setSubtree(i, false)
}

func (t *Tree) setSubtree(i int, v bool) {
	if t.Node(i) == nil {
		return
	}
	end := t.subtreeEnd(i)
	for j := i; j < end; j++ {
		n := &t.nodes[j]
		if !n.IsLeaf() {
			n.Expanded = v
		}
	}
}

// subtreeEnd returns one past the last index of the subtree rooted at i.
// Depth first layout keeps a subtree contiguous.
func (t *Tree) subtreeEnd(i int) int {
	for {
		cs := t.nodes[i].Children
		if len(cs) == 0 {
			return i + 1
		}
		i = cs[len(cs)-1]
	}
}

// ExpandToDepth expands exactly the containers shallower than d.
func (t *Tree) ExpandToDepth(d int) {
	for j := range t.nodes {
		n := &t.nodes[j]
		if !n.IsLeaf() {
			n.Expanded = n.Depth < d
		}
	}
}

// Visible returns the indices of the rows to display: the root, then
// depth first the children of every expanded node.
func (t *Tree) Visible() []int {
	if len(t.nodes) == 0 {
		return nil
	}
	res := make([]int, 0, 64)
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, i)
		n := &t.nodes[i]
		if !n.Expanded {
			continue
		}
		for j := len(n.Children) - 1; j >= 0; j-- {
			stack = append(stack, n.Children[j])
		}
	}
	return res
}

// Parent returns the parent of i, or -1 for the root and out of range
// indices.
func (t *Tree) Parent(i int) int {
	if i < 0 || i >= len(t.parents) {
		return -1
	}
	return t.parents[i]
}

// Ancestors returns the ancestors of i from the root down, excluding i.
func (t *Tree) Ancestors(i int) []int {
	var res []int
	for p := t.Parent(i); p != -1; p = t.Parent(p) {
		res = append(res, p)
	}
	for l, r := 0, len(res)-1; l < r; l, r = l+1, r-1 {
		res[l], res[r] = res[r], res[l]
	}
	return res
}

// Reveal expands every ancestor of i so that i is visible.
func (t *Tree) Reveal(i int) {
	for p := t.Parent(i); p != -1; p = t.Parent(p) {
		t.nodes[p].Expanded = true
	}
}
