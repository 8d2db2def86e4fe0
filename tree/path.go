package tree

import (
	"fmt"
	"strings"

	"github.com/signadot/unfold/ir"
)

// Path returns the path of node i, such as root.users[2].email.  It
// returns false if i is out of range.
func (t *Tree) Path(i int) (string, bool) {
	if t.Node(i) == nil {
		return "", false
	}
	if p, ok := t.paths.Get(i); ok {
		return p, true
	}
	var segs []string
	for j := i; j != 0; j = t.parents[j] {
		segs = append(segs, t.segment(j))
	}
	var b strings.Builder
	b.WriteString(ir.Root)
	for k := len(segs) - 1; k >= 0; k-- {
		b.WriteString(segs[k])
	}
	p := b.String()
	t.paths.Add(i, p)
	return p, true
}

func (t *Tree) segment(j int) string {
	n := &t.nodes[j]
	if n.InArray {
		return n.Key.String()
	}
	return "." + ir.FieldString(n.Key.String())
}

// Lookup returns the index of the node at path p.  Object members are
// matched by their first occurrence.
func (t *Tree) Lookup(p string) (int, error) {
	yp, err := ir.ParsePath(p)
	if err != nil {
		return -1, err
	}
	if len(t.nodes) == 0 {
		return -1, fmt.Errorf("%w: %s", ErrPathNotFound, p)
	}
	i := 0
	for _, seg := range yp.Segments() {
		n := &t.nodes[i]
		next := -1
		switch {
		case seg.Index != nil:
			if n.Value.Type == ir.ArrayType && *seg.Index < len(n.Children) {
				next = n.Children[*seg.Index]
			}
		case n.Value.Type == ir.ObjectType:
			for _, c := range n.Children {
				if t.nodes[c].Key.String() == *seg.Field {
					next = c
					break
				}
			}
		}
		if next == -1 {
			return -1, fmt.Errorf("%w: %s", ErrPathNotFound, p)
		}
		i = next
	}
	return i, nil
}
