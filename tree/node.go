package tree

import (
	"strconv"

	"github.com/signadot/unfold/intern"
	"github.com/signadot/unfold/ir"
)

// Value is the payload of a node.  Only the field selected by Type is
// meaningful; Len holds the child count of containers.
type Value struct {
	Type   ir.Type
	Bool   bool
	Number float64
	Str    intern.Handle
	Len    int
}

// Node is one entry of a Tree.  Children hold indices into the same tree
// in source order.
type Node struct {
	// Key is the member name for object members and the [i] label for
	// array elements.  It is zero for the root.
	Key      intern.Handle
	Value    Value
	Depth    int
	Children []int
	Expanded bool
	// InArray is true when Key is a synthesized [i] label.
	InArray bool
}

func (n *Node) IsLeaf() bool {
	return n.Value.Type.IsLeaf()
}

// Expandable reports whether the node is a container with at least one
// child.
func (n *Node) Expandable() bool {
	return !n.IsLeaf() && len(n.Children) > 0
}

// HasKey reports whether the node is an object member.
func (n *Node) HasKey() bool {
	return !n.Key.IsZero() && !n.InArray
}

// Text returns the text of a scalar value as it is displayed, searched and
// copied: null, true, false, the shortest decimal form of a number or the
// raw string.  Containers give a short summary.
func (v *Value) Text() string {
	switch v.Type {
	case ir.NullType:
		return "null"
	case ir.BoolType:
		return strconv.FormatBool(v.Bool)
	case ir.NumberType:
		return FormatNumber(v.Number)
	case ir.StringType:
		return v.Str.String()
	case ir.ArrayType:
		return "[" + count(v.Len, "item") + "]"
	case ir.ObjectType:
		return "{" + count(v.Len, "key") + "}"
	}
	return ""
}

// FormatNumber formats f without an exponent, dropping a trailing ".0".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func count(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
