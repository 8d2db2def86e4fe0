package libdiff

import (
	"context"
	"encoding/binary"
	"hash/maphash"
	"math"
	"strings"
	"unicode"

	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

// seed is shared so hashes of the left and right trees are comparable.
var seed = maphash.MakeSeed()

// hashes returns a hash per node of t such that two subtrees hash alike
// exactly when they are equal under mode (up to collisions).  Object
// hashes do not depend on member order, and neither do array hashes
// outside of Strict mode.
//
// Children always follow their parent in t, so walking the indices
// backwards visits every child before its parent.
func hashes(ctx context.Context, t *tree.Tree, mode Mode, interval int) ([]uint64, error) {
	n := t.Len()
	hs := make([]uint64, n)
	var h maphash.Hash
	h.SetSeed(seed)
	for i := n - 1; i >= 0; i-- {
		if i%interval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hs[i] = hashNode(&h, t, t.Node(i), hs, mode)
	}
	return hs, nil
}

func hashNode(h *maphash.Hash, t *tree.Tree, n *tree.Node, hs []uint64, mode Mode) uint64 {
	h.Reset()
	h.WriteByte(byte(n.Value.Type))
	var b [8]byte
	switch n.Value.Type {
	case ir.NullType:
	case ir.BoolType:
		if mode == Schema {
			break
		}
		if n.Value.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case ir.NumberType:
		if mode == Schema {
			break
		}
		f := n.Value.Number
		if f == 0 {
			// -0 and 0 are the same number
			f = 0
		}
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		h.Write(b[:])
	case ir.StringType:
		switch mode {
		case Schema:
		case Flexible:
			h.WriteString(stripSpace(n.Value.Str.String()))
		default:
			h.WriteString(n.Value.Str.String())
		}
	case ir.ArrayType:
		if mode.ordered() {
			for _, c := range n.Children {
				binary.LittleEndian.PutUint64(b[:], hs[c])
				h.Write(b[:])
			}
			break
		}
		var sum uint64
		for _, c := range n.Children {
			sum += mix(hs[c])
		}
		binary.LittleEndian.PutUint64(b[:], uint64(len(n.Children)))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], sum)
		h.Write(b[:])
	case ir.ObjectType:
		var sum uint64
		for _, c := range n.Children {
			sum += mix(maphash.String(seed, t.Key(c)) ^ mix(hs[c]))
		}
		binary.LittleEndian.PutUint64(b[:], uint64(len(n.Children)))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], sum)
		h.Write(b[:])
	}
	return h.Sum64()
}

// scalarEqual reports whether two leaves are equal under mode.  It
// confirms a hash match.
func scalarEqual(ln, rn *tree.Node, mode Mode) bool {
	lv, rv := &ln.Value, &rn.Value
	if lv.Type != rv.Type {
		return false
	}
	if mode == Schema {
		return true
	}
	switch lv.Type {
	case ir.BoolType:
		return lv.Bool == rv.Bool
	case ir.NumberType:
		return lv.Number == rv.Number
	case ir.StringType:
		if mode == Flexible {
			return stripSpace(lv.Str.String()) == stripSpace(rv.Str.String())
		}
		return lv.Str.String() == rv.Str.String()
	}
	return true
}

// mix is the splitmix64 finalizer.  Summing mixed hashes gives an order
// independent combination.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
