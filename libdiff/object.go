package libdiff

import (
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

// object matches members by key regardless of order.  A key repeated
// within an object is matched occurrence by occurrence.
func (c *comparer) object(ln, rn *tree.Node, path string) error {
	lcs, rcs := ln.Children, rn.Children
	lp, rp := partners(len(lcs), len(rcs))
	byKey := make(map[string][]int, len(rcs))
	for rk, ri := range rcs {
		k := c.r.Key(ri)
		byKey[k] = append(byKey[k], rk)
	}
	for lk, li := range lcs {
		k := c.l.Key(li)
		q := byKey[k]
		if len(q) == 0 {
			continue
		}
		lp[lk], rp[q[0]] = q[0], lk
		byKey[k] = q[1:]
	}
	return c.emitAligned(lcs, rcs, lp, rp,
		func(k int) string { return path + "." + ir.FieldString(c.l.Key(lcs[k])) },
		func(k int) string { return path + "." + ir.FieldString(c.r.Key(rcs[k])) },
	)
}
