package libdiff

import (
	"strconv"
	"unicode/utf8"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

// maxRunes bounds the number of distinct elements an array diff can
// encode as runes.
const maxRunes = utf8.MaxRune + 1 - (0xE000 - 0xD800)

func indexPath(path string, k int) string {
	return path + "[" + strconv.Itoa(k) + "]"
}

// arrayByIndex compares the elements of two arrays of the same length
// position by position.
func (c *comparer) arrayByIndex(lcs, rcs []int, path string) error {
	for k := range lcs {
		if err := c.walk(lcs[k], rcs[k], indexPath(path, k)); err != nil {
			return err
		}
	}
	return nil
}

// mismatches counts the positions at which two arrays of the same length
// hold different elements.
func (c *comparer) mismatches(lcs, rcs []int) int {
	n := 0
	for k := range lcs {
		if c.lh[lcs[k]] != c.rh[rcs[k]] {
			n++
		}
	}
	return n
}

// editCost counts the entries other than Equal that an alignment along
// diffs reports: a gap of d deletes and i inserts costs max(d, i).
func editCost(diffs []diffpatch.Diff) int {
	cost, d, i := 0, 0, 0
	for k := range diffs {
		n := utf8.RuneCountInString(diffs[k].Text)
		switch diffs[k].Type {
		case diffpatch.DiffDelete:
			d += n
		case diffpatch.DiffInsert:
			i += n
		case diffpatch.DiffEqual:
			cost += max(d, i)
			d, i = 0, 0
		}
	}
	return cost + max(d, i)
}

// arrayLCS aligns the elements of two arrays along a longest common
// subsequence of equal elements.  Each element is summarised as a rune
// keyed by its hash, and the rune sequences are diffed.
//
// Between two aligned runs, deleted and inserted elements are paired up
// in order and compared (insert after delete is a replacement); what is
// left over is Removed or Added.
//
// Arrays of the same length are compared position by position instead
// when that reports no more changes, so a reordering shows as
// modifications in place.
func (c *comparer) arrayLCS(ln, rn *tree.Node, path string) error {
	lcs, rcs := ln.Children, rn.Children
	m := map[uint64]rune{}
	lRunes, lok := mapValues(m, c.lh, lcs)
	rRunes, rok := mapValues(m, c.rh, rcs)
	fi, ti := 0, 0
	var dels, ins []int
	flush := func() error {
		k := 0
		for ; k < len(dels) && k < len(ins); k++ {
			if err := c.walk(lcs[dels[k]], rcs[ins[k]], indexPath(path, dels[k])); err != nil {
				return err
			}
		}
		for _, d := range dels[k:] {
			c.removed(lcs[d], indexPath(path, d))
		}
		for _, i := range ins[k:] {
			c.added(rcs[i], indexPath(path, i))
		}
		dels, ins = dels[:0], ins[:0]
		return nil
	}
	if !lok || !rok {
		for k := range lcs {
			dels = append(dels, k)
		}
		for k := range rcs {
			ins = append(ins, k)
		}
		return flush()
	}
	dmp := diffpatch.New()
	// no deadline keeps the edit script minimal
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(lRunes, rRunes, false)
	if len(lcs) == len(rcs) && c.mismatches(lcs, rcs) <= editCost(diffs) {
		return c.arrayByIndex(lcs, rcs, path)
	}
	for i := range diffs {
		diff := &diffs[i]
		n := utf8.RuneCountInString(diff.Text)
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range n {
				dels = append(dels, fi)
				fi++
			}
		case diffpatch.DiffInsert:
			for range n {
				ins = append(ins, ti)
				ti++
			}
		case diffpatch.DiffEqual:
			if err := flush(); err != nil {
				return err
			}
			for range n {
				if err := c.walk(lcs[fi], rcs[ti], indexPath(path, fi)); err != nil {
					return err
				}
				fi++
				ti++
			}
		}
	}
	return flush()
}

// mapValues assigns each distinct hash a rune, skipping the surrogate
// range which does not survive conversion to a string.  It returns false
// if there are more distinct values than runes.
func mapValues(m map[uint64]rune, hs []uint64, idx []int) ([]rune, bool) {
	rs := make([]rune, len(idx))
	for k, i := range idx {
		r, ok := m[hs[i]]
		if !ok {
			if len(m) >= maxRunes {
				return nil, false
			}
			r = rune(len(m))
			if r >= 0xD800 {
				r += 0xE000 - 0xD800
			}
			m[hs[i]] = r
		}
		rs[k] = r
	}
	return rs, true
}

// arrayUnordered matches elements regardless of position.  Elements with
// equal hashes are paired first, in order.  The remaining containers are
// paired with the most similar unmatched container of the same type.
// Anything left is Removed or Added.
func (c *comparer) arrayUnordered(ln, rn *tree.Node, path string) error {
	lcs, rcs := ln.Children, rn.Children
	lp, rp := partners(len(lcs), len(rcs))
	byHash := make(map[uint64][]int, len(rcs))
	for rk, ri := range rcs {
		byHash[c.rh[ri]] = append(byHash[c.rh[ri]], rk)
	}
	for lk, li := range lcs {
		q := byHash[c.lh[li]]
		if len(q) == 0 {
			continue
		}
		lp[lk], rp[q[0]] = q[0], lk
		byHash[c.lh[li]] = q[1:]
	}
	c.pairSimilar(lcs, rcs, lp, rp)
	return c.emitAligned(lcs, rcs, lp, rp,
		func(k int) string { return indexPath(path, k) },
		func(k int) string { return indexPath(path, k) },
	)
}

// maxSimilarityPairs bounds the candidate comparisons made when pairing
// containers by similarity.  Past it containers are paired with the first
// unmatched container of the same type.
const maxSimilarityPairs = 1 << 16

func (c *comparer) pairSimilar(lcs, rcs []int, lp, rp []int) {
	var ul, ur []int
	for lk, li := range lcs {
		if lp[lk] == -1 && !c.l.Node(li).IsLeaf() {
			ul = append(ul, lk)
		}
	}
	for rk, ri := range rcs {
		if rp[rk] == -1 && !c.r.Node(ri).IsLeaf() {
			ur = append(ur, rk)
		}
	}
	if len(ul) == 0 || len(ur) == 0 {
		return
	}
	score := len(ul)*len(ur) <= maxSimilarityPairs
	for _, lk := range ul {
		ln := c.l.Node(lcs[lk])
		best, bestScore := -1, -1
		for _, rk := range ur {
			if rp[rk] != -1 {
				continue
			}
			rn := c.r.Node(rcs[rk])
			if rn.Value.Type != ln.Value.Type {
				continue
			}
			if !score {
				best = rk
				break
			}
			if s := c.similarity(ln, rn); s > bestScore {
				best, bestScore = rk, s
			}
		}
		if best != -1 {
			lp[lk], rp[best] = best, lk
		}
	}
}

// similarity counts the children two containers have in common: equal
// elements for arrays, and for objects shared keys plus, with double
// weight, shared keys with equal values.
func (c *comparer) similarity(ln, rn *tree.Node) int {
	s := 0
	if ln.Value.Type == ir.ArrayType {
		seen := make(map[uint64]int, len(rn.Children))
		for _, ri := range rn.Children {
			seen[c.rh[ri]]++
		}
		for _, li := range ln.Children {
			if seen[c.lh[li]] > 0 {
				seen[c.lh[li]]--
				s++
			}
		}
		return s
	}
	vals := make(map[string][]uint64, len(rn.Children))
	for _, ri := range rn.Children {
		k := c.r.Key(ri)
		vals[k] = append(vals[k], c.rh[ri])
	}
	for _, li := range ln.Children {
		hs, ok := vals[c.l.Key(li)]
		if !ok {
			continue
		}
		s++
		for _, h := range hs {
			if h == c.lh[li] {
				s += 2
				break
			}
		}
	}
	return s
}
