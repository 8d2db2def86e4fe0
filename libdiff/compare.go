// Package libdiff computes structural differences between two trees.
package libdiff

import (
	"context"
	"fmt"
	"time"

	"github.com/signadot/unfold/debug"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

// DefaultCheckInterval is the number of node pairs compared between
// checks for cancellation.
const DefaultCheckInterval = 1024

type compareConfig struct {
	checkInterval int
}

type CompareOption func(*compareConfig)

func WithCheckInterval(n int) CompareOption {
	return func(c *compareConfig) { c.checkInterval = n }
}

// Compare returns the differences between left and right under mode.
//
// Entries come in left tree order with the full path of each entry.  An
// unchanged subtree gives a single Equal entry at its root.  Added entries
// appear where they align with the left tree.  Compare reads neither
// tree's expansion state.
func Compare(ctx context.Context, left, right *tree.Tree, mode Mode, opts ...CompareOption) (*Result, error) {
	cfg := &compareConfig{checkInterval: DefaultCheckInterval}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.checkInterval <= 0 {
		cfg.checkInterval = DefaultCheckInterval
	}
	if _, err := mode.MarshalText(); err != nil {
		return nil, fmt.Errorf("%w: %d", ErrBadMode, mode)
	}
	if left.Len() == 0 || right.Len() == 0 {
		return nil, fmt.Errorf("%w: empty tree", tree.ErrIndexOutOfRange)
	}
	start := time.Now()
	c := &comparer{
		ctx:      ctx,
		l:        left,
		r:        right,
		mode:     mode,
		interval: cfg.checkInterval,
		res:      &Result{Mode: mode},
	}
	var err error
	if c.lh, err = hashes(ctx, left, mode, c.interval); err != nil {
		return nil, fmt.Errorf("diff cancelled: %w", err)
	}
	if c.rh, err = hashes(ctx, right, mode, c.interval); err != nil {
		return nil, fmt.Errorf("diff cancelled: %w", err)
	}
	if err := c.walk(left.Root(), right.Root(), ir.Root); err != nil {
		if debug.Diff() {
			debug.Logf("diff", "%s diff cancelled after %d pairs", mode, c.pairs)
		}
		return nil, fmt.Errorf("diff cancelled: %w", err)
	}
	if debug.Diff() {
		debug.Logf("diff", "%s diff of %d and %d nodes: %+v in %s",
			mode, left.Len(), right.Len(), c.res.Counts, time.Since(start))
	}
	return c.res, nil
}

type comparer struct {
	ctx      context.Context
	l, r     *tree.Tree
	lh, rh   []uint64
	mode     Mode
	interval int
	pairs    int
	res      *Result
}

func (c *comparer) emit(e Entry) {
	c.res.Entries = append(c.res.Entries, e)
	c.res.Counts.add(e.Kind)
}

func (c *comparer) removed(li int, path string) {
	c.emit(Entry{Path: path, Kind: Removed, Left: li, Right: -1, Old: c.l.Text(li)})
}

func (c *comparer) added(ri int, path string) {
	c.emit(Entry{Path: path, Kind: Added, Left: -1, Right: ri, New: c.r.Text(ri)})
}

func (c *comparer) walk(li, ri int, path string) error {
	c.pairs++
	if c.pairs%c.interval == 0 {
		if err := c.ctx.Err(); err != nil {
			return err
		}
	}
	ln, rn := c.l.Node(li), c.r.Node(ri)
	if c.lh[li] == c.rh[ri] && (!ln.IsLeaf() || scalarEqual(ln, rn, c.mode)) {
		c.emit(Entry{Path: path, Kind: Equal, Left: li, Right: ri})
		return nil
	}
	if ln.Value.Type != rn.Value.Type || ln.IsLeaf() {
		c.emit(Entry{
			Path:  path,
			Kind:  Modified,
			Left:  li,
			Right: ri,
			Old:   ln.Value.Text(),
			New:   rn.Value.Text(),
		})
		return nil
	}
	if ln.Value.Type == ir.ObjectType {
		return c.object(ln, rn, path)
	}
	if c.mode.ordered() {
		return c.arrayLCS(ln, rn, path)
	}
	return c.arrayUnordered(ln, rn, path)
}

// emitAligned walks the pairs of left children in order.  A right child
// with no partner is emitted after the left child paired with its nearest
// preceding right sibling, and after any unpaired left children that
// directly follow that one.
func (c *comparer) emitAligned(lcs, rcs []int, lPartner, rPartner []int, lPath, rPath func(k int) string) error {
	after := make([][]int, len(lcs)+1)
	slot := 0
	for rk, lk := range rPartner {
		if lk >= 0 {
			slot = lk + 1
			continue
		}
		after[slot] = append(after[slot], rk)
	}
	pending := after[0]
	flush := func() {
		for _, rk := range pending {
			c.added(rcs[rk], rPath(rk))
		}
		pending = nil
	}
	for lk, li := range lcs {
		if rk := lPartner[lk]; rk >= 0 {
			flush()
			if err := c.walk(li, rcs[rk], lPath(lk)); err != nil {
				return err
			}
		} else {
			c.removed(li, lPath(lk))
		}
		pending = append(pending, after[lk+1]...)
	}
	flush()
	return nil
}

func partners(nl, nr int) ([]int, []int) {
	lp, rp := make([]int, nl), make([]int, nr)
	for i := range lp {
		lp[i] = -1
	}
	for i := range rp {
		rp[i] = -1
	}
	return lp, rp
}
