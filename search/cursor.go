package search

import "github.com/signadot/unfold/tree"

// Reveal expands the ancestors of every result so that all of them are
// visible.
func Reveal(t *tree.Tree, results []Result) {
	for _, r := range results {
		t.Reveal(r.Index)
	}
}

// Positions maps each result to its position in visible, or -1 if the
// node is hidden under a collapsed ancestor.
func Positions(visible []int, results []Result) []int {
	pos := make(map[int]int, len(visible))
	for p, i := range visible {
		pos[i] = p
	}
	res := make([]int, len(results))
	for k, r := range results {
		p, ok := pos[r.Index]
		if !ok {
			p = -1
		}
		res[k] = p
	}
	return res
}

// Cursor steps through results, wrapping around at either end.
type Cursor struct {
	results []Result
	pos     int
}

func NewCursor(results []Result) *Cursor {
	return &Cursor{results: results, pos: -1}
}

func (c *Cursor) Len() int {
	return len(c.results)
}

// Pos returns the position of the current result, or -1 before the
// first move.
func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Current() (Result, bool) {
	if c.pos < 0 || c.pos >= len(c.results) {
		return Result{}, false
	}
	return c.results[c.pos], true
}

func (c *Cursor) Next() (Result, bool) {
	if len(c.results) == 0 {
		return Result{}, false
	}
	c.pos = (c.pos + 1) % len(c.results)
	return c.results[c.pos], true
}

func (c *Cursor) Prev() (Result, bool) {
	if len(c.results) == 0 {
		return Result{}, false
	}
	if c.pos <= 0 {
		c.pos = len(c.results)
	}
	c.pos--
	return c.results[c.pos], true
}
