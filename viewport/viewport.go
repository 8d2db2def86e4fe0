// Package viewport computes which rows of a tree need to be materialised
// for a scroll position and builds those rows.
package viewport

import (
	"math"
)

const (
	// DefaultNodeHeight is the height of a row in pixels.
	DefaultNodeHeight = 16
	// DefaultBuffer is the number of extra rows above and below the
	// viewport.
	DefaultBuffer = 5
)

type Query struct {
	ScrollOffset   float64 `json:"scrollOffset"`
	ViewportHeight float64 `json:"viewportHeight"`
	NodeHeight     float64 `json:"nodeHeight"`
	TotalVisible   int     `json:"totalVisible"`
	Buffer         int     `json:"buffer"`
}

// Range is the half open interval [Start, End) of positions in the
// visible node sequence.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Compute returns the buffered range of visible positions to render.
//
// The range always lies within [0, TotalVisible] and is empty exactly
// when TotalVisible is 0.  Start never decreases as ScrollOffset grows.
// A negative or NaN offset counts as 0, an offset past the end shows the
// last row, and a non-positive node height is treated as DefaultNodeHeight.
func Compute(q Query) Range {
	total := q.TotalVisible
	if total <= 0 {
		return Range{}
	}
	nh := q.NodeHeight
	if !(nh > 0) || math.IsInf(nh, 0) {
		nh = DefaultNodeHeight
	}
	off := q.ScrollOffset
	if !(off > 0) {
		off = 0
	}
	buffer := max(q.Buffer, 0)

	start := total - 1
	if f := math.Floor(off / nh); f < float64(total-1) {
		start = int(f)
	}
	count := 1
	if vh := q.ViewportHeight; vh > 0 && !math.IsInf(vh, 0) {
		count = max(int(math.Min(math.Ceil(vh/nh), float64(total))), 1)
	}
	end := min(start+count, total)
	return Range{
		Start: max(start-buffer, 0),
		End:   min(end+buffer, total),
	}
}
