// Package search finds the nodes of a tree whose key or value matches a
// pattern.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/signadot/unfold/debug"
	"github.com/signadot/unfold/tree"
)

// DefaultCheckInterval is the number of nodes scanned between checks for
// cancellation.
const DefaultCheckInterval = 1024

type Options struct {
	CaseSensitive bool `json:"caseSensitive"`
	UseRegex      bool `json:"useRegex"`
	// UseExpr treats the pattern as a boolean expression over the
	// variables key, value, type, depth, path and isLeaf.
	UseExpr bool `json:"useExpr"`
}

type Query struct {
	Pattern string `json:"pattern"`
	Options
}

// Location tells which part of a node matched.
type Location int

const (
	Key Location = 1 << iota
	Value
	Both = Key | Value
)

func (l Location) String() string {
	switch l {
	case Key:
		return "key"
	case Value:
		return "value"
	case Both:
		return "both"
	}
	return "none"
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(d []byte) error {
	for _, x := range []Location{Key, Value, Both} {
		if x.String() == string(d) {
			*l = x
			return nil
		}
	}
	return fmt.Errorf("unknown match location %q", d)
}

type Result struct {
	Index    int      `json:"index"`
	Location Location `json:"location"`
}

type searchConfig struct {
	checkInterval int
}

type SearchOption func(*searchConfig)

// WithCheckInterval sets how many nodes are scanned between checks of
// the context.
func WithCheckInterval(n int) SearchOption {
	return func(c *searchConfig) { c.checkInterval = n }
}

// Search scans every node of t in index order, collapsed or not, and
// returns the ones matching q.  Object member names and scalar values
// are matched; [i] labels of array elements are not.  An empty pattern
// matches nothing.
//
// Search returns a *PatternError before scanning if the pattern does not
// compile, and the context's error, with no results, if ctx is done
// before the scan completes.
func Search(ctx context.Context, t *tree.Tree, q Query, opts ...SearchOption) ([]Result, error) {
	cfg := &searchConfig{checkInterval: DefaultCheckInterval}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.checkInterval <= 0 {
		cfg.checkInterval = DefaultCheckInterval
	}
	if q.Pattern == "" {
		return nil, nil
	}
	m, err := newMatcher(t, q)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	var res []Result
	n := t.Len()
	for i := 0; i < n; i++ {
		if i%cfg.checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				if debug.Search() {
					debug.Logf("search", "cancelled %q at node %d of %d", q.Pattern, i, n)
				}
				return nil, fmt.Errorf("search cancelled: %w", err)
			}
		}
		if loc := m.match(i); loc != 0 {
			res = append(res, Result{Index: i, Location: loc})
		}
	}
	if debug.Search() {
		debug.Logf("search", "%q matched %d of %d nodes in %s", q.Pattern, len(res), n, time.Since(start))
	}
	return res, nil
}
