package tree

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/signadot/unfold/debug"
	"github.com/signadot/unfold/intern"
	"github.com/signadot/unfold/ir"
)

const defaultPathCacheSize = 4096

type buildConfig struct {
	interner    *intern.Interner
	maxDepth    int
	maxNodes    int
	expandDepth int
	cacheSize   int
}

type BuildOption func(*buildConfig)

// WithInterner makes the tree intern its strings into in, so several trees
// may share one table.
func WithInterner(in *intern.Interner) BuildOption {
	return func(c *buildConfig) { c.interner = in }
}

// WithMaxDepth fails the build if any node is deeper than d.  Zero means
// no limit.
func WithMaxDepth(d int) BuildOption {
	return func(c *buildConfig) { c.maxDepth = d }
}

// WithMaxNodes fails the build if the document has more than n values.
// Zero means no limit.
func WithMaxNodes(n int) BuildOption {
	return func(c *buildConfig) { c.maxNodes = n }
}

// WithExpandDepth expands containers shallower than d.  The default of 1
// shows the root's children and keeps everything else collapsed.
func WithExpandDepth(d int) BuildOption {
	return func(c *buildConfig) { c.expandDepth = d }
}

// WithPathCacheSize sets how many computed paths are memoised.
func WithPathCacheSize(n int) BuildOption {
	return func(c *buildConfig) { c.cacheSize = n }
}

// Build flattens v into a Tree.  Nodes are stored depth first with each
// node ahead of its children, so a parent's index is smaller than the
// index of any of its descendants.  fileSize is recorded for Stats.
func Build(v *ir.Node, fileSize int64, opts ...BuildOption) (*Tree, error) {
	cfg := &buildConfig{expandDepth: 1, cacheSize: defaultPathCacheSize}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.interner == nil {
		cfg.interner = intern.New()
	}
	start := time.Now()
	n, err := measure(v, cfg)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[int, string](max(cfg.cacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("could not create path cache: %w", err)
	}
	b := &builder{
		cfg:     cfg,
		nodes:   make([]Node, 0, n),
		parents: make([]int, 0, n),
	}
	b.add(v, intern.Handle{}, false, 0, -1)
	t := &Tree{
		nodes:    b.nodes,
		parents:  b.parents,
		maxDepth: b.maxDepth,
		fileSize: fileSize,
		interner: cfg.interner,
		paths:    cache,
	}
	if debug.Build() {
		debug.Logf("build", "built %d nodes max depth %d from %d bytes in %s",
			len(t.nodes), t.maxDepth, fileSize, time.Since(start))
	}
	return t, nil
}

// measure counts the values of v, enforcing the configured ceilings
// before any node is allocated.
func measure(v *ir.Node, cfg *buildConfig) (int, error) {
	n := 0
	type frame struct {
		y     *ir.Node
		depth int
	}
	stack := []frame{{v, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.y == nil {
			return 0, ErrNilValue
		}
		n++
		if cfg.maxNodes > 0 && n > cfg.maxNodes {
			return 0, &StructuralLimitError{Limit: "nodes", Max: cfg.maxNodes}
		}
		if cfg.maxDepth > 0 && f.depth > cfg.maxDepth {
			return 0, &StructuralLimitError{Limit: "depth", Max: cfg.maxDepth}
		}
		for _, c := range f.y.Values {
			stack = append(stack, frame{c, f.depth + 1})
		}
	}
	return n, nil
}

type builder struct {
	cfg      *buildConfig
	nodes    []Node
	parents  []int
	maxDepth int
}

func (b *builder) add(y *ir.Node, key intern.Handle, inArray bool, depth, parent int) int {
	i := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Key:      key,
		Value:    b.value(y),
		Depth:    depth,
		InArray:  inArray,
		Expanded: !y.Type.IsLeaf() && depth < b.cfg.expandDepth,
	})
	b.parents = append(b.parents, parent)
	b.maxDepth = max(b.maxDepth, depth)
	if y.Type.IsLeaf() || len(y.Values) == 0 {
		return i
	}
	children := make([]int, len(y.Values))
	for j, c := range y.Values {
		var ck intern.Handle
		switch y.Type {
		case ir.ArrayType:
			ck = b.cfg.interner.Intern(ir.IndexString(j))
		case ir.ObjectType:
			ck = b.cfg.interner.Intern(y.Fields[j])
		}
		children[j] = b.add(c, ck, y.Type == ir.ArrayType, depth+1, i)
	}
	b.nodes[i].Children = children
	return i
}

func (b *builder) value(y *ir.Node) Value {
	v := Value{Type: y.Type}
	switch y.Type {
	case ir.BoolType:
		v.Bool = y.Bool
	case ir.NumberType:
		v.Number = y.Float64
	case ir.StringType:
		v.Str = b.cfg.interner.Intern(y.String)
	case ir.ArrayType, ir.ObjectType:
		v.Len = len(y.Values)
	}
	return v
}
