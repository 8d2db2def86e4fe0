package search

import (
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

type matcher interface {
	match(i int) Location
}

func newMatcher(t *tree.Tree, q Query) (matcher, error) {
	switch {
	case q.UseExpr:
		return newExprMatcher(t, q.Pattern)
	case q.UseRegex:
		p := q.Pattern
		if !q.CaseSensitive {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{Pattern: q.Pattern, Err: err}
		}
		return &textMatcher{t: t, f: re.MatchString}, nil
	case q.CaseSensitive:
		p := q.Pattern
		return &textMatcher{t: t, f: func(s string) bool {
			return strings.Contains(s, p)
		}}, nil
	default:
		p := strings.ToLower(q.Pattern)
		return &textMatcher{t: t, f: func(s string) bool {
			return strings.Contains(strings.ToLower(s), p)
		}}, nil
	}
}

type textMatcher struct {
	t *tree.Tree
	f func(string) bool
}

func (m *textMatcher) match(i int) Location {
	n := m.t.Node(i)
	var loc Location
	if n.HasKey() && m.f(n.Key.String()) {
		loc |= Key
	}
	if n.IsLeaf() && m.f(n.Value.Text()) {
		loc |= Value
	}
	return loc
}

// exprEnv is the environment of expression patterns.
type exprEnv struct {
	Key    string `expr:"key"`
	Value  any    `expr:"value"`
	Type   string `expr:"type"`
	Depth  int    `expr:"depth"`
	Path   string `expr:"path"`
	IsLeaf bool   `expr:"isLeaf"`
}

type exprMatcher struct {
	t        *tree.Tree
	prog     *vm.Program
	needPath bool
	env      exprEnv
}

func newExprMatcher(t *tree.Tree, pattern string) (*exprMatcher, error) {
	opts := append([]expr.Option{expr.Env(exprEnv{}), expr.AsBool()}, exprOpts(t)...)
	prog, err := expr.Compile(pattern, opts...)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return &exprMatcher{
		t:        t,
		prog:     prog,
		needPath: strings.Contains(pattern, "path"),
	}, nil
}

// match reports Both for nodes where the expression holds.  Evaluation
// errors, such as comparing a string value with a number, count as no
// match.
func (m *exprMatcher) match(i int) Location {
	n := m.t.Node(i)
	m.env = exprEnv{
		Type:   n.Value.Type.String(),
		Depth:  n.Depth,
		IsLeaf: n.IsLeaf(),
		Value:  nodeValue(n),
	}
	if n.HasKey() {
		m.env.Key = n.Key.String()
	}
	if m.needPath {
		m.env.Path, _ = m.t.Path(i)
	}
	out, err := expr.Run(m.prog, m.env)
	if err != nil {
		return 0
	}
	if b, _ := out.(bool); b {
		return Both
	}
	return 0
}

// nodeValue gives the Go value of a scalar, or the child count of a
// container.
func nodeValue(n *tree.Node) any {
	switch n.Value.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return n.Value.Bool
	case ir.NumberType:
		return n.Value.Number
	case ir.StringType:
		return n.Value.Str.String()
	default:
		return n.Value.Len
	}
}

func exprOpts(t *tree.Tree) []expr.Option {
	return []expr.Option{
		expr.Function("getpath", func(params ...any) (any, error) {
			i, err := t.Lookup(params[0].(string))
			if err != nil {
				return nil, nil
			}
			return nodeValue(t.Node(i)), nil
		},
			new(func(string) any)),
	}
}
