package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/unfold/parse"
	"github.com/signadot/unfold/tree"
)

func mustBuild(t *testing.T, doc string) *tree.Tree {
	t.Helper()
	y, err := parse.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	tr, err := tree.Build(y, int64(len(doc)))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

const doc = `{
  "name": "Unfold",
  "Nameless": null,
  "version": 1.5,
  "users": [
    {"email": "ada@example.com", "admin": true},
    {"email": "bob@example.org", "admin": false, "tags": ["name", "x"]}
  ]
}`

// node indices of doc:
//  0 root, 1 name, 2 Nameless, 3 version, 4 users, 5 [0], 6 email,
//  7 admin, 8 [1], 9 email, 10 admin, 11 tags, 12 [0], 13 [1]

func TestSearch(t *testing.T) {
	tr := mustBuild(t, doc)
	tests := []struct {
		name string
		q    Query
		want []Result
	}{
		{
			name: "case insensitive key and value",
			q:    Query{Pattern: "name"},
			want: []Result{{1, Key}, {2, Key}, {12, Value}},
		},
		{
			name: "case sensitive",
			q:    Query{Pattern: "Name", Options: Options{CaseSensitive: true}},
			want: []Result{{2, Key}},
		},
		{
			name: "key and value",
			q:    Query{Pattern: "UNFOLD"},
			want: []Result{{1, Value}},
		},
		{
			name: "null and bool text",
			q:    Query{Pattern: "null"},
			want: []Result{{2, Value}},
		},
		{
			name: "number text",
			q:    Query{Pattern: "1.5"},
			want: []Result{{3, Value}},
		},
		{
			name: "array labels not matched",
			q:    Query{Pattern: "[0]"},
		},
		{
			name: "regex",
			q:    Query{Pattern: `@example\.(com|net)$`, Options: Options{UseRegex: true}},
			want: []Result{{6, Value}},
		},
		{
			name: "regex case insensitive",
			q:    Query{Pattern: `^EMAIL$`, Options: Options{UseRegex: true}},
			want: []Result{{6, Key}, {9, Key}},
		},
		{
			name: "regex matching key and value",
			q:    Query{Pattern: `^n`, Options: Options{UseRegex: true, CaseSensitive: true}},
			want: []Result{{1, Key}, {2, Value}, {12, Value}},
		},
		{
			name: "expression",
			q:    Query{Pattern: `key == "admin" && value == true`, Options: Options{UseExpr: true}},
			want: []Result{{7, Both}},
		},
		{
			name: "expression over mixed types",
			q:    Query{Pattern: `value > 1`, Options: Options{UseExpr: true}},
			want: []Result{{0, Both}, {3, Both}, {4, Both}, {5, Both}, {8, Both}, {11, Both}},
		},
		{
			name: "expression with path",
			q:    Query{Pattern: `path startsWith "root.users[1]" && isLeaf`, Options: Options{UseExpr: true}},
			want: []Result{{9, Both}, {10, Both}, {12, Both}, {13, Both}},
		},
		{
			name: "expression getpath",
			q:    Query{Pattern: `depth == 0 && getpath("root.version") == 1.5`, Options: Options{UseExpr: true}},
			want: []Result{{0, Both}},
		},
		{
			name: "empty pattern",
			q:    Query{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Search(context.Background(), tr, tt.q)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchIncludesCollapsed(t *testing.T) {
	tr := mustBuild(t, doc)
	tr.CollapseAll(0)
	got, err := Search(context.Background(), tr, Query{Pattern: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Index != 9 {
		t.Fatalf("got %v", got)
	}
	if Positions(tr.Visible(), got)[0] != -1 {
		t.Error("hit should be hidden")
	}
	Reveal(tr, got)
	vis := tr.Visible()
	if p := Positions(vis, got)[0]; p < 0 || vis[p] != 9 {
		t.Errorf("position %d in %v", p, vis)
	}
}

func TestSearchInvalidPattern(t *testing.T) {
	tr := mustBuild(t, doc)
	for _, q := range []Query{
		{Pattern: "(", Options: Options{UseRegex: true}},
		{Pattern: "key ==", Options: Options{UseExpr: true}},
		{Pattern: `"a string"`, Options: Options{UseExpr: true}},
	} {
		got, err := Search(context.Background(), tr, q)
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("%q: got %v", q.Pattern, err)
		}
		var pe *PatternError
		if !errors.As(err, &pe) || pe.Pattern != q.Pattern {
			t.Errorf("%q: got %#v", q.Pattern, err)
		}
		if len(got) != 0 {
			t.Errorf("%q: got results %v", q.Pattern, got)
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	tr := mustBuild(t, doc)
	q := Query{Pattern: "e"}
	a, err := Search(context.Background(), tr, q)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Search(context.Background(), tr, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) == 0 {
		t.Fatal("no results")
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Error(diff)
	}
}

func TestSearchCancelled(t *testing.T) {
	tr := mustBuild(t, doc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := Search(ctx, tr, Query{Pattern: "e"}, WithCheckInterval(1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	if got != nil {
		t.Errorf("partial results %v", got)
	}
}

func TestCursor(t *testing.T) {
	c := NewCursor([]Result{{Index: 1}, {Index: 5}, {Index: 9}})
	if _, ok := c.Current(); ok {
		t.Error("current before first move")
	}
	var got []int
	for range 4 {
		r, _ := c.Next()
		got = append(got, r.Index)
	}
	for range 3 {
		r, _ := c.Prev()
		got = append(got, r.Index)
	}
	if diff := cmp.Diff([]int{1, 5, 9, 1, 9, 5, 1}, got); diff != "" {
		t.Error(diff)
	}
	c = NewCursor(nil)
	if _, ok := c.Next(); ok {
		t.Error("next on empty cursor")
	}
	c = NewCursor([]Result{{Index: 3}, {Index: 4}})
	if r, _ := c.Prev(); r.Index != 4 {
		t.Errorf("prev from start got %d", r.Index)
	}
}

func TestSearcherSupersedes(t *testing.T) {
	tr := mustBuild(t, doc)
	s := NewSearcher()
	var got []Result
	delivered := 0
	first := s.Submit(context.Background(), tr, Query{Pattern: "ada"}, func(r []Result, err error) {
		delivered++
		got = r
	})
	<-first
	second := s.Submit(context.Background(), tr, Query{Pattern: "bob"}, func(r []Result, err error) {
		delivered++
		got = r
	})
	<-second
	if delivered != 2 || len(got) != 1 || got[0].Index != 9 {
		t.Errorf("delivered %d got %v", delivered, got)
	}
	res, err := s.Search(context.Background(), tr, Query{Pattern: "ada"})
	if err != nil || len(res) != 1 || res[0].Index != 6 {
		t.Errorf("got %v %v", res, err)
	}
}
