package libdiff

import (
	"context"
	"errors"
	"strings"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
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

func mustCompare(t *testing.T, left, right string, mode Mode) *Result {
	t.Helper()
	res, err := Compare(context.Background(), mustBuild(t, left), mustBuild(t, right), mode)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// change is an Entry without node indices.
type change struct {
	Path     string
	Kind     Kind
	Old, New string
}

func changes(r *Result) []change {
	var res []change
	for _, e := range r.Changes() {
		res = append(res, change{e.Path, e.Kind, e.Old, e.New})
	}
	return res
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name        string
		left, right string
		mode        Mode
		want        []change
	}{
		{
			name:  "modified scalar",
			left:  `{"a":1}`,
			right: `{"a":2}`,
			want:  []change{{"root.a", Modified, "1", "2"}},
		},
		{
			name:  "key order ignored",
			left:  `{"a":1,"b":[true,null]}`,
			right: `{"b":[true,null],"a":1}`,
		},
		{
			name:  "added and removed keys",
			left:  `{"a":1,"b":2}`,
			right: `{"a":1,"c":3}`,
			want: []change{
				{"root.b", Removed, "2", ""},
				{"root.c", Added, "", "3"},
			},
		},
		{
			name:  "type change",
			left:  `{"a":1}`,
			right: `{"a":"1"}`,
			want:  []change{{"root.a", Modified, "1", "1"}},
		},
		{
			name:  "container type change",
			left:  `{"a":[1]}`,
			right: `{"a":{"x":1}}`,
			want:  []change{{"root.a", Modified, "[1 item]", "{1 key}"}},
		},
		{
			name:  "insert in the middle",
			left:  `[1,2,3,4]`,
			right: `[1,2,9,3,4]`,
			want:  []change{{"root[2]", Added, "", "9"}},
		},
		{
			name:  "delete in the middle",
			left:  `[1,2,3]`,
			right: `[1,3]`,
			want:  []change{{"root[1]", Removed, "2", ""}},
		},
		{
			name:  "replace in the middle",
			left:  `[1,2,3]`,
			right: `[1,5,3]`,
			want:  []change{{"root[1]", Modified, "2", "5"}},
		},
		{
			name:  "reorder modified in place",
			left:  `[1,2,3]`,
			right: `[3,2,1]`,
			want: []change{
				{"root[0]", Modified, "1", "3"},
				{"root[2]", Modified, "3", "1"},
			},
		},
		{
			name:  "rotation aligned",
			left:  `[1,2,3,4]`,
			right: `[2,3,4,1]`,
			want: []change{
				{"root[0]", Removed, "1", ""},
				{"root[3]", Added, "", "1"},
			},
		},
		{
			name:  "replaced element recursed",
			left:  `{"xs":[{"id":1,"v":"a"},{"id":2}]}`,
			right: `{"xs":[{"id":1,"v":"b"},{"id":2}]}`,
			want:  []change{{"root.xs[0].v", Modified, "a", "b"}},
		},
		{
			name:  "quoted path",
			left:  `{"a.b":{"":1}}`,
			right: `{"a.b":{"":2}}`,
			want:  []change{{"root.'a.b'.''", Modified, "1", "2"}},
		},
		{
			name:  "negative zero",
			left:  `[0]`,
			right: `[-0]`,
		},
		{
			name:  "semantic order ignored",
			left:  `[1,2,3]`,
			right: `[3,2,1]`,
			mode:  Semantic,
		},
		{
			name:  "semantic nested order ignored",
			left:  `{"a":[[1,2],{"k":[3,4]}]}`,
			right: `{"a":[{"k":[4,3]},[2,1]]}`,
			mode:  Semantic,
		},
		{
			name:  "semantic multiset",
			left:  `[1,1,2]`,
			right: `[1,2,2]`,
			mode:  Semantic,
			want: []change{
				{"root[1]", Removed, "1", ""},
				{"root[2]", Added, "", "2"},
			},
		},
		{
			name:  "semantic similar objects",
			left:  `[{"id":1,"name":"x"},{"id":2,"name":"y"}]`,
			right: `[{"id":2,"name":"y2"},{"id":1,"name":"x"}]`,
			mode:  Semantic,
			want:  []change{{"root[1].name", Modified, "y", "y2"}},
		},
		{
			name:  "semantic whitespace counts",
			left:  `{"s":"a b"}`,
			right: `{"s":"ab"}`,
			mode:  Semantic,
			want:  []change{{"root.s", Modified, "a b", "ab"}},
		},
		{
			name:  "flexible whitespace ignored",
			left:  `{"s":"a b\n", "xs":["x y", 1]}`,
			right: `{"s":"ab", "xs":[1, " xy"]}`,
			mode:  Flexible,
		},
		{
			name:  "flexible value change",
			left:  `{"s":"a b"}`,
			right: `{"s":"a c"}`,
			mode:  Flexible,
			want:  []change{{"root.s", Modified, "a b", "a c"}},
		},
		{
			name:  "schema values ignored",
			left:  `{"a":1,"b":"x","c":[true],"d":null}`,
			right: `{"a":2,"b":"y","c":[false],"d":null}`,
			mode:  Schema,
		},
		{
			name:  "schema type change",
			left:  `{"a":1,"b":"x"}`,
			right: `{"a":"1","b":"y"}`,
			mode:  Schema,
			want:  []change{{"root.a", Modified, "1", "1"}},
		},
		{
			name:  "schema keys matched",
			left:  `{"a":1}`,
			right: `{"b":1}`,
			mode:  Schema,
			want: []change{
				{"root.a", Removed, "1", ""},
				{"root.b", Added, "", "1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustCompare(t, tt.left, tt.right, tt.mode)
			if diff := cmp.Diff(tt.want, changes(res)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompareStrictReorder(t *testing.T) {
	res := mustCompare(t, `[1,2,3]`, `[3,2,1]`, Strict)
	want := []Entry{
		{Path: "root[0]", Kind: Modified, Left: 1, Right: 1, Old: "1", New: "3"},
		{Path: "root[1]", Kind: Equal, Left: 2, Right: 2},
		{Path: "root[2]", Kind: Modified, Left: 3, Right: 3, Old: "3", New: "1"},
	}
	if diff := cmp.Diff(want, res.Entries); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if res.Counts != (Counts{Modifications: 2, Unchanged: 1}) {
		t.Errorf("counts %+v", res.Counts)
	}
}

func TestCompareHashCollision(t *testing.T) {
	tests := []struct {
		name        string
		left, right string
		mode        Mode
		want        Kind
	}{
		{"numbers", `[1]`, `[2]`, Strict, Modified},
		{"strings", `["a"]`, `["b"]`, Semantic, Modified},
		{"bools", `[true]`, `[false]`, Strict, Modified},
		{"equal", `["a"]`, `["a"]`, Strict, Equal},
		{"flexible spaces", `["a b"]`, `["ab"]`, Flexible, Equal},
		{"schema", `[1]`, `[2]`, Schema, Equal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := mustBuild(t, tt.left), mustBuild(t, tt.right)
			c := &comparer{
				ctx:      context.Background(),
				l:        l,
				r:        r,
				lh:       make([]uint64, l.Len()),
				rh:       make([]uint64, r.Len()),
				mode:     tt.mode,
				interval: DefaultCheckInterval,
				res:      &Result{Mode: tt.mode},
			}
			// every node of both trees hashes alike
			if err := c.walk(1, 1, "root[0]"); err != nil {
				t.Fatal(err)
			}
			if len(c.res.Entries) != 1 || c.res.Entries[0].Kind != tt.want {
				t.Errorf("got %+v, want one %s entry", c.res.Entries, tt.want)
			}
		})
	}
}

func TestCompareIdempotent(t *testing.T) {
	docs := []string{
		`null`,
		`"s"`,
		`[]`,
		`{}`,
		`{"a":[1,2,{"b":3}],"c":{"d":[[],{}],"e":"x y"}}`,
		`[1,1,1,{"a":1,"a":2},[3,2,1]]`,
	}
	for _, doc := range docs {
		for _, mode := range Modes() {
			tr := mustBuild(t, doc)
			for _, other := range []*tree.Tree{tr, mustBuild(t, doc)} {
				res, err := Compare(context.Background(), tr, other, mode)
				if err != nil {
					t.Fatal(err)
				}
				if n := len(res.Changes()); n != 0 {
					t.Errorf("%s %s: %d changes", mode, doc, n)
				}
				want := []Entry{{Path: "root", Kind: Equal, Left: 0, Right: 0}}
				if diff := cmp.Diff(want, res.Entries); diff != "" {
					t.Errorf("%s %s (-want +got):\n%s", mode, doc, diff)
				}
			}
		}
	}
}

func TestCompareEntries(t *testing.T) {
	res := mustCompare(t, `{"a":1,"b":2}`, `{"a":1,"c":3}`, Strict)
	want := []Entry{
		{Path: "root.a", Kind: Equal, Left: 1, Right: 1},
		{Path: "root.b", Kind: Removed, Left: 2, Right: -1, Old: "2"},
		{Path: "root.c", Kind: Added, Left: -1, Right: 2, New: "3"},
	}
	if diff := cmp.Diff(want, res.Entries); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if res.Counts != (Counts{Additions: 1, Deletions: 1, Unchanged: 1}) {
		t.Errorf("counts %+v", res.Counts)
	}

	rev := res.Reverse()
	wantRev := []Entry{
		{Path: "root.a", Kind: Equal, Left: 1, Right: 1},
		{Path: "root.b", Kind: Added, Left: -1, Right: 2, New: "2"},
		{Path: "root.c", Kind: Removed, Left: 2, Right: -1, Old: "3"},
	}
	if diff := cmp.Diff(wantRev, rev.Entries); diff != "" {
		t.Errorf("reverse (-want +got):\n%s", diff)
	}
	if rev.Counts != (Counts{Additions: 1, Deletions: 1, Unchanged: 1}) {
		t.Errorf("reverse counts %+v", rev.Counts)
	}
}

func TestCompareArrayEntries(t *testing.T) {
	res := mustCompare(t, `[1,2,3,4]`, `[1,2,9,3,4]`, Strict)
	var kinds []Kind
	var paths []string
	for _, e := range res.Entries {
		kinds = append(kinds, e.Kind)
		paths = append(paths, e.Path)
	}
	if diff := cmp.Diff([]Kind{Equal, Equal, Added, Equal, Equal}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"root[0]", "root[1]", "root[2]", "root[2]", "root[3]"}, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestCompareIgnoresExpansion(t *testing.T) {
	l, r := mustBuild(t, `{"a":{"b":1}}`), mustBuild(t, `{"a":{"b":2}}`)
	a, err := Compare(context.Background(), l, r, Strict)
	if err != nil {
		t.Fatal(err)
	}
	l.ExpandAll(0)
	r.CollapseAll(0)
	b, err := Compare(context.Background(), l, r, Strict)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Error(diff)
	}
}

func TestCompareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l, r := mustBuild(t, `[1,2,3]`), mustBuild(t, `[3]`)
	res, err := Compare(ctx, l, r, Semantic, WithCheckInterval(1))
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Fatalf("got %v %v", res, err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("%s: got %v %v", m, got, err)
		}
	}
	if _, err := ParseMode("fuzzy"); !errors.Is(err, ErrBadMode) {
		t.Errorf("got %v", err)
	}
	if _, err := Compare(context.Background(), mustBuild(t, `1`), mustBuild(t, `1`), Mode(9)); !errors.Is(err, ErrBadMode) {
		t.Errorf("got %v", err)
	}
}

func TestMergePatch(t *testing.T) {
	left := mustBuild(t, `{"a":1,"b":{"c":2,"d":"x"},"e":[1]}`)
	rightDoc := `{"a":1,"b":{"c":3},"e":[1,2],"f":null}`
	right := mustBuild(t, rightDoc)
	p, err := MergePatch(left, right)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ApplyMergePatch(left, p)
	if err != nil {
		t.Fatal(err)
	}
	// a merge patch cannot add a null member
	if !jsonpatch.Equal(got, []byte(`{"a":1,"b":{"c":3},"e":[1,2]}`)) {
		t.Errorf("patched document %s", got)
	}
	if _, err := MergePatch(mustBuild(t, `1`), mustBuild(t, `2`)); !errors.Is(err, ErrPatch) {
		t.Errorf("got %v", err)
	}
	if _, err := MergePatch(mustBuild(t, `{}`), mustBuild(t, `[]`)); !errors.Is(err, ErrPatch) {
		t.Errorf("got %v", err)
	}
}

func TestDiffString(t *testing.T) {
	from, to := "hello big world", "hello small world"
	var f, g strings.Builder
	changed := false
	for _, s := range DiffString(from, to) {
		if s.Kind != Added {
			f.WriteString(s.Text)
		}
		if s.Kind != Removed {
			g.WriteString(s.Text)
		}
		changed = changed || s.Kind != Equal
	}
	if f.String() != from || g.String() != to || !changed {
		t.Errorf("spans rebuild %q and %q", f.String(), g.String())
	}
}

func TestDiffer(t *testing.T) {
	d := NewDiffer()
	res, err := d.Compare(context.Background(), mustBuild(t, `{"a":1}`), mustBuild(t, `{"a":2}`), Strict)
	if err != nil {
		t.Fatal(err)
	}
	if res.Counts.Modifications != 1 {
		t.Errorf("counts %+v", res.Counts)
	}
}
