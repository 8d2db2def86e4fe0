package viewport

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/unfold/parse"
	"github.com/signadot/unfold/tree"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want Range
	}{
		{
			name: "top",
			q:    Query{ScrollOffset: 0, ViewportHeight: 160, NodeHeight: 16, TotalVisible: 1000, Buffer: 5},
			want: Range{0, 15},
		},
		{
			name: "middle",
			q:    Query{ScrollOffset: 1600, ViewportHeight: 160, NodeHeight: 16, TotalVisible: 1000, Buffer: 5},
			want: Range{95, 115},
		},
		{
			name: "partial row",
			q:    Query{ScrollOffset: 20, ViewportHeight: 40, NodeHeight: 16, TotalVisible: 1000},
			want: Range{1, 4},
		},
		{
			name: "near end",
			q:    Query{ScrollOffset: 15900, ViewportHeight: 160, NodeHeight: 16, TotalVisible: 1000, Buffer: 5},
			want: Range{988, 1000},
		},
		{
			name: "past end",
			q:    Query{ScrollOffset: 1e9, ViewportHeight: 160, NodeHeight: 16, TotalVisible: 10, Buffer: 2},
			want: Range{7, 10},
		},
		{
			name: "short document",
			q:    Query{ViewportHeight: 800, NodeHeight: 16, TotalVisible: 3, Buffer: 5},
			want: Range{0, 3},
		},
		{
			name: "empty",
			q:    Query{ViewportHeight: 800, NodeHeight: 16, Buffer: 5},
			want: Range{0, 0},
		},
		{
			name: "negative offset",
			q:    Query{ScrollOffset: -50, ViewportHeight: 32, NodeHeight: 16, TotalVisible: 10},
			want: Range{0, 2},
		},
		{
			name: "zero node height",
			q:    Query{ScrollOffset: 32, ViewportHeight: 32, NodeHeight: 0, TotalVisible: 10},
			want: Range{2, 4},
		},
		{
			name: "zero viewport",
			q:    Query{ScrollOffset: 32, NodeHeight: 16, TotalVisible: 10},
			want: Range{2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.q); got != tt.want {
				t.Errorf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeProperties(t *testing.T) {
	offsets := []float64{math.NaN(), -1, 0, 1, 15.9, 16, 100, 1234.5, 1e6, math.Inf(1)}
	for _, total := range []int{0, 1, 2, 50, 1000} {
		for _, buf := range []int{0, 5} {
			prev := -1
			for _, off := range offsets {
				q := Query{ScrollOffset: off, ViewportHeight: 100, NodeHeight: 16, TotalVisible: total, Buffer: buf}
				r := Compute(q)
				if r.Start < 0 || r.End > total || r.Start > r.End {
					t.Fatalf("%+v: range %+v out of bounds", q, r)
				}
				if r.Empty() != (total == 0) {
					t.Fatalf("%+v: empty %v", q, r.Empty())
				}
				if r.Start < prev {
					t.Fatalf("%+v: start %d before %d", q, r.Start, prev)
				}
				prev = r.Start
				if Compute(q) != r {
					t.Fatalf("%+v: not deterministic", q)
				}
			}
		}
	}
}

func TestRows(t *testing.T) {
	doc := `{"a":{"b":1,"c":[true]},"d":"x"}`
	y, err := parse.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	tr, err := tree.Build(y, int64(len(doc)), tree.WithExpandDepth(10))
	if err != nil {
		t.Fatal(err)
	}
	r, rows := Window(tr, Query{ViewportHeight: 1000, NodeHeight: 16})
	if r != (Range{0, 6}) {
		t.Fatalf("range %+v", r)
	}
	type line struct {
		Prefix, Key, Display, Path string
	}
	var got []line
	for _, row := range rows {
		got = append(got, line{row.Prefix, row.Key, row.Display, row.Path})
	}
	want := []line{
		{"", "", "{2 keys}", "root"},
		{"├─ ", "a", "{2 keys}", "root.a"},
		{"│  ├─ ", "b", "1", "root.a.b"},
		{"│  └─ ", "c", "[1 item]", "root.a.c"},
		{"│     └─ ", "[0]", "true", "root.a.c[0]"},
		{"└─ ", "d", "x", "root.d"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if !rows[1].Expandable || !rows[1].Expanded || rows[2].Expandable {
		t.Error("expansion flags")
	}

	tr.Toggle(1)
	_, rows = Window(tr, Query{ScrollOffset: 32, ViewportHeight: 16, NodeHeight: 16})
	if len(rows) != 1 || rows[0].Index != 5 || rows[0].Row != 2 {
		t.Errorf("after collapse got %+v", rows)
	}
	if got := Rows(tr, tr.Visible(), Range{3, 10}); got != nil {
		t.Errorf("out of range rows %+v", got)
	}
}
