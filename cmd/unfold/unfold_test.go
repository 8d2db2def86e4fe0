package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/unfold"
	"github.com/signadot/unfold/intern"
	"github.com/signadot/unfold/libdiff"
	"github.com/signadot/unfold/search"
	"github.com/signadot/unfold/viewport"
)

func TestWriteRows(t *testing.T) {
	tr, err := unfold.Load([]byte(`{"a":1,"b":[true]}`))
	if err != nil {
		t.Fatal(err)
	}
	tr.ExpandAll(tr.Root())
	_, rows := viewport.Window(tr, viewport.Query{ViewportHeight: 100, NodeHeight: 16})
	buf := bytes.NewBuffer(nil)
	for i := range rows {
		if err := writeRow(buf, &rows[i], nil, false); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{
		"▾ {2 keys}",
		"├─ a: 1",
		"└─ ▾ b: [1 item]",
		"   └─ [0]: true",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestDiffPrinter(t *testing.T) {
	in := intern.New()
	l, err := unfold.Load([]byte(`{"a":1,"b":"xy","c":true}`), unfold.LoadInterner(in))
	if err != nil {
		t.Fatal(err)
	}
	r, err := unfold.Load([]byte(`{"a":1,"b":"xz","d":null}`), unfold.LoadInterner(in))
	if err != nil {
		t.Fatal(err)
	}
	res, err := libdiff.Compare(context.Background(), l, r, libdiff.Strict)
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	p := &diffPrinter{w: buf, left: l, right: r}
	for _, e := range res.Changes() {
		if err := p.print(&e); err != nil {
			t.Fatal(err)
		}
	}
	want := "~ root.b: xy -> xz\n- root.c: true\n+ root.d: null\n"
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestFormatHit(t *testing.T) {
	tr, err := unfold.Load([]byte(`{"name":"ada","tags":["x"]}`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := search.Search(context.Background(), tr, search.Query{Pattern: "a"})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, r := range res {
		got = append(got, formatHit(tr, r, nil))
	}
	want := []string{
		"root.name\tboth\tada",
		"root.tags\tkey\t[1 item]",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hits (-want +got):\n%s", diff)
	}
}

func TestFiles(t *testing.T) {
	if diff := cmp.Diff([]string{"-"}, files(nil)); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, files([]string{"a", "b"})); diff != "" {
		t.Error(diff)
	}
}
