package parse

import (
	"errors"
	"io"
	"testing"

	"github.com/signadot/unfold/ir"
)

type parseTest struct {
	in   string
	typ  ir.Type
	size int
}

func TestParseOK(t *testing.T) {
	pts := []parseTest{
		{in: `null`, typ: ir.NullType},
		{in: `true`, typ: ir.BoolType},
		{in: `false`, typ: ir.BoolType},
		{in: `22`, typ: ir.NumberType},
		{in: `1e14`, typ: ir.NumberType},
		{in: `"hello"`, typ: ir.StringType},
		{in: `[]`, typ: ir.ArrayType},
		{in: `[[]]`, typ: ir.ArrayType, size: 1},
		{in: `["a",["b",["c"]]]`, typ: ir.ArrayType, size: 2},
		{in: `{}`, typ: ir.ObjectType},
		{in: ` {"a": 1, "b": [1, 2]} `, typ: ir.ObjectType, size: 2},
		{in: "{\"a\":\n  {\"b\": null}}\n", typ: ir.ObjectType, size: 1},
	}
	for _, pt := range pts {
		t.Run(pt.in, func(t *testing.T) {
			n, err := Parse([]byte(pt.in))
			if err != nil {
				t.Fatal(err)
			}
			if n.Type != pt.typ {
				t.Errorf("type %s, want %s", n.Type, pt.typ)
			}
			if len(n.Values) != pt.size {
				t.Errorf("size %d, want %d", len(n.Values), pt.size)
			}
		})
	}
}

func TestParseKeepsOrder(t *testing.T) {
	n, err := Parse([]byte(`{"z": 1, "a": 2, "m": 3, "a": 4}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"z", "a", "m", "a"}
	if len(n.Fields) != len(want) {
		t.Fatalf("fields %v", n.Fields)
	}
	for i := range want {
		if n.Fields[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, n.Fields[i], want[i])
		}
	}
	if n.Values[3].Float64 != 4 {
		t.Errorf("duplicate key value lost")
	}
}

func TestParseNumberLiteral(t *testing.T) {
	n, err := Parse([]byte(`9007199254740993`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Number != "9007199254740993" {
		t.Errorf("literal %q", n.Number)
	}
	if n.Float64 != 9007199254740992 {
		t.Errorf("float %v", n.Float64)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in        string
		line, col int
		context   string
	}{
		{in: "{\n  \"a\": 1,\n  \"b\": ]\n}", line: 3, context: `  "b": ]`},
		{in: "[1, 2", line: 1, col: 6, context: "[1, 2"},
		{in: "", line: 1, col: 1},
		{in: "1 2", line: 1, context: "1 2"},
		{in: "{\"a\" 1}", line: 1, context: `{"a" 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("%v is not ErrParse", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("%T is not *SyntaxError", err)
			}
			if se.Line != tt.line {
				t.Errorf("line %d, want %d", se.Line, tt.line)
			}
			if tt.col != 0 && se.Column != tt.col {
				t.Errorf("column %d, want %d", se.Column, tt.col)
			}
			if se.Context != tt.context {
				t.Errorf("context %q, want %q", se.Context, tt.context)
			}
		})
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := Parse([]byte(`{"a": [`))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v", err)
	}
}

func TestParseMaxDepth(t *testing.T) {
	if _, err := Parse([]byte(`[[[1]]]`), ParseMaxDepth(2)); !errors.Is(err, ErrDepth) {
		t.Errorf("got %v, want ErrDepth", err)
	}
	if _, err := Parse([]byte(`[[[1]]]`), ParseMaxDepth(3)); err != nil {
		t.Errorf("unexpected %v", err)
	}
}

func TestLocate(t *testing.T) {
	src := []byte("ab\r\ncd\nef")
	line, col, ctx := Locate(src, 5)
	if line != 2 || col != 2 || ctx != "cd" {
		t.Errorf("got %d %d %q", line, col, ctx)
	}
	line, col, ctx = Locate(src, 1)
	if line != 1 || col != 2 || ctx != "ab" {
		t.Errorf("got %d %d %q", line, col, ctx)
	}
}
