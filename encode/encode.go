// Package encode writes the values of a tree back out as JSON or YAML.
package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int
	format        Format
	wire          bool
	flow          bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes the subtree of t rooted at i to w followed by a newline.
func Encode(t *tree.Tree, i int, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	if t.Node(i) == nil {
		return fmt.Errorf("%w: %w: %d", ErrEncoding, tree.ErrIndexOutOfRange, i)
	}
	if es.format == YAMLFormat {
		return encodeYAML(t, i, w)
	}
	buf := bytes.NewBuffer(nil)
	if err := encodeJSON(t, i, buf, es); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func encodeJSON(t *tree.Tree, i int, w *bytes.Buffer, es *EncState) error {
	n := t.Node(i)
	switch n.Value.Type {
	case ir.ArrayType, ir.ObjectType:
		return encodeContainer(t, n, w, es)
	case ir.StringType:
		s, err := quote(n.Value.Str.String())
		if err != nil {
			return err
		}
		w.WriteString(es.color(ir.StringType, ValueColor, s))
	case ir.NumberType:
		if math.IsNaN(n.Value.Number) || math.IsInf(n.Value.Number, 0) {
			return fmt.Errorf("%w: number %v", ErrEncoding, n.Value.Number)
		}
		w.WriteString(es.color(ir.NumberType, ValueColor, n.Value.Text()))
	default:
		w.WriteString(es.color(n.Value.Type, ValueColor, n.Value.Text()))
	}
	return nil
}

func encodeContainer(t *tree.Tree, n *tree.Node, w *bytes.Buffer, es *EncState) error {
	lbr, rbr := "[", "]"
	if n.Value.Type == ir.ObjectType {
		lbr, rbr = "{", "}"
	}
	w.WriteString(es.color(n.Value.Type, SepColor, lbr))
	if len(n.Children) == 0 {
		w.WriteString(es.color(n.Value.Type, SepColor, rbr))
		return nil
	}
	es.depth++
	for k, c := range n.Children {
		if k > 0 {
			w.WriteString(es.color(n.Value.Type, SepColor, ","))
			if es.flow && !es.wire {
				w.WriteByte(' ')
			}
		}
		es.writeNL(w)
		if n.Value.Type == ir.ObjectType {
			key, err := quote(t.Key(c))
			if err != nil {
				return err
			}
			w.WriteString(es.color(ir.ObjectType, FieldColor, key))
			w.WriteString(es.color(ir.ObjectType, SepColor, ":"))
			if !es.wire {
				w.WriteByte(' ')
			}
		}
		if err := encodeJSON(t, c, w, es); err != nil {
			return err
		}
	}
	es.depth--
	es.writeNL(w)
	w.WriteString(es.color(n.Value.Type, SepColor, rbr))
	return nil
}

func (es *EncState) writeNL(w *bytes.Buffer) {
	if es.wire || es.flow {
		return
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(" ", es.indent*es.depth))
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

// quote renders s as a JSON string without escaping HTML characters.
func quote(s string) (string, error) {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func encodeYAML(t *tree.Tree, i int, w io.Writer) error {
	d, err := yaml.Marshal(ToYAML(t, i))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	_, err = w.Write(d)
	return err
}

// ToYAML converts the subtree at i to values for goccy/go-yaml, keeping
// object member order with yaml.MapSlice.
func ToYAML(t *tree.Tree, i int) any {
	n := t.Node(i)
	if n == nil {
		return nil
	}
	switch n.Value.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return n.Value.Bool
	case ir.NumberType:
		f := n.Value.Number
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case ir.StringType:
		return n.Value.Str.String()
	case ir.ArrayType:
		res := make([]any, len(n.Children))
		for k, c := range n.Children {
			res[k] = ToYAML(t, c)
		}
		return res
	default:
		res := make(yaml.MapSlice, len(n.Children))
		for k, c := range n.Children {
			res[k] = yaml.MapItem{Key: t.Key(c), Value: ToYAML(t, c)}
		}
		return res
	}
}

// MustString encodes the subtree at i, panicking on error.
func MustString(t *tree.Tree, i int, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(t, i, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

// Bytes returns the minified JSON of the subtree at i.
func Bytes(t *tree.Tree, i int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(t, i, buf, EncodeWire(true)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// CopyText formats node i for the clipboard: scalars as their raw text
// and containers as single line JSON.
func CopyText(t *tree.Tree, i int) (string, error) {
	n := t.Node(i)
	if n == nil {
		return "", fmt.Errorf("%w: %d", tree.ErrIndexOutOfRange, i)
	}
	if n.IsLeaf() {
		return n.Value.Text(), nil
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(t, i, buf, EncodeFlow(true)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
