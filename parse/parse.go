// Package parse turns JSON text into the ordered value graph consumed by
// the tree builder.  Object members keep their source order, and syntax
// errors carry line and column information.
package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/unfold/ir"
)

type parseConfig struct {
	maxDepth int
}

type ParseOption func(*parseConfig)

// ParseMaxDepth rejects documents nested deeper than d.  Zero means no
// limit.
func ParseMaxDepth(d int) ParseOption {
	return func(c *parseConfig) { c.maxDepth = d }
}

// Parse parses a single JSON document.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	cfg := &parseConfig{}
	for _, o := range opts {
		o(cfg)
	}
	p := &parser{
		src: d,
		dec: json.NewDecoder(bytes.NewReader(d)),
		cfg: cfg,
	}
	p.dec.UseNumber()
	tok, err := p.token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, p.errorAt(int64(len(d)), "empty document", err)
		}
		return nil, err
	}
	node, err := p.value(tok, 0)
	if err != nil {
		return nil, err
	}
	off := p.dec.InputOffset()
	if _, err := p.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, p.errorAt(off, "unexpected data after top-level value", err)
	}
	return node, nil
}

type parser struct {
	src []byte
	dec *json.Decoder
	cfg *parseConfig
}

func (p *parser) token() (json.Token, error) {
	off := p.dec.InputOffset()
	tok, err := p.dec.Token()
	if err == nil {
		return tok, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, err
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return nil, p.errorAt(se.Offset, se.Error(), err)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, p.errorAt(int64(len(p.src)), "unexpected end of input", err)
	}
	return nil, p.errorAt(off, err.Error(), err)
}

// next is token for positions where end of input is an error.
func (p *parser) next() (json.Token, error) {
	tok, err := p.token()
	if errors.Is(err, io.EOF) {
		return nil, p.errorAt(int64(len(p.src)), "unexpected end of input", io.ErrUnexpectedEOF)
	}
	return tok, err
}

func (p *parser) value(tok json.Token, depth int) (*ir.Node, error) {
	if p.cfg.maxDepth > 0 && depth > p.cfg.maxDepth {
		return nil, p.errorAt(p.dec.InputOffset(), fmt.Sprintf("nesting exceeds %d", p.cfg.maxDepth), ErrDepth)
	}
	switch x := tok.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case json.Number:
		n, err := ir.FromNumber(string(x))
		if err != nil {
			return nil, p.errorAt(p.dec.InputOffset(), err.Error(), err)
		}
		return n, nil
	case json.Delim:
		switch x {
		case '[':
			return p.array(depth)
		case '{':
			return p.object(depth)
		}
	}
	return nil, p.errorAt(p.dec.InputOffset(), fmt.Sprintf("unexpected token %v", tok), nil)
}

func (p *parser) array(depth int) (*ir.Node, error) {
	vs := []*ir.Node{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return ir.FromSlice(vs), nil
		}
		v, err := p.value(tok, depth+1)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
}

func (p *parser) object(depth int) (*ir.Node, error) {
	kvs := []ir.KeyVal{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return ir.FromKeyVals(kvs), nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, p.errorAt(p.dec.InputOffset(), fmt.Sprintf("expected object key, got %v", tok), nil)
		}
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		v, err := p.value(tok, depth+1)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: key, Val: v})
	}
}

func (p *parser) errorAt(off int64, msg string, err error) *SyntaxError {
	if off < 0 {
		off = 0
	}
	if off > int64(len(p.src)) {
		off = int64(len(p.src))
	}
	line, col, ctx := Locate(p.src, off)
	return &SyntaxError{
		Msg:     msg,
		Offset:  off,
		Line:    line,
		Column:  col,
		Context: ctx,
		Err:     err,
	}
}

// Locate converts a byte offset into a 1-based line and column, and
// returns the text of that line without its line terminator.
func Locate(src []byte, off int64) (line, col int, context string) {
	if off > int64(len(src)) {
		off = int64(len(src))
	}
	before := src[:off]
	line = bytes.Count(before, []byte{'\n'}) + 1
	start := bytes.LastIndexByte(before, '\n') + 1
	col = int(off) - start + 1
	end := bytes.IndexByte(src[start:], '\n')
	if end == -1 {
		end = len(src) - start
	}
	context = string(bytes.TrimRight(src[start:start+end], "\r"))
	return line, col, context
}
