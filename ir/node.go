package ir

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Node is one value of a parsed document.  Objects keep their members in
// source order in the parallel Fields and Values slices; duplicate member
// names are kept as they appear.
type Node struct {
	Type   Type
	Fields []string
	Values []*Node

	String string
	Bool   bool
	// Number holds the literal text of a number when it came from a
	// parser.  It may be empty for numbers built with FromFloat.
	Number  string
	Float64 float64
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Float64: f}
}

func FromInt(i int64) *Node {
	return &Node{
		Type:    NumberType,
		Number:  strconv.FormatInt(i, 10),
		Float64: float64(i),
	}
}

// FromNumber builds a number from its literal text.  Integers beyond 2^53
// lose precision in Float64; Number keeps the literal.
func FromNumber(lit string) (*Node, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q: %w", ErrBadValue, lit, err)
	}
	return &Node{Type: NumberType, Number: lit, Float64: f}, nil
}

func FromSlice(vs []*Node) *Node {
	if vs == nil {
		vs = []*Node{}
	}
	return &Node{Type: ArrayType, Values: vs}
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds an object keeping the order of kvs.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i := range kvs {
		res.Fields[i] = kvs[i].Key
		res.Values[i] = kvs[i].Val
	}
	return res
}

// FromMap builds an object with keys in sorted order.
func FromMap(m map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(m))
	kvs := make([]KeyVal, len(keys))
	for i, k := range keys {
		kvs[i] = KeyVal{Key: k, Val: m[k]}
	}
	return FromKeyVals(kvs)
}

// FromAny converts the result of encoding/json decoding (or an equivalent
// hand built value) to a Node.  Map keys are sorted since Go maps carry
// no order.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case json.Number:
		return FromNumber(string(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, x)
		}
		return FromFloat(x), nil
	case float32:
		return FromAny(float64(x))
	case int:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case int32:
		return FromInt(int64(x)), nil
	case uint64:
		return FromNumber(strconv.FormatUint(x, 10))
	case []any:
		vs := make([]*Node, len(x))
		for i := range x {
			n, err := FromAny(x[i])
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			vs[i] = n
		}
		return FromSlice(vs), nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, xv := range x {
			n, err := FromAny(xv)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = n
		}
		return FromMap(m), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadValue, v)
	}
}

// Get returns the value of the first member named field, or nil.
func Get(y *Node, field string) *Node {
	for i, f := range y.Fields {
		if f == field {
			return y.Values[i]
		}
	}
	return nil
}
