package libdiff

import (
	"errors"
	"fmt"
)

// Mode selects how values are considered equal.
type Mode int

const (
	// Strict compares values exactly and aligns arrays by position.
	Strict Mode = iota
	// Semantic ignores the order of array elements.
	Semantic
	// Flexible is Semantic and also ignores whitespace in strings.
	Flexible
	// Schema compares only the JSON types of values.  Object members
	// are still matched by key.
	Schema
)

var ErrBadMode = errors.New("bad diff mode")

func ParseMode(v string) (Mode, error) {
	m, ok := map[string]Mode{
		"strict":   Strict,
		"semantic": Semantic,
		"flexible": Flexible,
		"schema":   Schema,
	}[v]
	if ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, v)
}

func Modes() []Mode {
	return []Mode{Strict, Semantic, Flexible, Schema}
}

func (m Mode) String() string {
	d, err := m.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case Strict:
		return []byte("strict"), nil
	case Semantic:
		return []byte("semantic"), nil
	case Flexible:
		return []byte("flexible"), nil
	case Schema:
		return []byte("schema"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a diff mode>", m)
	}
}

func (m *Mode) UnmarshalText(d []byte) error {
	pm, err := ParseMode(string(d))
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

func (m Mode) ordered() bool {
	return m == Strict
}
