package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Root is the first segment of every path.
const Root = "root"

// Path is a parsed path such as root.users[2].email.  The zero Path (no
// Field, no Index) addresses the root.
type Path struct {
	Index *int
	Field *string
	Next  *Path
}

func (p *Path) String() string {
	buf := bytes.NewBufferString(Root)
	for x := p; x != nil; x = x.Next {
		switch {
		case x.Field != nil:
			buf.WriteByte('.')
			buf.WriteString(FieldString(*x.Field))
		case x.Index != nil:
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
	}
	return buf.String()
}

// FieldString renders a member name as a path segment, quoting it when it
// would not parse back unquoted.
func FieldString(f string) string {
	if f != "" && strings.IndexAny(f, "'.[] ") == -1 {
		return f
	}
	f = strings.ReplaceAll(f, "\\", "\\\\")
	return "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// IndexString renders an array position as a path segment.
func IndexString(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func ParsePath(p string) (*Path, error) {
	if !strings.HasPrefix(p, Root) {
		return nil, fmt.Errorf("%w: %q should start with %q", ErrBadPath, p, Root)
	}
	root := &Path{}
	if len(p) == len(Root) {
		return root, nil
	}
	if err := parseFrag(p[len(Root):], root); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrBadPath, p, err)
	}
	return root, nil
}

// Segments returns the path as a slice, one element per field or index.
func (p *Path) Segments() []*Path {
	var res []*Path
	for x := p; x != nil; x = x.Next {
		if x.Field == nil && x.Index == nil {
			continue
		}
		res = append(res, x)
	}
	return res
}

func parseFrag(frag string, parent *Path) error {
	if len(frag) == 0 {
		return nil
	}
	switch frag[0] {
	case '.':
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		if len(rest) == 0 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(rest, next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		u64, err := strconv.ParseUint(frag[1:i+1], 10, 32)
		if err != nil {
			return err
		}
		index := int(u64)
		parent.Index = &index
		if len(frag) == i+2 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(frag[i+2:], next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	default:
		return fmt.Errorf("expected '.' or '['")
	}
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		if i == 0 {
			return "", "", fmt.Errorf("empty field")
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			if escaped {
				res = append(res, c)
				escaped = false
				continue
			}
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			if escaped && c != '\'' {
				res = append(res, '\\')
			}
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// GetPath returns the node addressed by yPath, or nil if no member or
// element matches.
func (y *Node) GetPath(yPath string) (*Node, error) {
	yp, err := ParsePath(yPath)
	if err != nil {
		return nil, err
	}
	res := y
	for _, seg := range yp.Segments() {
		if seg.Index != nil {
			if res.Type != ArrayType {
				return nil, fmt.Errorf("expected array, got %s", res.Type)
			}
			index := *seg.Index
			if index >= len(res.Values) {
				return nil, nil
			}
			res = res.Values[index]
			continue
		}
		if res.Type != ObjectType {
			return nil, fmt.Errorf("expected object got %s", res.Type)
		}
		res = Get(res, *seg.Field)
		if res == nil {
			return nil, nil
		}
	}
	return res, nil
}
