package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse = errors.New("parse error")
	ErrDepth = fmt.Errorf("%w: nesting too deep", ErrParse)
)

// SyntaxError locates a parse failure in the source text.  Line and Column
// are 1-based; Column counts bytes.  Context is the text of the offending
// line.
type SyntaxError struct {
	Msg     string
	Offset  int64
	Line    int
	Column  int
	Context string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d column %d", e.Msg, e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrParse
}
