package tree

import (
	"errors"
	"fmt"
)

var (
	ErrStructuralLimit = errors.New("structural limit exceeded")
	ErrIndexOutOfRange = errors.New("node index out of range")
	ErrPathNotFound    = errors.New("path not found")
	ErrNilValue        = errors.New("nil value")
)

// StructuralLimitError reports a document exceeding a depth or node count
// ceiling.
type StructuralLimitError struct {
	// Limit is "depth" or "nodes".
	Limit string
	Max   int
}

func (e *StructuralLimitError) Error() string {
	return fmt.Sprintf("%s: %s exceeds %d", ErrStructuralLimit, e.Limit, e.Max)
}

func (e *StructuralLimitError) Is(err error) bool {
	return err == ErrStructuralLimit
}
