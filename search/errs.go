package search

import (
	"errors"
	"fmt"
)

var ErrInvalidPattern = errors.New("invalid pattern")

// PatternError reports a pattern which could not be compiled.  No scan
// is started for such a pattern.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrInvalidPattern, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

func (e *PatternError) Is(err error) bool {
	return err == ErrInvalidPattern
}
