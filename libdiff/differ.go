package libdiff

import (
	"context"

	"github.com/signadot/unfold/task"
	"github.com/signadot/unfold/tree"
)

// Differ runs comparisons where each new one cancels the comparison in
// flight and discards its result.
type Differ struct {
	latest task.Latest[*Result]
	opts   []CompareOption
}

func NewDiffer(opts ...CompareOption) *Differ {
	return &Differ{opts: opts}
}

// Compare runs synchronously.  It returns task.ErrSuperseded if another
// comparison started before this one finished.
func (d *Differ) Compare(ctx context.Context, left, right *tree.Tree, mode Mode) (*Result, error) {
	return d.latest.Do(ctx, func(ctx context.Context) (*Result, error) {
		return Compare(ctx, left, right, mode, d.opts...)
	})
}

// Submit compares in the background and calls deliver with the outcome
// unless a newer comparison was started first.
func (d *Differ) Submit(ctx context.Context, left, right *tree.Tree, mode Mode, deliver func(*Result, error)) <-chan struct{} {
	return d.latest.Go(ctx, func(ctx context.Context) (*Result, error) {
		return Compare(ctx, left, right, mode, d.opts...)
	}, deliver)
}

func (d *Differ) Cancel() {
	d.latest.Cancel()
}
