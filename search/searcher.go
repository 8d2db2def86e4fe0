package search

import (
	"context"

	"github.com/signadot/unfold/task"
	"github.com/signadot/unfold/tree"
)

// Searcher runs searches where each new one cancels the search in flight
// and discards its results.
type Searcher struct {
	latest task.Latest[[]Result]
	opts   []SearchOption
}

func NewSearcher(opts ...SearchOption) *Searcher {
	return &Searcher{opts: opts}
}

// Search runs q synchronously.  It returns task.ErrSuperseded if another
// search started before this one finished.
func (s *Searcher) Search(ctx context.Context, t *tree.Tree, q Query) ([]Result, error) {
	return s.latest.Do(ctx, func(ctx context.Context) ([]Result, error) {
		return Search(ctx, t, q, s.opts...)
	})
}

// Submit runs q in the background and calls deliver with the outcome
// unless a newer search was started first.
func (s *Searcher) Submit(ctx context.Context, t *tree.Tree, q Query, deliver func([]Result, error)) <-chan struct{} {
	return s.latest.Go(ctx, func(ctx context.Context) ([]Result, error) {
		return Search(ctx, t, q, s.opts...)
	}, deliver)
}

func (s *Searcher) Cancel() {
	s.latest.Cancel()
}
