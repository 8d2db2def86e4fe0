// Package task runs cancellable background work where each new request
// supersedes the one before it.
package task

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for work whose result was discarded because a
// newer request started.
var ErrSuperseded = errors.New("superseded by a newer request")

// Latest runs one piece of work at a time in the sense that starting new
// work cancels the context of the previous one and guarantees its result
// is never delivered.  The zero value is ready to use.
type Latest[T any] struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func (l *Latest[T]) start(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.gen++
	return ctx, l.gen
}

// Do runs f synchronously.  If a later call to Do, Go or Cancel happens
// before f returns, Do returns ErrSuperseded instead of f's result.
func (l *Latest[T]) Do(ctx context.Context, f func(context.Context) (T, error)) (T, error) {
	ctx, gen := l.start(ctx)
	res, err := f(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		var zero T
		return zero, ErrSuperseded
	}
	l.cancel()
	l.cancel = nil
	return res, err
}

// Go runs f on a new goroutine and calls deliver with its result unless
// newer work started in the meantime.  deliver runs with l locked, so it
// must not call back into l.  The returned channel is closed once f has
// returned and deliver, if called, is done.
func (l *Latest[T]) Go(ctx context.Context, f func(context.Context) (T, error), deliver func(T, error)) <-chan struct{} {
	ctx, gen := l.start(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := f(ctx)
		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			return
		}
		l.cancel()
		l.cancel = nil
		deliver(res, err)
	}()
	return done
}

// Cancel cancels the current work, if any, and discards its result.
func (l *Latest[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}
