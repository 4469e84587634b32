package pipeline

import (
	"context"
	"sync"
)

// Future is a pending asynchronous value. Continuations registered with Then
// or Recover run as soon as the future settles, in the goroutine that settles
// it, or immediately in the caller when it has already settled. No goroutine
// is started except by Go. Nested futures flatten: a Future settled with
// another Future takes on that Future's outcome.
type Future struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	val     any
	err     error
	waiters []func(any, error)
}

func newFuture() *Future { return &Future{done: make(chan struct{})} }

// Go runs fn in a new goroutine and returns a Future for its outcome.
func Go(fn func() (any, error)) *Future {
	f := newFuture()
	go func() {
		f.resolve(protect(fn))
	}()
	return f
}

// Resolved returns a Future settled with v, or following v if it is a Future.
func Resolved(v any) *Future {
	f := newFuture()
	f.resolve(v, nil)
	return f
}

// Rejected returns a Future already settled with err.
func Rejected(err error) *Future {
	f := newFuture()
	f.settle(nil, err)
	return f
}

// Then returns a Future for fn applied to the resolved value of f. fn is not
// run if f fails; the failure passes through unchanged.
func Then(f *Future, fn func(any) (any, error)) *Future {
	next := newFuture()
	f.onSettle(func(v any, err error) {
		if err != nil {
			next.settle(nil, err)
			return
		}
		next.resolve(protect(func() (any, error) { return fn(v) }))
	})
	return next
}

// Recover returns a Future that settles like f, except that a failure of f
// is handed to fn and fn's outcome is used instead.
func Recover(f *Future, fn func(error) (any, error)) *Future {
	next := newFuture()
	f.onSettle(func(v any, err error) {
		if err == nil {
			next.settle(v, nil)
			return
		}
		next.resolve(protect(func() (any, error) { return fn(err) }))
	})
	return next
}

// Await blocks until f settles or ctx is done. A done ctx only abandons the
// wait; it does not stop the computation behind f.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks until f settles.
func (f *Future) Wait() (any, error) { return f.Await(context.Background()) }

// Done reports whether f has settled.
func (f *Future) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// onSettle runs cb with the outcome of f, now if f has settled and otherwise
// from the goroutine that settles it.
func (f *Future) onSettle(cb func(any, error)) {
	f.mu.Lock()
	if !f.settled {
		f.waiters = append(f.waiters, cb)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	cb(f.val, f.err)
}

// resolve settles f with v, or adopts the outcome of v when it is a Future.
func (f *Future) resolve(v any, err error) {
	if inner, ok := v.(*Future); ok && err == nil && inner != f {
		inner.onSettle(f.settle)
		return
	}
	f.settle(v, err)
}

func (f *Future) settle(v any, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.val, f.err, f.settled = v, err, true
	waiters := f.waiters
	f.waiters = nil
	close(f.done)
	f.mu.Unlock()
	for _, cb := range waiters {
		cb(v, err)
	}
}

func protect(fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, newPipeError(ErrStepExecution, "", 0, -1, panicError{r})
		}
	}()
	return fn()
}
