package client

import (
	"context"
	"sync"
)

// OnceLoader runs a load function until it first succeeds and then serves
// the cached value. Concurrent callers share one in-flight load; failures
// are not cached.
type OnceLoader[T any] struct {
	load func(ctx context.Context) (T, error)

	lock       sync.Mutex
	loaded     bool
	value      T
	inflight   *loadCall[T]
	generation int
}

type loadCall[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func NewOnceLoader[T any](load func(ctx context.Context) (T, error)) *OnceLoader[T] {
	return &OnceLoader[T]{load: load}
}

func (l *OnceLoader[T]) LoadOnce(ctx context.Context) (T, error) {
	l.lock.Lock()
	if l.loaded {
		value := l.value
		l.lock.Unlock()
		return value, nil
	}
	if call := l.inflight; call != nil {
		l.lock.Unlock()
		select {
		case <-call.done:
			return call.value, call.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}

	call := &loadCall[T]{done: make(chan struct{})}
	l.inflight = call
	generation := l.generation
	l.lock.Unlock()

	call.value, call.err = l.load(ctx)

	l.lock.Lock()
	l.inflight = nil
	// a Reset during the load means the result belongs to an old session
	if call.err == nil && generation == l.generation {
		l.loaded = true
		l.value = call.value
	}
	close(call.done)
	l.lock.Unlock()

	return call.value, call.err
}

// Loaded reports whether a value is cached.
func (l *OnceLoader[T]) Loaded() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.loaded
}

// Reset drops the cached value so the next LoadOnce loads again.
func (l *OnceLoader[T]) Reset() {
	l.lock.Lock()
	defer l.lock.Unlock()
	var zero T
	l.loaded = false
	l.value = zero
	l.generation++
}
