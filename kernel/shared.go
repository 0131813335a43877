package kernel

import "sync"

// Shared owns a value that several execution contexts use. The value is
// only reachable through With, which holds the lock for the duration of fn.
//
// fn must not do bus I/O or block; the render loop waits on the same lock.
type Shared[T any] struct {
	mu sync.Mutex
	v  T
}

// NewShared wraps v.
func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{v: v}
}

// With runs fn with exclusive access to the value. The lock is released
// even if fn panics.
func (s *Shared[T]) With(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.v)
}
