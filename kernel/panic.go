package kernel

import (
	"sync"
	"sync/atomic"
)

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	Task  string
	Value any
	Stack []byte
}

// panicState records the first task panic seen by a System.
type panicState struct {
	active  atomic.Bool
	mu      sync.Mutex
	handler func(PanicInfo)
}

// InPanicMode reports whether one of the system's tasks has panicked.
func (s *System) InPanicMode() bool {
	return s.panics.active.Load()
}

// OnPanic installs the handler called for the first task panic. It must not
// panic.
func (s *System) OnPanic(fn func(PanicInfo)) {
	s.panics.mu.Lock()
	s.panics.handler = fn
	s.panics.mu.Unlock()
}

func (s *System) triggerPanic(info PanicInfo) {
	if !s.panics.active.CompareAndSwap(false, true) {
		return
	}
	if info.Stack == nil {
		info.Stack = captureStack()
	}
	s.panics.mu.Lock()
	fn := s.panics.handler
	s.panics.mu.Unlock()
	if fn != nil {
		fn(info)
	}
}
