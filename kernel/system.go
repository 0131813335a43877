package kernel

import (
	"sync/atomic"
	"time"
)

// System is the timebase shared by the tasks. It also records their
// panics.
type System struct {
	boot  time.Time
	ticks atomic.Uint64
	panics panicState
}

// NewSystem creates a timebase starting now.
func NewSystem() *System {
	return &System{boot: time.Now()}
}

// StartTick starts a 1ms ticker that increments the tick counter and then
// calls fn. fn runs on the ticker goroutine and must not block. The
// returned function stops the ticker.
func (s *System) StartTick(fn func()) (stop func()) {
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(1 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.ticks.Add(1)
				if fn != nil {
					fn()
				}
			case <-done:
				return
			}
		}
	}()
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			close(done)
		}
	}
}

// Ticks returns the current tick count (1ms per tick).
func (s *System) Ticks() uint64 {
	return s.ticks.Load()
}

// Millis returns milliseconds since boot. It wraps after ~49 days.
func (s *System) Millis() uint32 {
	return uint32(time.Since(s.boot) / time.Millisecond)
}
