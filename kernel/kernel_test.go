package kernel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSharedWithReleasesOnPanic(t *testing.T) {
	s := NewShared(new(int))

	func() {
		defer func() { _ = recover() }()
		s.With(func(p *int) {
			*p = 1
			panic("boom")
		})
	}()

	done := make(chan int)
	go s.With(func(p *int) { done <- *p })
	select {
	case v := <-done:
		if v != 1 {
			t.Fatalf("With() value = %d, want 1", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("With() still locked after panic")
	}
}

func TestSharedExclusive(t *testing.T) {
	s := NewShared(new(int))
	var inside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.With(func(p *int) {
					if inside.Add(1) != 1 {
						t.Errorf("two holders inside With")
					}
					*p++
					inside.Add(-1)
				})
			}
		}()
	}
	wg.Wait()
	s.With(func(p *int) {
		if *p != 8000 {
			t.Fatalf("counter = %d, want 8000", *p)
		}
	})
}

func TestStartTick(t *testing.T) {
	sys := NewSystem()
	var calls atomic.Uint64
	stop := sys.StartTick(func() { calls.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for sys.Ticks() < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("Ticks() = %d after 2s", sys.Ticks())
		}
		time.Sleep(time.Millisecond)
	}
	stop()
	stop()

	time.Sleep(10 * time.Millisecond)
	n := sys.Ticks()
	time.Sleep(20 * time.Millisecond)
	if sys.Ticks() != n {
		t.Fatalf("Ticks() advanced after stop")
	}
	if calls.Load() != n {
		t.Fatalf("tick callback calls = %d, want %d", calls.Load(), n)
	}
}

func TestRunPeriodic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	err := NewSystem().Run(ctx, Task{
		Name:   "sample",
		Period: time.Millisecond,
		Step: func() {
			if n.Add(1) == 5 {
				cancel()
			}
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}
	if n.Load() != 5 {
		t.Fatalf("Run() steps = %d, want 5", n.Load())
	}
}

func TestRunNilStep(t *testing.T) {
	if err := NewSystem().Run(context.Background(), Task{Name: "x"}); err == nil {
		t.Fatalf("Run() error = nil, want error")
	}
}

func TestRunRecoversPanic(t *testing.T) {
	sys := NewSystem()
	var got PanicInfo
	sys.OnPanic(func(info PanicInfo) { got = info })

	err := sys.Run(context.Background(), Task{
		Name:   "render",
		Period: time.Millisecond,
		Step:   func() { panic("flush failed") },
	})
	if !errors.Is(err, ErrPanicked) {
		t.Fatalf("Run() error = %v, want %v", err, ErrPanicked)
	}
	if !sys.InPanicMode() {
		t.Fatalf("InPanicMode() = false, want true")
	}
	if got.Task != "render" || got.Value != "flush failed" {
		t.Fatalf("panic info = %+v", got)
	}
	if len(got.Stack) == 0 {
		t.Fatalf("panic info has no stack")
	}
}

func TestPanicReportedOncePerSystem(t *testing.T) {
	sys := NewSystem()
	var calls atomic.Int32
	sys.OnPanic(func(PanicInfo) { calls.Add(1) })

	boom := Task{Name: "boom", Period: time.Millisecond, Step: func() { panic("boom") }}
	for range 2 {
		if err := sys.Run(context.Background(), boom); !errors.Is(err, ErrPanicked) {
			t.Fatalf("Run() error = %v, want %v", err, ErrPanicked)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("panic handler calls = %d, want 1", n)
	}

	other := NewSystem()
	if other.InPanicMode() {
		t.Fatalf("fresh System InPanicMode() = true")
	}
	var otherCalls atomic.Int32
	other.OnPanic(func(PanicInfo) { otherCalls.Add(1) })
	if err := other.Run(context.Background(), boom); !errors.Is(err, ErrPanicked) {
		t.Fatalf("Run() error = %v, want %v", err, ErrPanicked)
	}
	if otherCalls.Load() != 1 {
		t.Fatalf("second System handler calls = %d, want 1", otherCalls.Load())
	}
}
