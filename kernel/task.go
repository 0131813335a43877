package kernel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tftdeck/hal"
)

// ErrPanicked is returned by Run when the task's step panicked.
var ErrPanicked = errors.New("kernel: task panicked")

// Task is a periodic unit of work.
//
// Affinity and Priority describe where the task is meant to run. Goroutines
// are not pinned, so both are advisory and only logged.
type Task struct {
	Name     string
	Period   time.Duration
	Affinity int
	Priority int
	Step     func()
	Log      hal.Logger
}

// Run calls t.Step every t.Period until ctx is done. A step that overruns
// its period is followed immediately by the next one.
//
// A panicking step is recovered and reported to the handler set with
// OnPanic; Run then returns ErrPanicked.
func (s *System) Run(ctx context.Context, t Task) error {
	if t.Step == nil {
		return fmt.Errorf("kernel: task %s: nil step", t.Name)
	}
	hal.Logf(t.Log, "kernel: start task=%s period=%s core=%d prio=%d", t.Name, t.Period, t.Affinity, t.Priority)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		start := time.Now()
		if !s.step(t) {
			hal.Logf(t.Log, "kernel: task=%s parked after panic", t.Name)
			return fmt.Errorf("%w: %s", ErrPanicked, t.Name)
		}

		rest := t.Period - time.Since(start)
		if rest <= 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			continue
		}
		timer.Reset(rest)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *System) step(t Task) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			s.triggerPanic(PanicInfo{Task: t.Name, Value: r, Stack: captureStack()})
		}
	}()
	t.Step()
	return true
}
