// Package debounce filters mechanical button edges.
//
// Filters run in interrupt context: they only touch their own atomics, an
// indicator pin and a non-blocking notify hook.
package debounce

import (
	"fmt"
	"sync/atomic"
	"time"

	"tftdeck/hal"
)

// DefaultWindow is the minimum spacing between accepted edges.
const DefaultWindow = 50 * time.Millisecond

// Filter debounces one pin. Each accepted edge toggles a logical on/off
// state.
type Filter struct {
	window    uint32
	indicator hal.LED
	notify    func(on bool)

	last  atomic.Uint32
	state atomic.Bool
}

// NewFilter returns a filter that accepts edges more than window apart.
// indicator and notify may be nil. notify must not block.
func NewFilter(window time.Duration, indicator hal.LED, notify func(on bool)) *Filter {
	return &Filter{
		window:    uint32(window / time.Millisecond),
		indicator: indicator,
		notify:    notify,
	}
}

// Edge handles a trigger at now (milliseconds, free-running and wrapping).
// It reports whether the edge was accepted. Triggers inside the window are
// dropped.
func (f *Filter) Edge(now uint32) bool {
	for {
		last := f.last.Load()
		if now-last <= f.window {
			return false
		}
		if f.last.CompareAndSwap(last, now) {
			break
		}
	}

	var on bool
	for {
		prev := f.state.Load()
		if f.state.CompareAndSwap(prev, !prev) {
			on = !prev
			break
		}
	}

	if f.indicator != nil {
		if on {
			f.indicator.High()
		} else {
			f.indicator.Low()
		}
	}
	if f.notify != nil {
		f.notify(on)
	}
	return true
}

// On returns the logical state.
func (f *Filter) On() bool { return f.state.Load() }

// Unit wires filters to interrupt pins.
type Unit struct {
	window  time.Duration
	millis  func() uint32
	filters []*Filter
}

// NewUnit returns a unit reading time from millis. A zero window selects
// DefaultWindow.
func NewUnit(millis func() uint32, window time.Duration) *Unit {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Unit{window: window, millis: millis}
}

// Watch installs a rising-edge handler on pin.
func (u *Unit) Watch(pin hal.InterruptPin, indicator hal.LED, notify func(on bool)) (*Filter, error) {
	f := NewFilter(u.window, indicator, notify)
	err := pin.SetInterrupt(hal.EdgeRising, func() {
		f.Edge(u.millis())
	})
	if err != nil {
		return nil, fmt.Errorf("debounce: %s: %w", pin.Name(), err)
	}
	u.filters = append(u.filters, f)
	return f, nil
}

// Filters returns the installed filters in Watch order.
func (u *Unit) Filters() []*Filter { return u.filters }
