//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	// Tap makes the simulated finger touch the panel centre on every
	// Hz-th tick, so the touch path is exercised without a window.
	Tap bool
}

// RunHeadless runs the firmware against the simulated board without opening
// a window. The joystick follows triangle waves.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := NewHost(HostConfig{SignalJoystick: true})
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if cfg.Tap {
				switch tick % uint64(cfg.Hz) {
				case 0:
					w, ht := h.panel.Size()
					h.TouchScreen(w/2, ht/2)
				case 1:
					h.touch.Release()
				}
			}
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
