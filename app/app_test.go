//go:build !tinygo

package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"tftdeck/gui"
	"tftdeck/hal"
	"tftdeck/kernel"
	"tftdeck/st7796"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

type rig struct {
	sys   *System
	host  *hal.Host
	log   *syncBuffer
	clock atomic.Uint32
	exits []int
}

func newRig(t *testing.T, o st7796.Orientation) *rig {
	t.Helper()
	r := &rig{log: &syncBuffer{}}
	r.host = hal.NewHost(hal.HostConfig{Log: r.log, Exit: func(code int) { r.exits = append(r.exits, code) }})

	cfg := DefaultConfig()
	cfg.Orientation = o
	cfg.Millis = r.clock.Load
	sys, err := New(r.host, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.sys = sys
	r.sys.render()
	return r
}

// tap presses and releases at raw touch coordinates, one sampling and one
// render pass per phase.
func (r *rig) tap(x, y uint16) {
	ts := r.host.TouchSim()
	ts.Touch(x, y)
	r.sys.sample()
	r.sys.render()
	ts.Release()
	r.sys.sample()
	r.sys.render()
}

func (r *rig) active() *gui.Screen {
	var s *gui.Screen
	r.sys.With(func(rt *gui.Runtime) { s = rt.Active() })
	return s
}

func TestBoot(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	st := r.host.PanelSim().State()
	c.Assert(st.Awake, qt.IsTrue)
	c.Assert(st.On, qt.IsTrue)
	c.Assert(st.MADCTL, qt.Equals, byte(0x48))
	c.Assert(r.sys.touch.Ready(), qt.IsTrue)

	log := r.log.String()
	c.Assert(strings.Contains(log, "app: touch GT911 addr=0x5d res=320x480"), qt.IsTrue, qt.Commentf("%s", log))
	c.Assert(strings.Contains(log, "kernel:"), qt.IsFalse)

	// Home screen's demo button, away from its caption.
	c.Assert(r.host.PanelSim().Pixel(62, 212), qt.Equals, uint16(0x24BE))
	c.Assert(r.active(), qt.Equals, r.sys.ui.home)
}

func TestNavigation(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	ts := r.host.TouchSim()
	ts.Touch(100, 215)
	r.sys.sample()
	r.sys.render()
	c.Assert(r.host.PanelSim().Pixel(62, 212), qt.Equals, uint16(0x0A34))
	ts.Release()
	r.sys.sample()
	r.sys.render()
	c.Assert(r.active(), qt.Equals, r.sys.ui.hw)

	r.tap(235, 8)
	c.Assert(r.active(), qt.Equals, r.sys.ui.home)
}

func TestLandscapeTouch(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Landscape)

	c.Assert(r.host.PanelSim().State().MADCTL, qt.Equals, byte(0x28))
	var w, h int16
	r.sys.With(func(rt *gui.Runtime) { w, h = rt.Display().Size() })
	c.Assert([]int16{w, h}, qt.DeepEquals, []int16{480, 320})

	// Screen point (150, 135) is on the demo button. The image is turned
	// 90 degrees clockwise, so the controller reports (319-135, 150).
	r.tap(184, 150)
	c.Assert(r.active(), qt.Equals, r.sys.ui.hw)
}

func TestTouchEveryOrientation(t *testing.T) {
	for o := st7796.Portrait; o <= st7796.LandscapeInverted; o++ {
		t.Run(o.String(), func(t *testing.T) {
			c := qt.New(t)
			r := newRig(t, o)

			var w, h int16
			r.sys.With(func(rt *gui.Runtime) { w, h = rt.Display().Size() })
			b := r.sys.ui.demo.Bounds()
			c.Assert(b.X2 < w && b.Y2 < h, qt.IsTrue)

			// Near the demo button's top-left corner, away from its
			// centre, so a mirrored mapping misses it.
			c.Assert(r.host.TouchScreen(int(b.X1)+4, int(b.Y1)+4), qt.IsTrue)
			r.sys.sample()
			r.sys.render()
			c.Assert(r.sys.ui.demo.IsPressed(), qt.IsTrue)
			r.host.TouchSim().Release()
			r.sys.sample()
			r.sys.render()
			c.Assert(r.active(), qt.Equals, r.sys.ui.hw)
		})
	}
}

func TestButtonsToggleLEDs(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	r.clock.Store(1000)
	r.host.PressButton(0)
	c.Assert(r.host.LEDLevel(0), qt.IsTrue)
	c.Assert(r.sys.ui.leds[0].On(), qt.IsFalse)
	r.sys.sample()
	c.Assert(r.sys.ui.leds[0].On(), qt.IsTrue)

	// Bounce inside the window is dropped.
	r.clock.Store(1020)
	r.host.PressButton(0)
	r.sys.sample()
	c.Assert(r.host.LEDLevel(0), qt.IsTrue)
	c.Assert(r.sys.ui.leds[0].On(), qt.IsTrue)

	r.clock.Store(1100)
	r.host.PressButton(0)
	r.host.PressButton(1)
	r.sys.sample()
	c.Assert(r.host.LEDLevel(0), qt.IsFalse)
	c.Assert(r.sys.ui.leds[0].On(), qt.IsFalse)
	c.Assert(r.host.LEDLevel(1), qt.IsTrue)
	c.Assert(r.sys.ui.leds[1].On(), qt.IsTrue)
	c.Assert(strings.Contains(r.log.String(), "gpio: GP17 HIGH"), qt.IsTrue)
}

func TestJoystickOffset(t *testing.T) {
	tests := []struct {
		x, y   uint16
		dx, dy int16
	}{
		{0, 0, 0, 88},
		{4095, 4095, 88, 0},
		{2047, 2047, 43, 45},
		{4095, 0, 88, 88},
	}
	for _, tt := range tests {
		dx, dy := joystickOffset(tt.x, tt.y)
		if dx != tt.dx || dy != tt.dy {
			t.Fatalf("joystickOffset(%d, %d) = %d,%d, want %d,%d", tt.x, tt.y, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestJoystickSampledEvery20thPass(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)
	r.tap(100, 215)
	c.Assert(r.active(), qt.Equals, r.sys.ui.hw)
	r.sys.passes = 0

	r.host.SetJoystick(4095, 0)
	for i := 0; i < 19; i++ {
		r.sys.sample()
	}
	x, y := r.sys.ui.ball.Center()
	c.Assert([]int16{x, y}, qt.DeepEquals, []int16{10 + 6 + 43, 110 + 6 + 45})

	r.sys.sample()
	x, y = r.sys.ui.ball.Center()
	c.Assert([]int16{x, y}, qt.DeepEquals, []int16{10 + 6 + 88, 110 + 6 + 88})
	c.Assert(r.sys.ui.joyVal.Text(), qt.Equals, "X:4095 Y:   0")
}

func TestJoystickIdleUntilDemoOpens(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	r.host.SetJoystick(4095, 0)
	for i := 0; i < 40; i++ {
		r.sys.sample()
	}
	x, y := r.sys.ui.ball.Center()
	c.Assert([]int16{x, y}, qt.DeepEquals, []int16{10 + 6 + 43, 110 + 6 + 45})

	// Leaving the demo screen does not stop sampling.
	r.tap(100, 215)
	r.tap(270, 20)
	c.Assert(r.active(), qt.Equals, r.sys.ui.home)
	for i := 0; i < 20; i++ {
		r.sys.sample()
	}
	x, y = r.sys.ui.ball.Center()
	c.Assert([]int16{x, y}, qt.DeepEquals, []int16{10 + 6 + 88, 110 + 6 + 88})
}

func TestResetReboots(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	r.tap(100, 215)
	c.Assert(r.active(), qt.Equals, r.sys.ui.hw)
	r.tap(20, 240)
	c.Assert(r.exits, qt.HasLen, 0)

	c.Assert(r.host.PanelSim().State().On, qt.IsTrue)

	r.sys.sample()
	c.Assert(r.exits, qt.DeepEquals, []int{3})
	c.Assert(strings.Contains(r.log.String(), "watchdog: reboot requested"), qt.IsTrue)
	st := r.host.PanelSim().State()
	c.Assert(st.On, qt.IsFalse)
	c.Assert(st.Awake, qt.IsFalse)

	r.sys.sample()
	c.Assert(r.exits, qt.HasLen, 1)
}

func TestBeepToggles(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	r.tap(100, 215)
	r.tap(180, 240)
	c.Assert(r.host.BuzzerLevel(), qt.IsTrue)
	c.Assert(r.sys.ui.beep.Caption(), qt.Equals, "Beep: on")

	r.tap(180, 240)
	c.Assert(r.host.BuzzerLevel(), qt.IsFalse)
	c.Assert(r.sys.ui.beep.Caption(), qt.Equals, "Beep: off")
}

func TestTouchFaultKeepsRunning(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	r.host.TouchSim().Touch(100, 215)
	r.sys.sample()
	r.host.TouchSim().SetFault(errors.New("nack"))
	r.sys.sample()
	r.sys.render()

	c.Assert(r.sys.pointer.Failures(), qt.Equals, uint32(1))
	var p gui.PointerData
	r.sys.With(func(rt *gui.Runtime) { p = rt.LastPointer() })
	c.Assert(p, qt.Equals, gui.PointerData{X: 100, Y: 215, State: gui.Released})
	c.Assert(strings.Contains(r.log.String(), "port: touch read: "), qt.IsTrue)
}

func TestRunStops(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	c.Assert(r.sys.Run(ctx), qt.IsNil)

	var ticks uint32
	var handlers int
	r.sys.With(func(rt *gui.Runtime) {
		ticks = rt.Ticks()
		handlers, _, _ = rt.Stats()
	})
	c.Assert(ticks > 0, qt.IsTrue)
	c.Assert(handlers > 1, qt.IsTrue)

	log := r.log.String()
	c.Assert(strings.Contains(log, "kernel: start task=render period=5ms core=1 prio=2"), qt.IsTrue, qt.Commentf("%s", log))
	c.Assert(strings.Contains(log, "kernel: start task=sample period=10ms core=0 prio=1"), qt.IsTrue)
}

func TestPanicScreen(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	err := r.sys.Kernel().Run(context.Background(), kernel.Task{
		Name:   "boom",
		Period: time.Millisecond,
		Step:   func() { panic("boom") },
	})
	c.Assert(err, qt.ErrorIs, kernel.ErrPanicked)
	c.Assert(r.sys.Kernel().InPanicMode(), qt.IsTrue)
	c.Assert(r.sys.Display().Enabled(), qt.IsFalse)
	c.Assert(strings.Contains(r.log.String(), "panic: task=boom value=boom"), qt.IsTrue)
	c.Assert(r.host.PanelSim().Pixel(319, 0), qt.Equals, uint16(0xFFFF))

	// The render task keeps running without touching the panel.
	before := r.host.PanelSim().State().Commands
	r.sys.With(func(rt *gui.Runtime) { rt.InvalidateAll() })
	r.sys.render()
	c.Assert(r.host.PanelSim().State().Commands, qt.Equals, before)
}

func TestTakeRunes(t *testing.T) {
	tests := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"hello", 10, "hello", ""},
		{"hello", 2, "he", "llo"},
		{"héllo", 2, "hé", "llo"},
		{"", 3, "", ""},
	}
	for _, tt := range tests {
		head, tail := takeRunes(tt.s, tt.n)
		if head != tt.head || tail != tt.tail {
			t.Fatalf("takeRunes(%q, %d) = %q,%q, want %q,%q", tt.s, tt.n, head, tail, tt.head, tt.tail)
		}
	}
}

func TestDriversEndToEnd(t *testing.T) {
	c := qt.New(t)
	r := newRig(t, st7796.Portrait)

	info := r.sys.touch.Info()
	c.Assert([]uint16{info.MaxX, info.MaxY}, qt.DeepEquals, []uint16{320, 480})

	ps := r.host.PanelSim()
	r.sys.panel.SetOrientation(st7796.Landscape)
	c.Assert(ps.State().MADCTL, qt.Equals, byte(0x28))

	px := make([]byte, 200)
	for i := range px {
		px[i] = 0xAB
	}
	r.sys.panel.SetWindow(0, 0, 9, 9)
	r.sys.panel.WriteColor(px)
	c.Assert(ps.Pixel(0, 0), qt.Equals, uint16(0xABAB))
	c.Assert(ps.Pixel(9, 9), qt.Equals, uint16(0xABAB))
	// Landscape turns the image clockwise: its top-left corner is the
	// glass's top-right.
	c.Assert(ps.Glass(319, 0), qt.Equals, uint16(0xABAB))
	c.Assert(ps.Glass(310, 9), qt.Equals, uint16(0xABAB))
	c.Assert(ps.Pixel(10, 0) == 0xABAB, qt.IsFalse)
	c.Assert(ps.Pixel(0, 10) == 0xABAB, qt.IsFalse)

	ts := r.host.TouchSim()
	var got []string
	for _, step := range []func(){
		func() { ts.Touch(10, 20) },
		func() { ts.Release() },
		func() { ts.Touch(15, 25) },
	} {
		step()
		s, err := r.sys.touch.ReadTouch()
		c.Assert(err, qt.IsNil)
		got = append(got, fmt.Sprintf("%d,%d,%v", s.X, s.Y, s.Pressed))
	}
	c.Assert(got, qt.DeepEquals, []string{"10,20,true", "10,20,false", "15,25,true"})
}
