// Package app composes the firmware: it brings up the panel and the touch
// controller, builds the GUI, wires the buttons and joystick, and runs the
// render and sampling tasks.
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"tftdeck/debounce"
	"tftdeck/gt911"
	"tftdeck/gui"
	"tftdeck/hal"
	"tftdeck/internal/buildinfo"
	"tftdeck/kernel"
	"tftdeck/port"
	"tftdeck/st7796"

	"golang.org/x/sync/errgroup"
)

// Config holds the runtime knobs.
type Config struct {
	Orientation st7796.Orientation

	RenderPeriod time.Duration
	SamplePeriod time.Duration
	// ADCEvery is the number of sampling passes between joystick reads.
	ADCEvery int
	// Debounce is the button debounce window.
	Debounce    time.Duration
	BufferLines int16
	// BootConsole mirrors boot log lines to the panel.
	BootConsole bool

	// Millis overrides the debounce clock. Nil uses the system clock.
	Millis func() uint32
}

// DefaultConfig returns the board defaults.
func DefaultConfig() Config {
	return Config{
		Orientation:  st7796.Portrait,
		RenderPeriod: 5 * time.Millisecond,
		SamplePeriod: 10 * time.Millisecond,
		ADCEvery:     20,
		Debounce:     debounce.DefaultWindow,
		BufferLines:  st7796.Height / 10,
		BootConsole:  true,
	}
}

func (c *Config) fill() {
	d := DefaultConfig()
	if c.RenderPeriod <= 0 {
		c.RenderPeriod = d.RenderPeriod
	}
	if c.SamplePeriod <= 0 {
		c.SamplePeriod = d.SamplePeriod
	}
	if c.ADCEvery <= 0 {
		c.ADCEvery = d.ADCEvery
	}
	if c.Debounce <= 0 {
		c.Debounce = d.Debounce
	}
	if c.BufferLines <= 0 {
		c.BufferLines = d.BufferLines
	}
}

type buttonEvent struct {
	index int
	on    bool
}

// System is the running firmware.
type System struct {
	hal hal.HAL
	cfg Config
	log hal.Logger
	sys *kernel.System

	panel   *st7796.Device
	touch   *gt911.Device
	display *port.Display
	pointer *port.Pointer
	buttons *debounce.Unit

	shared *kernel.Shared[*gui.Runtime]
	tick   func(ms uint32)
	ui     *screens

	events kernel.Mailbox[buttonEvent]
	reboot atomic.Bool
	// adcOn latches once the hardware demo screen has been opened; the
	// joystick is not sampled before that.
	adcOn atomic.Bool

	// Sampling task state.
	passes   int
	joyFails int
}

// New brings up the board and builds the GUI. Touch or button failures are
// logged and the system runs without them.
func New(h hal.HAL, cfg Config) (*System, error) {
	cfg.fill()
	s := &System{
		hal: h,
		cfg: cfg,
		log: h.Logger(),
		sys: kernel.NewSystem(),
	}
	millis := cfg.Millis
	if millis == nil {
		millis = s.sys.Millis
	}

	p := h.Panel()
	if p.SPI == nil {
		return nil, errors.New("app: board has no panel")
	}
	s.panel = st7796.New(p.SPI, p.CS, p.DC, p.RST)
	s.panel.Configure()
	s.panel.SetOrientation(cfg.Orientation)
	if err := s.panel.Panel().Err(); err != nil {
		hal.Logf(s.log, "app: panel init: %v", err)
		s.panel.Panel().ClearErr()
	}

	log := s.log
	if cfg.BootConsole {
		log = newConsole(s.panel, s.log)
	}
	hal.Logf(log, "tftdeck %s", buildinfo.Short())
	hal.Logf(log, "app: panel st7796 %s", cfg.Orientation)

	s.touch = gt911.New(h.Touch())
	tf := port.TransformFor(cfg.Orientation, st7796.Width, st7796.Height)
	if err := s.touch.Configure(); err != nil {
		hal.Logf(log, "app: touch: %v", err)
	} else {
		info := s.touch.Info()
		hal.Logf(log, "app: touch GT%s addr=%#02x res=%dx%d", info.Product(), info.Address, info.MaxX, info.MaxY)
		tf = port.TransformFor(cfg.Orientation, int16(info.MaxX), int16(info.MaxY))
	}

	w, ht := s.panel.Size()
	rt := gui.New(gui.Config{Width: w, Height: ht, BufferLines: cfg.BufferLines, Log: s.log})
	s.display = port.NewDisplay(s.panel, s.log)
	s.display.Attach(rt)
	s.pointer = port.NewPointer(s.touch, tf, s.log)
	s.pointer.Attach(rt)
	s.tick = rt.TickInc

	s.ui = newScreens(rt, s)
	s.shared = kernel.NewShared(rt)

	s.buttons = debounce.NewUnit(millis, cfg.Debounce)
	leds := h.LEDs()
	for i, pin := range h.Buttons() {
		var led hal.LED
		if i < len(leds) {
			led = leds[i]
		}
		_, err := s.buttons.Watch(pin, led, func(on bool) {
			s.events.TrySend(buttonEvent{index: i, on: on})
		})
		if err != nil {
			hal.Logf(log, "app: button %d: %v", i, err)
		}
	}

	s.installPanicHandler()
	hal.Logf(log, "app: gui %dx%d buffer=%d lines", w, ht, cfg.BufferLines)
	return s, nil
}

// Tasks returns the render and sampling tasks.
func (s *System) Tasks() []kernel.Task {
	return []kernel.Task{
		{Name: "render", Period: s.cfg.RenderPeriod, Affinity: 1, Priority: 2, Step: s.render, Log: s.log},
		{Name: "sample", Period: s.cfg.SamplePeriod, Affinity: 0, Priority: 1, Step: s.sample, Log: s.log},
	}
}

// Run starts the tick source and both tasks and blocks until ctx is done.
// A task that panics is parked; the other keeps running.
func (s *System) Run(ctx context.Context) error {
	stop := s.sys.StartTick(func() { s.tick(1) })
	defer stop()

	var g errgroup.Group
	for _, t := range s.Tasks() {
		g.Go(func() error {
			err := s.sys.Run(ctx, t)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// With runs fn while holding the GUI lock.
func (s *System) With(fn func(rt *gui.Runtime)) { s.shared.With(fn) }

// Kernel returns the task runner and timebase.
func (s *System) Kernel() *kernel.System { return s.sys }

// Display returns the panel flush port.
func (s *System) Display() *port.Display { return s.display }

func (s *System) render() {
	s.shared.With(func(rt *gui.Runtime) { rt.Handler() })
}

// sample polls the inputs outside the lock, then publishes the results
// under it.
func (s *System) sample() {
	s.passes++
	analog := s.passes%s.cfg.ADCEvery == 0

	if analog && !s.touch.Ready() {
		if err := s.touch.Configure(); err == nil {
			info := s.touch.Info()
			s.pointer.SetTransform(port.TransformFor(s.cfg.Orientation, int16(info.MaxX), int16(info.MaxY)))
			hal.Logf(s.log, "app: touch GT%s online", info.Product())
		}
	}
	p := s.pointer.Poll()

	var x, y uint16
	var joy bool
	if analog && s.adcOn.Load() {
		x, y, joy = s.readJoystick()
	}

	s.shared.With(func(rt *gui.Runtime) {
		s.pointer.Store(p)
		s.events.Drain(func(ev buttonEvent) { s.ui.setLED(ev.index, ev.on) })
		if joy {
			s.ui.setJoystick(x, y)
		}
	})

	if s.reboot.Swap(false) {
		hal.Logf(s.log, "app: reboot")
		s.panel.SetDisplayOn(false)
		s.panel.SetSleep(true)
		s.hal.Watchdog().Reboot()
	}
}

func (s *System) readJoystick() (x, y uint16, ok bool) {
	j := s.hal.Joystick()
	if j.X == nil || j.Y == nil {
		return 0, 0, false
	}
	x, errX := j.X.Read()
	y, errY := j.Y.Read()
	if err := errors.Join(errX, errY); err != nil {
		if s.joyFails == 0 {
			hal.Logf(s.log, "app: joystick: %v", err)
		}
		s.joyFails++
		return 0, 0, false
	}
	s.joyFails = 0
	return x, y, true
}

// requestReboot is called from the GUI; the sampling task performs the
// reboot outside the lock.
func (s *System) requestReboot() { s.reboot.Store(true) }

func (s *System) toggleBuzzer() bool {
	b := s.hal.Buzzer()
	on := !s.ui.beepOn
	if b != nil {
		if on {
			b.High()
		} else {
			b.Low()
		}
	}
	return on
}

// Run starts the firmware with the default config and never returns.
func Run(h hal.HAL) {
	sys, err := New(h, DefaultConfig())
	if err != nil {
		hal.Logf(h.Logger(), "%v", err)
		select {}
	}
	if err := sys.Run(context.Background()); err != nil {
		hal.Logf(h.Logger(), "app: %v", err)
	}
	select {}
}
