// Package gui is a small retained-mode GUI runtime. It keeps a tree of
// screen objects, tracks invalidated areas, renders them band by band into a
// partial draw buffer and hands each band to a flush callback. Input comes
// from a pointer callback polled once per Handler pass.
//
// A Runtime is not safe for concurrent use. Callers serialize access; only
// TickInc may be called from another goroutine.
package gui

import (
	"image/color"
	"sync/atomic"

	"tftdeck/hal"

	"tinygo.org/x/drivers/pixel"
)

// PointerState is the contact state reported by a pointer callback.
type PointerState uint8

const (
	Released PointerState = iota
	Pressed
)

func (s PointerState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// PointerData is filled in by the pointer callback. Setting Continue asks
// the runtime to call back again in the same pass, for buffered input.
type PointerData struct {
	X, Y     int16
	State    PointerState
	Continue bool
}

// Display is the flush target handed to the flush callback.
type Display struct {
	w, h     int16
	flushing bool
}

// Size returns the resolution in pixels.
func (d *Display) Size() (w, h int16) { return d.w, d.h }

// FlushReady acknowledges the band passed to the flush callback.
func (d *Display) FlushReady() { d.flushing = false }

// Config sets up a Runtime.
type Config struct {
	Width, Height int16
	// BufferLines is the height of the partial draw buffer in rows.
	BufferLines int16
	Background  color.RGBA
	Log         hal.Logger
}

const maxDirty = 16

type timer struct {
	period uint32
	last   uint32
	fn     func()
}

// Runtime is the GUI state.
type Runtime struct {
	disp Display
	buf  pixel.Image[pixel.RGB565BE]
	rows int16
	bg   color.RGBA
	log  hal.Logger

	flush   func(*Display, Area, []byte)
	pointer func(*PointerData)

	ticks    atomic.Uint32
	timers   []*timer
	active   *Screen
	dirty    [maxDirty]Area
	ndirty   int
	pressed  Pressable
	wasDown  bool
	last     PointerData
	flushes  int
	unacked  int
	handlers int
}

// New returns a runtime with a BufferLines-row draw buffer.
func New(cfg Config) *Runtime {
	if cfg.BufferLines <= 0 || cfg.BufferLines > cfg.Height {
		cfg.BufferLines = cfg.Height / 10
	}
	if cfg.BufferLines <= 0 {
		cfg.BufferLines = 1
	}
	if cfg.Background.A == 0 {
		cfg.Background = color.RGBA{A: 0xFF}
	}
	rt := &Runtime{
		disp: Display{w: cfg.Width, h: cfg.Height},
		buf:  pixel.NewImage[pixel.RGB565BE](int(cfg.Width), int(cfg.BufferLines)),
		rows: cfg.BufferLines,
		bg:   cfg.Background,
		log:  cfg.Log,
	}
	rt.active = rt.NewScreen()
	return rt
}

// Display returns the flush target.
func (rt *Runtime) Display() *Display { return &rt.disp }

// RegisterFlush installs the callback that writes a rendered band to the
// panel. data holds Area.Width()*Area.Height() big-endian RGB565 pixels.
// The callback must call Display.FlushReady when done.
func (rt *Runtime) RegisterFlush(fn func(d *Display, a Area, data []byte)) {
	rt.flush = fn
}

// RegisterPointer installs the pointer input callback.
func (rt *Runtime) RegisterPointer(fn func(p *PointerData)) {
	rt.pointer = fn
}

// TickInc advances the runtime clock. It is safe to call from any goroutine.
func (rt *Runtime) TickInc(ms uint32) { rt.ticks.Add(ms) }

// Ticks returns the runtime clock in milliseconds.
func (rt *Runtime) Ticks() uint32 { return rt.ticks.Load() }

// AddTimer calls fn from Handler every period milliseconds.
func (rt *Runtime) AddTimer(period uint32, fn func()) {
	rt.timers = append(rt.timers, &timer{period: period, last: rt.Ticks(), fn: fn})
}

// Load makes s the active screen and redraws everything.
func (rt *Runtime) Load(s *Screen) {
	if s == nil || s == rt.active {
		return
	}
	if rt.pressed != nil {
		rt.pressed.SetPressed(false)
		rt.pressed = nil
	}
	rt.active = s
	rt.InvalidateAll()
}

// Active returns the active screen.
func (rt *Runtime) Active() *Screen { return rt.active }

// InvalidateAll marks the whole display for redraw.
func (rt *Runtime) InvalidateAll() {
	rt.ndirty = 0
	rt.Invalidate(Area{0, 0, rt.disp.w - 1, rt.disp.h - 1})
}

// Invalidate marks a for redraw. Overlapping areas are merged; when the
// list overflows the whole display is redrawn.
func (rt *Runtime) Invalidate(a Area) {
	a = a.Intersect(Area{0, 0, rt.disp.w - 1, rt.disp.h - 1})
	if a.Empty() {
		return
	}
	for i := 0; i < rt.ndirty; i++ {
		if rt.dirty[i].Overlaps(a) {
			a = rt.dirty[i].Join(a)
			rt.ndirty--
			rt.dirty[i] = rt.dirty[rt.ndirty]
			i = -1
		}
	}
	if rt.ndirty == len(rt.dirty) {
		rt.ndirty = 0
		a = Area{0, 0, rt.disp.w - 1, rt.disp.h - 1}
	}
	rt.dirty[rt.ndirty] = a
	rt.ndirty++
}

// Pending reports whether a redraw is queued.
func (rt *Runtime) Pending() bool { return rt.ndirty > 0 }

// LastPointer returns the most recent pointer sample.
func (rt *Runtime) LastPointer() PointerData { return rt.last }

// Stats returns the number of Handler passes, flushed bands and flushes
// that were not acknowledged.
func (rt *Runtime) Stats() (handlers, flushes, unacked int) {
	return rt.handlers, rt.flushes, rt.unacked
}

// Handler runs one pass: due timers, pointer input, then redraw of the
// invalidated areas.
func (rt *Runtime) Handler() {
	rt.handlers++
	now := rt.Ticks()
	for _, t := range rt.timers {
		if now-t.last >= t.period {
			t.last = now
			t.fn()
		}
	}

	if rt.pointer != nil {
		for {
			var p PointerData
			rt.pointer(&p)
			rt.input(p)
			if !p.Continue {
				break
			}
		}
	}

	rt.refresh()
}

func (rt *Runtime) input(p PointerData) {
	rt.last = p
	down := p.State == Pressed
	switch {
	case down && !rt.wasDown:
		if o := rt.active.hit(p.X, p.Y); o != nil {
			o.SetPressed(true)
			rt.pressed = o
		}
	case !down && rt.wasDown:
		if o := rt.pressed; o != nil {
			rt.pressed = nil
			o.SetPressed(false)
			if o.Bounds().Contains(p.X, p.Y) {
				o.Click()
			}
		}
	}
	rt.wasDown = down
}

func (rt *Runtime) refresh() {
	for rt.ndirty > 0 {
		rt.ndirty--
		a := rt.dirty[rt.ndirty]
		for y := a.Y1; y <= a.Y2; y += rt.rows {
			band := Area{X1: 0, Y1: y, X2: rt.disp.w - 1, Y2: min(y+rt.rows-1, a.Y2)}
			rt.render(band)
		}
	}
}

func (rt *Runtime) render(band Area) {
	rt.buf.FillSolidColor(toPixel(rt.bg))
	c := &Canvas{img: rt.buf, band: band, w: rt.disp.w, h: rt.disp.h}
	for _, o := range rt.active.objects {
		if !o.Hidden() && o.Bounds().Overlaps(band) {
			o.Draw(c)
		}
	}

	rt.flushes++
	if rt.flush == nil {
		return
	}
	n := int(band.Width()) * int(band.Height()) * 2
	rt.disp.flushing = true
	rt.flush(&rt.disp, band, rt.buf.RawBuffer()[:n])
	if rt.disp.flushing {
		rt.unacked++
		hal.Logf(rt.log, "gui: flush y=%d..%d not acknowledged", band.Y1, band.Y2)
		rt.disp.flushing = false
	}
}

// Screen is a set of objects drawn in insertion order.
type Screen struct {
	rt      *Runtime
	objects []Object
}

// NewScreen returns an empty screen.
func (rt *Runtime) NewScreen() *Screen {
	return &Screen{rt: rt}
}

// Add appends objects to the screen.
func (s *Screen) Add(objs ...Object) {
	for _, o := range objs {
		o.attach(s)
		s.objects = append(s.objects, o)
		s.invalidate(o.Bounds())
	}
}

// Objects returns the screen's objects.
func (s *Screen) Objects() []Object { return s.objects }

func (s *Screen) invalidate(a Area) {
	if s.rt != nil && s.rt.active == s {
		s.rt.Invalidate(a)
	}
}

// hit returns the topmost visible pressable object at x, y.
func (s *Screen) hit(x, y int16) Pressable {
	for i := len(s.objects) - 1; i >= 0; i-- {
		p, ok := s.objects[i].(Pressable)
		if ok && !p.Hidden() && p.Bounds().Contains(x, y) {
			return p
		}
	}
	return nil
}
