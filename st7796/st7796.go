// Package st7796 implements a driver for ST7796-class 320x480 TFT display
// controllers on a 4-wire SPI link.
package st7796

import (
	"image/color"
	"time"

	"tftdeck/bus"

	"tinygo.org/x/drivers"
)

type state uint8

const (
	stateUninitialized state = iota
	stateResetting
	stateSequencing
	stateReady
)

// Device is an ST7796 panel. It is owned by a single execution context.
type Device struct {
	panel *bus.Panel
	rst   bus.Line

	state       state
	orientation Orientation

	// Delay is used for reset and power-up waits. Nil means time.Sleep.
	Delay func(time.Duration)

	win  [4]byte
	fill [64]byte
}

// New returns a driver for a panel wired to spi with the given chip select,
// data/command and reset lines.
func New(spi drivers.SPI, cs, dc, rst bus.Line) *Device {
	return &Device{
		panel: bus.NewPanel(spi, cs, dc),
		rst:   rst,
	}
}

// Panel returns the underlying link, mostly for its sticky error.
func (d *Device) Panel() *bus.Panel { return d.panel }

// Ready reports whether Configure has completed.
func (d *Device) Ready() bool { return d.state == stateReady }

func (d *Device) sleep(t time.Duration) {
	if t <= 0 {
		return
	}
	if d.Delay != nil {
		d.Delay(t)
		return
	}
	time.Sleep(t)
}

// Configure resets the panel and runs the init sequence. It leaves the panel
// in portrait with inversion on. Transport errors are not reported here; see
// Panel().Err().
func (d *Device) Configure() {
	d.panel.Idle()
	d.rst.High()

	d.state = stateResetting
	d.sleep(100 * time.Millisecond)
	d.rst.Low()
	d.sleep(100 * time.Millisecond)
	d.rst.High()
	d.sleep(100 * time.Millisecond)

	d.state = stateSequencing
	for _, s := range InitSequence {
		d.panel.Send(s.Cmd, s.Data...)
		d.sleep(s.Delay)
	}

	d.SetOrientation(Portrait)
	d.panel.Command(INVON)
	d.state = stateReady
}

// SetOrientation programs the memory access order.
func (d *Device) SetOrientation(o Orientation) {
	if o > LandscapeInverted {
		o = Portrait
	}
	d.orientation = o
	d.panel.Send(MADCTL, o.madctl())
}

// Orientation returns the current orientation.
func (d *Device) Orientation() Orientation { return d.orientation }

// SetRotation implements the tinyterm and drivers rotation hook.
func (d *Device) SetRotation(r drivers.Rotation) error {
	switch r % 4 {
	case drivers.Rotation0:
		d.SetOrientation(Portrait)
	case drivers.Rotation90:
		d.SetOrientation(Landscape)
	case drivers.Rotation180:
		d.SetOrientation(PortraitInverted)
	case drivers.Rotation270:
		d.SetOrientation(LandscapeInverted)
	}
	return nil
}

// Size returns the visible size for the current orientation.
func (d *Device) Size() (x, y int16) {
	if d.orientation.landscape() {
		return Height, Width
	}
	return Width, Height
}

// SetWindow selects the inclusive drawing rectangle and starts a memory
// write. Coordinates are passed through unchecked.
func (d *Device) SetWindow(x1, y1, x2, y2 uint16) {
	d.win = [4]byte{byte(x1 >> 8), byte(x1), byte(x2 >> 8), byte(x2)}
	d.panel.Send(CASET, d.win[:]...)
	d.win = [4]byte{byte(y1 >> 8), byte(y1), byte(y2 >> 8), byte(y2)}
	d.panel.Send(RASET, d.win[:]...)
	d.panel.Command(RAMWR)
}

// WriteColor streams big-endian RGB565 pixels into the current window.
func (d *Device) WriteColor(pixels []byte) {
	if len(pixels) < 2 {
		return
	}
	d.panel.Stream(pixels[:len(pixels)&^1])
}

// SetPixel writes a single pixel.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	w, h := d.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	d.SetWindow(uint16(x), uint16(y), uint16(x), uint16(y))
	v := RGB565(c)
	d.fill[0], d.fill[1] = byte(v>>8), byte(v)
	d.WriteColor(d.fill[:2])
}

// Display is a no-op; writes go straight to panel memory.
func (d *Device) Display() error { return nil }

// FillRectangle fills a rectangle clipped to the screen.
func (d *Device) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	w, h := d.Size()
	if x < 0 {
		width += x
		x = 0
	}
	if y < 0 {
		height += y
		y = 0
	}
	if x+width > w {
		width = w - x
	}
	if y+height > h {
		height = h - y
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	v := RGB565(c)
	for i := 0; i < len(d.fill); i += 2 {
		d.fill[i], d.fill[i+1] = byte(v>>8), byte(v)
	}
	d.SetWindow(uint16(x), uint16(y), uint16(x+width-1), uint16(y+height-1))
	for n := int(width) * int(height) * 2; n > 0; {
		chunk := n
		if chunk > len(d.fill) {
			chunk = len(d.fill)
		}
		d.WriteColor(d.fill[:chunk])
		n -= chunk
	}
	return d.panel.Err()
}

// FillScreen fills the whole panel.
func (d *Device) FillScreen(c color.RGBA) {
	w, h := d.Size()
	_ = d.FillRectangle(0, 0, w, h, c)
}

// SetScroll sets the vertical scroll start address.
func (d *Device) SetScroll(line int16) {
	d.panel.Send(VSCRSADD, byte(uint16(line)>>8), byte(line))
}

// SetSleep enters or leaves sleep mode.
func (d *Device) SetSleep(sleep bool) {
	if sleep {
		d.panel.Command(SLPIN)
		return
	}
	d.panel.Command(SLPOUT)
	d.sleep(100 * time.Millisecond)
}

// SetDisplayOn turns the panel output on or off.
func (d *Device) SetDisplayOn(on bool) {
	if on {
		d.panel.Command(DISPON)
	} else {
		d.panel.Command(DISPOFF)
	}
}

// RGB565 converts c to a 16-bit rrrrrggggggbbbbb value.
func RGB565(c color.RGBA) uint16 {
	return uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3
}
