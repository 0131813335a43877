// Package port connects the panel and touch drivers to the GUI runtime.
// The display port writes rendered bands to the panel; the pointer port
// turns controller samples into pointer data.
package port

import (
	"sync/atomic"

	"tftdeck/gui"
	"tftdeck/hal"
	"tftdeck/st7796"
)

// Display is the flush port for an ST7796 panel.
type Display struct {
	dev     *st7796.Device
	log     hal.Logger
	enabled atomic.Bool

	flushed uint32
	errors  uint32
}

// NewDisplay returns an enabled flush port.
func NewDisplay(dev *st7796.Device, log hal.Logger) *Display {
	d := &Display{dev: dev, log: log}
	d.enabled.Store(true)
	return d
}

// Attach installs the port as rt's flush callback.
func (d *Display) Attach(rt *gui.Runtime) { rt.RegisterFlush(d.Flush) }

// SetEnabled turns panel writes on or off. A disabled port still
// acknowledges every flush so the runtime keeps going.
func (d *Display) SetEnabled(on bool) { d.enabled.Store(on) }

func (d *Display) Enabled() bool { return d.enabled.Load() }

// Flush writes one band to the panel and acknowledges it.
func (d *Display) Flush(disp *gui.Display, a gui.Area, data []byte) {
	defer disp.FlushReady()
	if !d.enabled.Load() {
		return
	}
	d.dev.SetWindow(uint16(a.X1), uint16(a.Y1), uint16(a.X2), uint16(a.Y2))
	d.dev.WriteColor(data)
	d.flushed++

	p := d.dev.Panel()
	if err := p.Err(); err != nil {
		d.errors++
		hal.Logf(d.log, "port: flush y=%d..%d: %v", a.Y1, a.Y2, err)
		p.ClearErr()
	}
}

// Stats returns the number of bands written and failed bus transfers.
func (d *Display) Stats() (flushed, errors uint32) { return d.flushed, d.errors }
