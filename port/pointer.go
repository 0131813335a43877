package port

import (
	"tftdeck/gt911"
	"tftdeck/gui"
	"tftdeck/hal"
)

// Pointer is the input port for a GT911 controller.
//
// Poll does bus I/O and must be called outside the GUI lock. Store and Read
// only touch the cached state and run under it.
type Pointer struct {
	dev *gt911.Device
	tf  Transform
	log hal.Logger

	state    gui.PointerData
	failures uint32
	failing  bool
}

func NewPointer(dev *gt911.Device, tf Transform, log hal.Logger) *Pointer {
	return &Pointer{dev: dev, tf: tf, log: log}
}

// Attach installs the port as rt's pointer callback.
func (p *Pointer) Attach(rt *gui.Runtime) { rt.RegisterPointer(p.Read) }

// SetTransform replaces the coordinate transform, for example after the
// panel orientation changes.
func (p *Pointer) SetTransform(tf Transform) { p.tf = tf }

// Poll reads one sample from the controller. A failed read reports the
// last coordinate as released. Only the first failure of a run is logged.
func (p *Pointer) Poll() gui.PointerData {
	s, err := p.dev.ReadTouch()
	if err != nil {
		p.failures++
		if !p.failing {
			hal.Logf(p.log, "port: touch read: %v", err)
		}
		p.failing = true
		d := p.state
		d.State = gui.Released
		return d
	}
	p.failing = false

	x, y := p.tf.Apply(s.X, s.Y)
	d := gui.PointerData{X: x, Y: y, State: gui.Released}
	if s.Pressed {
		d.State = gui.Pressed
	}
	return d
}

// Store caches a polled sample for the next Read.
func (p *Pointer) Store(d gui.PointerData) {
	d.Continue = false
	p.state = d
}

// Read reports the cached sample. The controller is single point, so there
// is never more buffered input.
func (p *Pointer) Read(d *gui.PointerData) {
	*d = p.state
	d.Continue = false
}

// Failures returns the number of failed reads.
func (p *Pointer) Failures() uint32 { return p.failures }
