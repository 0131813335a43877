package hal

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// virtualPin is a host-side digital pin. It serves both as an output (LEDs,
// buzzer, panel lines of a simulated board) and as an interrupt input driven
// by the window or by tests.
type virtualPin struct {
	mu      sync.Mutex
	name    string
	level   bool
	edge    Edge
	handler func()
	log     Logger
	onSet   func(level bool)
}

func newVirtualPin(name string, log Logger) *virtualPin {
	return &virtualPin{name: name, log: log}
}

func (p *virtualPin) Name() string { return p.name }

func (p *virtualPin) High() { p.Set(true) }
func (p *virtualPin) Low()  { p.Set(false) }

// Set drives the pin. A matching edge calls the interrupt handler after the
// pin state is updated.
func (p *virtualPin) Set(level bool) {
	p.mu.Lock()
	prev := p.level
	p.level = level
	fn := p.handler
	edge := p.edge
	onSet := p.onSet
	p.mu.Unlock()

	if prev == level {
		return
	}
	if p.log != nil {
		if level {
			Logf(p.log, "gpio: %s HIGH", p.name)
		} else {
			Logf(p.log, "gpio: %s LOW", p.name)
		}
	}
	if onSet != nil {
		onSet(level)
	}
	if fn == nil {
		return
	}
	if (edge == EdgeRising && level) || (edge == EdgeFalling && !level) {
		fn()
	}
}

// Pulse drives a rising then a falling edge.
func (p *virtualPin) Pulse() {
	p.Set(true)
	p.Set(false)
}

func (p *virtualPin) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *virtualPin) SetInterrupt(edge Edge, handler func()) error {
	if edge != EdgeRising && edge != EdgeFalling {
		return fmt.Errorf("gpio: pin %s: invalid edge", p.name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edge = edge
	p.handler = handler
	return nil
}

// heldADC returns whatever value was last set.
type heldADC struct {
	v atomic.Uint32
}

func newHeldADC(v uint16) *heldADC {
	a := &heldADC{}
	a.Set(v)
	return a
}

func (a *heldADC) Set(v uint16) {
	if v > ADCMax {
		v = ADCMax
	}
	a.v.Store(uint32(v))
}

func (a *heldADC) Read() (uint16, error) {
	return uint16(a.v.Load()), nil
}

// signalADC is a triangle wave between 0 and ADCMax, used as a joystick
// stand-in when no input device is attached.
type signalADC struct {
	name   string
	t0     time.Time
	now    func() time.Time
	period time.Duration
	offset time.Duration
}

func newSignalADC(name string, period, offset time.Duration) ADC {
	return newSignalADCWithClock(name, period, offset, time.Now)
}

func newSignalADCWithClock(name string, period, offset time.Duration, now func() time.Time) ADC {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = 1 * time.Second
	}
	return &signalADC{
		name:   name,
		t0:     now(),
		now:    now,
		period: period,
		offset: offset,
	}
}

func (a *signalADC) Read() (uint16, error) {
	elapsed := a.now().Sub(a.t0) + a.offset
	if elapsed < 0 {
		elapsed = -elapsed
	}
	phase := elapsed % a.period
	half := a.period / 2
	if half <= 0 {
		return 0, fmt.Errorf("adc: %s: invalid period", a.name)
	}
	if phase >= half {
		phase = a.period - phase
	}
	return uint16(int64(phase) * ADCMax / int64(half)), nil
}
