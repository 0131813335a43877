//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"tinygo.org/x/drivers"
)

// PeriphConfig names the Linux devices the board is wired to. Empty bus
// names select the first bus found. An empty CS lets the SPI controller
// drive chip select.
type PeriphConfig struct {
	I2C string
	SPI string

	CS  string
	DC  string
	RST string

	Buttons [2]string
	LEDs    [2]string
	Buzzer  string

	// Log receives log lines. Nil means stderr.
	Log io.Writer
	// Exit is called by Watchdog().Reboot. Nil means os.Exit.
	Exit func(code int)
}

// DefaultPeriphConfig uses the Raspberry Pi header pins nearest to the
// RP2040 wiring.
func DefaultPeriphConfig() PeriphConfig {
	return PeriphConfig{
		DC:      "GPIO25",
		RST:     "GPIO24",
		Buttons: [2]string{"GPIO5", "GPIO6"},
		LEDs:    [2]string{"GPIO16", "GPIO26"},
		Buzzer:  "GPIO13",
	}
}

// Periph is a board attached to a Linux single-board computer through
// periph.io. It has no ADC, so the joystick is absent.
type Periph struct {
	logger  *hostLogger
	i2c     i2c.BusCloser
	port    spi.PortCloser
	panel   Panel
	buttons []InterruptPin
	leds    []LED
	buzzer  LED
	wd      *hostWatchdog
}

// NewPeriph opens the buses and pins named by cfg.
func NewPeriph(cfg PeriphConfig) (*Periph, error) {
	w := cfg.Log
	if w == nil {
		w = os.Stderr
	}
	logger := &hostLogger{w: w}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: init: %w", err)
	}

	b, err := OpenPeriphI2C(cfg.I2C)
	if err != nil {
		return nil, err
	}
	p := &Periph{logger: logger, i2c: b, wd: &hostWatchdog{log: logger, exit: cfg.Exit}}

	port, err := spireg.Open(cfg.SPI)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("periph: spi %q: %w", cfg.SPI, err)
	}
	p.port = port
	c, err := port.Connect(physic.Frequency(PanelSPIHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("periph: spi connect: %w", err)
	}

	dc, err := outputPin(cfg.DC)
	if err != nil {
		p.Close()
		return nil, err
	}
	rst, err := outputPin(cfg.RST)
	if err != nil {
		p.Close()
		return nil, err
	}
	var cs LED = noLine{}
	if cfg.CS != "" {
		if cs, err = outputPin(cfg.CS); err != nil {
			p.Close()
			return nil, err
		}
	}
	p.panel = Panel{SPI: newPeriphSPI(c), CS: cs, DC: dc, RST: rst}

	for _, name := range cfg.Buttons {
		if name == "" {
			continue
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			p.Close()
			return nil, fmt.Errorf("periph: no pin %q", name)
		}
		p.buttons = append(p.buttons, &periphIRQ{pin: pin})
	}
	for _, name := range cfg.LEDs {
		if name == "" {
			continue
		}
		led, err := outputPin(name)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.leds = append(p.leds, led)
	}
	p.buzzer = noLine{}
	if cfg.Buzzer != "" {
		if p.buzzer, err = outputPin(cfg.Buzzer); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}

// OpenPeriphI2C opens an I2C bus at the touch controller's speed.
func OpenPeriphI2C(name string) (i2c.BusCloser, error) {
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("periph: i2c %q: %w", name, err)
	}
	// Not every adapter can change speed; the default is usually 100 kHz.
	_ = b.SetSpeed(physic.Frequency(TouchI2CHz) * physic.Hertz)
	return b, nil
}

func (p *Periph) Logger() Logger          { return p.logger }
func (p *Periph) Touch() drivers.I2C      { return p.i2c }
func (p *Periph) Panel() Panel            { return p.panel }
func (p *Periph) Buttons() []InterruptPin { return p.buttons }
func (p *Periph) LEDs() []LED             { return p.leds }
func (p *Periph) Buzzer() LED             { return p.buzzer }
func (p *Periph) Joystick() Joystick      { return Joystick{} }
func (p *Periph) Watchdog() Watchdog      { return p.wd }

// Close releases the buses and stops button edge detection.
func (p *Periph) Close() error {
	var errs []error
	for _, b := range p.buttons {
		if irq, ok := b.(*periphIRQ); ok {
			errs = append(errs, irq.halt())
		}
	}
	if p.port != nil {
		errs = append(errs, p.port.Close())
	}
	if p.i2c != nil {
		errs = append(errs, p.i2c.Close())
	}
	return errors.Join(errs...)
}

func outputPin(name string) (*periphLine, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("periph: no pin %q", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("periph: pin %s: %w", name, err)
	}
	return &periphLine{pin: pin}, nil
}

type periphLine struct {
	pin gpio.PinIO
}

func (l *periphLine) High() { _ = l.pin.Out(gpio.High) }
func (l *periphLine) Low()  { _ = l.pin.Out(gpio.Low) }

type noLine struct{}

func (noLine) High() {}
func (noLine) Low()  {}

// periphIRQ delivers edges from a goroutine blocked in WaitForEdge.
type periphIRQ struct {
	pin     gpio.PinIO
	stopped atomic.Bool
}

func (p *periphIRQ) Name() string { return p.pin.Name() }

func (p *periphIRQ) SetInterrupt(edge Edge, handler func()) error {
	e := gpio.RisingEdge
	switch edge {
	case EdgeRising:
	case EdgeFalling:
		e = gpio.FallingEdge
	default:
		return ErrNotImplemented
	}
	if err := p.pin.In(gpio.PullDown, e); err != nil {
		return fmt.Errorf("periph: pin %s: %w", p.pin.Name(), err)
	}
	go func() {
		for !p.stopped.Load() {
			if p.pin.WaitForEdge(-1) {
				handler()
			}
		}
	}()
	return nil
}

func (p *periphIRQ) halt() error {
	p.stopped.Store(true)
	return p.pin.Halt()
}

// periphSPI adapts a periph.io connection to drivers.SPI, splitting writes
// that exceed the controller's transfer limit.
type periphSPI struct {
	c   spi.Conn
	max int
	one [1]byte
	in  [1]byte
}

func newPeriphSPI(c spi.Conn) *periphSPI {
	s := &periphSPI{c: c, max: 4096}
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		s.max = l.MaxTxSize()
	}
	return s
}

func (s *periphSPI) Tx(w, r []byte) error {
	if r != nil {
		return s.c.Tx(w, r)
	}
	for len(w) > 0 {
		n := len(w)
		if n > s.max {
			n = s.max
		}
		if err := s.c.Tx(w[:n], nil); err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}

func (s *periphSPI) Transfer(b byte) (byte, error) {
	s.one[0] = b
	err := s.c.Tx(s.one[:], s.in[:])
	return s.in[0], err
}
