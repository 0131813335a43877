//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"tftdeck/hal/sim"

	"tinygo.org/x/drivers"
)

// HostConfig selects how the simulated board is driven.
type HostConfig struct {
	// Log receives log lines. Nil means stdout.
	Log io.Writer
	// Exit is called by Watchdog().Reboot. Nil means os.Exit.
	Exit func(code int)
	// SignalJoystick replaces the centred joystick with slow triangle waves.
	SignalJoystick bool
}

// Host is a simulated board: the touch and display controllers are bus-level
// simulators and the pins are virtual.
type Host struct {
	logger  *hostLogger
	touch   *sim.GT911
	panel   *sim.ST7796
	buttons [2]*virtualPin
	leds    [2]*virtualPin
	buzzer  *virtualPin
	tone    *hostBuzzer
	joyX    ADC
	joyY    ADC
	heldX   *heldADC
	heldY   *heldADC
	wd      *hostWatchdog
}

// New returns a host HAL with default settings.
func New() HAL {
	return NewHost(HostConfig{})
}

// NewHost returns a simulated board.
func NewHost(cfg HostConfig) *Host {
	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	logger := &hostLogger{w: w}

	h := &Host{
		logger: logger,
		touch:  sim.NewGT911(0x5D, 320, 480),
		panel:  sim.NewST7796(),
		heldX:  newHeldADC(ADCMax / 2),
		heldY:  newHeldADC(ADCMax / 2),
		wd:     &hostWatchdog{log: logger, exit: cfg.Exit},
	}
	h.buttons[0] = newVirtualPin(PinName(PinButton1), nil)
	h.buttons[1] = newVirtualPin(PinName(PinButton2), nil)
	h.leds[0] = newVirtualPin(PinName(PinLED1), logger)
	h.leds[1] = newVirtualPin(PinName(PinLED2), logger)

	h.tone = newHostBuzzer()
	h.buzzer = newVirtualPin(PinName(PinBuzzer), logger)
	h.buzzer.onSet = h.tone.set

	if cfg.SignalJoystick {
		h.joyX = newSignalADC("JOYX", 4*time.Second, 0)
		h.joyY = newSignalADC("JOYY", 4*time.Second, time.Second)
	} else {
		h.joyX, h.joyY = h.heldX, h.heldY
	}
	return h
}

func (h *Host) Logger() Logger     { return h.logger }
func (h *Host) Touch() drivers.I2C { return h.touch }
func (h *Host) Buzzer() LED        { return h.buzzer }
func (h *Host) Watchdog() Watchdog { return h.wd }

func (h *Host) Panel() Panel {
	return Panel{SPI: h.panel, CS: h.panel.CS(), DC: h.panel.DC(), RST: h.panel.RST()}
}

func (h *Host) Buttons() []InterruptPin {
	return []InterruptPin{h.buttons[0], h.buttons[1]}
}

func (h *Host) LEDs() []LED {
	return []LED{h.leds[0], h.leds[1]}
}

func (h *Host) Joystick() Joystick {
	return Joystick{X: h.joyX, Y: h.joyY}
}

// TouchSim returns the simulated touch controller.
func (h *Host) TouchSim() *sim.GT911 { return h.touch }

// PanelSim returns the simulated display controller.
func (h *Host) PanelSim() *sim.ST7796 { return h.panel }

// PressButton pulses button i (0 or 1).
func (h *Host) PressButton(i int) {
	if i < 0 || i >= len(h.buttons) {
		return
	}
	h.buttons[i].Pulse()
}

// LEDLevel returns the level of LED i.
func (h *Host) LEDLevel(i int) bool {
	if i < 0 || i >= len(h.leds) {
		return false
	}
	return h.leds[i].Level()
}

// BuzzerLevel returns the level of the buzzer pin.
func (h *Host) BuzzerLevel() bool { return h.buzzer.Level() }

// SetJoystick sets the held joystick position. It has no effect with
// SignalJoystick.
func (h *Host) SetJoystick(x, y uint16) {
	h.heldX.Set(x)
	h.heldY.Set(y)
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostWatchdog struct {
	log  Logger
	exit func(code int)
}

// Reboot exits the process with status 3; the host has no board to reset.
// It returns only if a test replaced Exit with a function that returns.
func (w *hostWatchdog) Reboot() {
	Logf(w.log, "watchdog: reboot requested")
	exit := w.exit
	if exit == nil {
		exit = os.Exit
	}
	exit(3)
}
