//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func newPinLED(n int) *pinLED {
	pin := machine.Pin(n)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &pinLED{pin: pin}
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// irqPin is a pulled-down button input.
type irqPin struct {
	pin machine.Pin
}

func newIRQPin(n int) *irqPin {
	pin := machine.Pin(n)
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	return &irqPin{pin: pin}
}

func (p *irqPin) Name() string { return PinName(int(p.pin)) }

func (p *irqPin) SetInterrupt(edge Edge, handler func()) error {
	var change machine.PinChange
	switch edge {
	case EdgeRising:
		change = machine.PinRising
	case EdgeFalling:
		change = machine.PinFalling
	default:
		return ErrNotImplemented
	}
	return p.pin.SetInterrupt(change, func(machine.Pin) { handler() })
}

type rpADC struct {
	adc machine.ADC
}

func newADC(n int) *rpADC {
	a := machine.ADC{Pin: machine.Pin(n)}
	a.Configure(machine.ADCConfig{})
	return &rpADC{adc: a}
}

// Read returns the 12-bit conversion; machine.ADC scales to 16 bits.
func (a *rpADC) Read() (uint16, error) {
	return a.adc.Get() >> 4, nil
}

type rpWatchdog struct{}

// Reboot arms the watchdog with the shortest timeout and waits for it.
func (rpWatchdog) Reboot() {
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1}); err == nil {
		_ = machine.Watchdog.Start()
	}
	for {
	}
}
