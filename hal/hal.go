package hal

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Logf formats a line and writes it to l. A nil logger discards the line.
func Logf(l Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf(format, args...))
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Edge selects which transition fires a pin interrupt.
type Edge uint8

const (
	EdgeRising Edge = iota + 1
	EdgeFalling
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	default:
		return "none"
	}
}

// InterruptPin is an input that calls a handler on an edge. The handler
// runs in interrupt context on hardware and must not block or allocate.
type InterruptPin interface {
	Name() string
	SetInterrupt(edge Edge, handler func()) error
}

// ADC is one analog input. Read returns a 12-bit sample (0..4095).
type ADC interface {
	Read() (uint16, error)
}

// Watchdog resets the board.
type Watchdog interface {
	// Reboot does not return on hardware.
	Reboot()
}

// Panel is the display's SPI link and its control lines.
type Panel struct {
	SPI drivers.SPI
	CS  LED
	DC  LED
	RST LED
}

// Joystick is a two-axis analog stick. Either axis may be nil.
type Joystick struct {
	X ADC
	Y ADC
}

// HAL provides the only contact point between the firmware and the board.
type HAL interface {
	Logger() Logger

	// Touch returns the I2C bus the touch controller sits on, already
	// configured.
	Touch() drivers.I2C
	Panel() Panel

	Buttons() []InterruptPin
	LEDs() []LED
	Buzzer() LED
	Joystick() Joystick
	Watchdog() Watchdog
}
