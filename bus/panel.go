package bus

import "tinygo.org/x/drivers"

// Panel is a 4-wire SPI link to a display controller: the SPI data lines plus
// chip select and a data/command select line. DC low marks a command byte,
// DC high marks parameter or pixel data.
//
// Display controllers expose no acknowledge, so transmit errors are kept
// rather than returned: the first error sticks until ClearErr and can be
// read back with Err.
type Panel struct {
	spi drivers.SPI
	cs  Line
	dc  Line

	cmd [1]byte
	err error
}

// NewPanel returns a link over an already configured SPI bus.
func NewPanel(spi drivers.SPI, cs, dc Line) *Panel {
	return &Panel{spi: spi, cs: cs, dc: dc}
}

// Idle deselects the chip and leaves DC in data mode.
func (p *Panel) Idle() {
	p.cs.High()
	p.dc.High()
}

// Command sends a single command byte in its own chip-select frame.
func (p *Panel) Command(cmd byte) {
	p.cs.Low()
	p.writeCommand(cmd)
	p.cs.High()
}

// Data sends parameter bytes in their own chip-select frame.
func (p *Panel) Data(data []byte) {
	if len(data) == 0 {
		return
	}
	p.cs.Low()
	p.dc.High()
	p.tx(data)
	p.cs.High()
}

// Send sends a command followed by its parameters in one chip-select frame.
func (p *Panel) Send(cmd byte, data ...byte) {
	p.cs.Low()
	p.writeCommand(cmd)
	if len(data) > 0 {
		p.dc.High()
		p.tx(data)
	}
	p.cs.High()
}

// Stream sends buf as a single data burst. It is the pixel path and does not
// copy.
func (p *Panel) Stream(buf []byte) {
	p.Data(buf)
}

// Err returns the first transmit error since the last ClearErr.
func (p *Panel) Err() error { return p.err }

// ClearErr resets the sticky error.
func (p *Panel) ClearErr() { p.err = nil }

func (p *Panel) writeCommand(cmd byte) {
	p.dc.Low()
	p.cmd[0] = cmd
	p.tx(p.cmd[:])
}

func (p *Panel) tx(w []byte) {
	if err := p.spi.Tx(w, nil); err != nil && p.err == nil {
		p.err = &TransportError{Op: "spi", Reg: uint16(p.cmd[0]), Err: err}
	}
}
