package bus

import "tinygo.org/x/drivers"

// MaxWrite is the largest register payload Write accepts. The transmit
// buffer is 32 bytes including the two address bytes.
const MaxWrite = 30

// Registers talks to an I2C device whose registers are addressed with 16-bit
// big-endian addresses.
//
// A Registers value reuses an internal buffer and must be owned by a single
// goroutine.
type Registers struct {
	bus  drivers.I2C
	addr uint16
	tx   [2 + MaxWrite]byte
}

// NewRegisters returns a register accessor for the 7-bit device address addr.
// The bus must already be configured.
func NewRegisters(bus drivers.I2C, addr uint16) *Registers {
	return &Registers{bus: bus, addr: addr}
}

// Address returns the 7-bit device address.
func (r *Registers) Address() uint16 { return r.addr }

// Read fills buf from consecutive registers starting at reg. The register
// address is written first and the data is read after a repeated start.
func (r *Registers) Read(reg uint16, buf []byte) error {
	if len(buf) == 0 || len(buf) > 0xFF {
		return ErrLength
	}
	r.tx[0] = byte(reg >> 8)
	r.tx[1] = byte(reg)
	if err := r.bus.Tx(r.addr, r.tx[:2], buf); err != nil {
		return &TransportError{Op: "read", Reg: reg, Err: err}
	}
	return nil
}

// Write sends data to consecutive registers starting at reg in a single
// write transaction.
func (r *Registers) Write(reg uint16, data []byte) error {
	if len(data) == 0 || len(data) > MaxWrite {
		return ErrLength
	}
	r.tx[0] = byte(reg >> 8)
	r.tx[1] = byte(reg)
	n := copy(r.tx[2:], data)
	if err := r.bus.Tx(r.addr, r.tx[:2+n], nil); err != nil {
		return &TransportError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

// WriteReg writes a single register.
func (r *Registers) WriteReg(reg uint16, v byte) error {
	r.tx[2] = v
	r.tx[0] = byte(reg >> 8)
	r.tx[1] = byte(reg)
	if err := r.bus.Tx(r.addr, r.tx[:3], nil); err != nil {
		return &TransportError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}
