package sim

import (
	"fmt"
	"sync"
)

const (
	gt911Base   = 0x8040
	gt911Size   = 0x200
	gt911Status = 0x814E
)

// GT911 simulates the touch controller's register file and its
// status handshake: a new frame is posted only after the host has cleared
// the status register.
type GT911 struct {
	mu   sync.Mutex
	addr uint16
	regs [gt911Size]byte

	pressed bool
	x, y    uint16
	fault   error

	reads  int
	writes int
}

// NewGT911 returns a controller at addr reporting the given resolution.
func NewGT911(addr uint16, maxX, maxY uint16) *GT911 {
	s := &GT911{addr: addr}
	copy(s.reg(0x8140, 4), "911\x00")
	s.put16(0x8144, 0x1060)
	s.put16(0x8146, maxX)
	s.put16(0x8148, maxY)
	s.reg(0x814A, 1)[0] = 0x02
	return s
}

func (s *GT911) reg(addr uint16, n int) []byte {
	off := int(addr) - gt911Base
	if off < 0 || off+n > len(s.regs) {
		return nil
	}
	return s.regs[off : off+n]
}

// Touch places a finger at x, y.
func (s *GT911) Touch(x, y uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed, s.x, s.y = true, x, y
}

// Release lifts the finger.
func (s *GT911) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = false
}

// SetFault makes every transaction fail with err until cleared with nil.
func (s *GT911) SetFault(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = err
}

// Stats returns the number of read and write transactions served.
func (s *GT911) Stats() (reads, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.writes
}

// Tx implements drivers.I2C.
func (s *GT911) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr != s.addr {
		return ErrNack
	}
	if s.fault != nil {
		return s.fault
	}
	if len(w) < 2 {
		return fmt.Errorf("sim: gt911: short register address (%d bytes)", len(w))
	}
	reg := uint16(w[0])<<8 | uint16(w[1])

	if len(w) > 2 {
		s.writes++
		dst := s.reg(reg, len(w)-2)
		if dst == nil {
			return fmt.Errorf("sim: gt911: write out of range %#04x", reg)
		}
		copy(dst, w[2:])
	}
	if len(r) == 0 {
		return nil
	}

	s.reads++
	if reg == gt911Status {
		s.scan()
	}
	src := s.reg(reg, len(r))
	if src == nil {
		return fmt.Errorf("sim: gt911: read out of range %#04x", reg)
	}
	copy(r, src)
	return nil
}

// scan posts a frame if the host has acknowledged the previous one.
func (s *GT911) scan() {
	status := s.reg(gt911Status, 1)
	if status[0]&0x80 != 0 {
		return
	}
	if !s.pressed {
		status[0] = 0x80
		return
	}
	status[0] = 0x81
	s.reg(0x814F, 1)[0] = 0
	s.put16(0x8150, s.x)
	s.put16(0x8152, s.y)
	s.put16(0x8154, 0x20)
}

// put16 stores v little-endian, the controller's register byte order.
func (s *GT911) put16(addr, v uint16) {
	b := s.reg(addr, 2)
	b[0], b[1] = byte(v), byte(v>>8)
}
