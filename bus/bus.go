// Package bus implements the blocking byte-level transports used by the
// touch and display drivers: a 16-bit register map over I2C and a
// command/data framed link over 4-wire SPI.
//
// Nothing here retries. A failed transaction is reported to the caller,
// which decides whether it is fatal.
package bus

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every error caused by a bus transaction that was
	// not acknowledged or timed out.
	ErrTransport = errors.New("bus: transport failure")

	// ErrLength is returned for empty reads and oversized writes.
	ErrLength = errors.New("bus: invalid length")
)

// TransportError describes a failed register transaction.
type TransportError struct {
	Op  string
	Reg uint16
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bus: %s %#04x: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports true for ErrTransport so callers can test the class without
// caring about the underlying driver error.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Line is a digital output the transport drives (chip select, data/command,
// reset). machine.Pin satisfies it directly.
type Line interface {
	High()
	Low()
}
