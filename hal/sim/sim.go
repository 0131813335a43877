// Package sim contains bus-level simulators for the touch and display
// controllers. They speak the same I2C and SPI transactions as the real
// chips, so drivers run unmodified against them on the host.
package sim

import "errors"

// ErrNack is returned for transactions addressed to an absent device.
var ErrNack = errors.New("sim: no acknowledge")

// Pin is a simulated control line.
type Pin struct {
	set func(bool)
}

func (p Pin) High() { p.set(true) }
func (p Pin) Low()  { p.set(false) }
