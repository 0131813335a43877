// Package gt911 implements a driver for the Goodix GT911 capacitive touch
// controller. Only a single contact is reported; additional contacts are
// treated as a release.
//
// Datasheet: https://www.crystalfontz.com/controllers/GOODIX/GT911ProgrammingGuide/
package gt911

import (
	"errors"
	"fmt"

	"tftdeck/bus"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/touch"
)

// ErrNotInitialized is returned by reads issued before Configure succeeded.
var ErrNotInitialized = errors.New("gt911: not initialized")

type state uint8

const (
	stateUninitialized state = iota
	stateInitializing
	stateReady
)

// Info describes the panel as reported by the controller during Configure.
type Info struct {
	ProductID [4]byte
	MaxX      uint16
	MaxY      uint16
	Address   uint16
}

// Product returns the product identifier as a string, without padding.
func (i Info) Product() string {
	n := len(i.ProductID)
	for n > 0 && i.ProductID[n-1] == 0 {
		n--
	}
	return string(i.ProductID[:n])
}

// Sample is one poll result. A released sample carries the coordinate of the
// last pressed sample, so consumers can tell "lifted at P" from "dragging".
type Sample struct {
	X       uint16
	Y       uint16
	Pressed bool
}

// Device is a GT911 controller on an I2C bus. It is not safe for concurrent
// use; one execution context owns it.
type Device struct {
	regs  *bus.Registers
	state state
	info  Info

	lastX uint16
	lastY uint16

	buf [4]byte
}

// New returns a driver for a controller at the default address.
func New(i2c drivers.I2C) *Device {
	return NewWithAddress(i2c, Address)
}

// NewWithAddress returns a driver for a controller at addr.
func NewWithAddress(i2c drivers.I2C, addr uint16) *Device {
	return &Device{
		regs: bus.NewRegisters(i2c, addr),
		info: Info{Address: addr},
	}
}

// Configure probes the controller and reads its identity and resolution.
// It is a no-op once the device is ready. On failure the device stays
// uninitialized and Configure may be called again.
func (d *Device) Configure() error {
	if d.state == stateReady {
		return nil
	}
	d.state = stateInitializing
	if err := d.identify(); err != nil {
		d.state = stateUninitialized
		return err
	}
	d.state = stateReady
	return nil
}

func (d *Device) identify() error {
	if err := d.regs.Read(RegProductID, d.buf[:1]); err != nil {
		return fmt.Errorf("gt911: probe: %w", err)
	}

	var info Info
	info.Address = d.regs.Address()
	if err := d.regs.Read(RegProductID, info.ProductID[:]); err != nil {
		return fmt.Errorf("gt911: product id: %w", err)
	}
	if err := d.regs.Read(RegVendorID, d.buf[:1]); err != nil {
		return fmt.Errorf("gt911: vendor id: %w", err)
	}
	if err := d.regs.Read(RegXResolution, d.buf[:4]); err != nil {
		return fmt.Errorf("gt911: resolution: %w", err)
	}
	info.MaxX = le16(d.buf[0], d.buf[1])
	info.MaxY = le16(d.buf[2], d.buf[3])

	d.info = info
	return nil
}

// Ready reports whether Configure has completed.
func (d *Device) Ready() bool { return d.state == stateReady }

// Info returns the identity read during Configure.
func (d *Device) Info() Info { return d.info }

// ReadTouch polls the controller once.
//
// The status register is cleared on almost every poll; the controller does
// not post a new frame until the host has done so.
func (d *Device) ReadTouch() (Sample, error) {
	if d.state != stateReady {
		return Sample{}, ErrNotInitialized
	}

	if err := d.regs.Read(RegStatus, d.buf[:1]); err != nil {
		return Sample{}, err
	}
	status := Status(d.buf[0])
	if status.needsAck() {
		if err := d.regs.WriteReg(RegStatus, 0); err != nil {
			return Sample{}, err
		}
	}

	if status.Points() != 1 {
		return Sample{X: d.lastX, Y: d.lastY}, nil
	}

	if err := d.regs.Read(RegPoint1X, d.buf[:2]); err != nil {
		return Sample{}, err
	}
	x := le16(d.buf[0], d.buf[1])
	if err := d.regs.Read(RegPoint1Y, d.buf[:2]); err != nil {
		return Sample{}, err
	}
	y := le16(d.buf[0], d.buf[1])

	d.lastX, d.lastY = x, y
	return Sample{X: x, Y: y, Pressed: true}, nil
}

// ReadTouchPoint implements touch.Pointer. Z is 1 while pressed and 0
// otherwise, including after a failed read.
func (d *Device) ReadTouchPoint() touch.Point {
	s, err := d.ReadTouch()
	if err != nil {
		return touch.Point{X: int(d.lastX), Y: int(d.lastY)}
	}
	p := touch.Point{X: int(s.X), Y: int(s.Y)}
	if s.Pressed {
		p.Z = 1
	}
	return p
}

func le16(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<8
}
