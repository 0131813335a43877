package gt911

// Default 7-bit I2C addresses. The address is latched from the INT line
// level during reset.
const (
	Address    = 0x5D
	AddressAlt = 0x14
)

// Register map.
const (
	RegProductID       = 0x8140 // 4 bytes, ASCII
	RegFirmwareVersion = 0x8144 // 2 bytes, little-endian
	RegXResolution     = 0x8146 // 2 bytes, little-endian
	RegYResolution     = 0x8148 // 2 bytes, little-endian
	RegVendorID        = 0x814A
	RegStatus          = 0x814E
	RegTrackID1        = 0x814F
	RegPoint1X         = 0x8150 // 2 bytes, little-endian
	RegPoint1Y         = 0x8152 // 2 bytes, little-endian
	RegPoint1Size      = 0x8154 // 2 bytes, little-endian
)

// Status register bits.
const (
	StatusBufferReady    = 0x80
	StatusLargeDetect    = 0x40
	StatusProximityValid = 0x20
	StatusHaveKey        = 0x10
	StatusPointMask      = 0x0F
)

// Status is the raw status register value.
type Status uint8

// Ready reports whether the controller posted a new frame.
func (s Status) Ready() bool { return s&StatusBufferReady != 0 }

// Large reports a large-area contact (palm).
func (s Status) Large() bool { return s&StatusLargeDetect != 0 }

// Proximity reports a valid proximity detection.
func (s Status) Proximity() bool { return s&StatusProximityValid != 0 }

// Key reports a touch key press.
func (s Status) Key() bool { return s&StatusHaveKey != 0 }

// Points returns the contact count field.
func (s Status) Points() int { return int(s & StatusPointMask) }

// needsAck reports whether the host must clear the status register after
// reading it. Counts of 6 and above are treated as a garbage read and left
// alone unless the ready bit is set.
func (s Status) needsAck() bool {
	return s.Ready() || s.Points() < 6
}
