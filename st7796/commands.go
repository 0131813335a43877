package st7796

import "time"

// Commands.
const (
	SWRESET  = 0x01
	SLPIN    = 0x10
	SLPOUT   = 0x11
	INVOFF   = 0x20
	INVON    = 0x21
	DISPOFF  = 0x28
	DISPON   = 0x29
	CASET    = 0x2A
	RASET    = 0x2B
	RAMWR    = 0x2C
	MADCTL   = 0x36
	VSCRSADD = 0x37
	COLMOD   = 0x3A
)

const (
	Width  = 320
	Height = 480
)

// Step is one entry of an init sequence: a command, up to 16 parameter
// bytes and an optional delay applied after the command is sent.
type Step struct {
	Cmd   byte
	Data  []byte
	Delay time.Duration
}

// InitSequence is the panel bring-up table replayed by Configure after reset.
var InitSequence = []Step{
	{Cmd: 0xCF, Data: []byte{0x00, 0x83, 0x30}},
	{Cmd: 0xED, Data: []byte{0x64, 0x03, 0x12, 0x81}},
	{Cmd: 0xE8, Data: []byte{0x85, 0x01, 0x79}},
	{Cmd: 0xCB, Data: []byte{0x39, 0x2C, 0x00, 0x34, 0x02}},
	{Cmd: 0xF7, Data: []byte{0x20}},
	{Cmd: 0xEA, Data: []byte{0x00, 0x00}},
	{Cmd: 0xC0, Data: []byte{0x26}},       // power control 1
	{Cmd: 0xC1, Data: []byte{0x11}},       // power control 2
	{Cmd: 0xC5, Data: []byte{0x35, 0x3E}}, // VCOM
	{Cmd: 0xC7, Data: []byte{0xBE}},
	{Cmd: MADCTL, Data: []byte{0x28}},
	{Cmd: COLMOD, Data: []byte{0x05}}, // 16bpp
	{Cmd: 0xB1, Data: []byte{0x00, 0x1B}},
	{Cmd: 0xF2, Data: []byte{0x08}},
	{Cmd: 0x26, Data: []byte{0x01}}, // gamma curve 1
	{Cmd: 0xE0, Data: []byte{0x1F, 0x1A, 0x18, 0x0A, 0x0F, 0x06, 0x45, 0x87, 0x32, 0x0A, 0x07, 0x02, 0x07, 0x05, 0x00}},
	{Cmd: 0xE1, Data: []byte{0x00, 0x25, 0x27, 0x05, 0x10, 0x09, 0x3A, 0x78, 0x4D, 0x05, 0x18, 0x0D, 0x38, 0x3A, 0x1F}},
	{Cmd: CASET, Data: []byte{0x00, 0x00, 0x00, 0xEF}},
	{Cmd: RASET, Data: []byte{0x00, 0x00, 0x01, 0x3F}},
	{Cmd: RAMWR},
	{Cmd: 0xB7, Data: []byte{0x07}},
	{Cmd: 0xB6, Data: []byte{0x0A, 0x82, 0x27, 0x00}},
	{Cmd: SLPOUT, Delay: 100 * time.Millisecond},
	{Cmd: DISPON, Delay: 100 * time.Millisecond},
}

// Orientation selects the scan direction through MADCTL.
type Orientation uint8

const (
	Portrait Orientation = iota
	Landscape
	PortraitInverted
	LandscapeInverted
)

// madctl returns the MADCTL parameter. Unknown values fall back to portrait.
func (o Orientation) madctl() byte {
	switch o {
	case Landscape:
		return 0x28
	case PortraitInverted:
		return 0x88
	case LandscapeInverted:
		return 0xE8
	default:
		return 0x48
	}
}

func (o Orientation) landscape() bool {
	return o == Landscape || o == LandscapeInverted
}

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	case PortraitInverted:
		return "portrait-inverted"
	case LandscapeInverted:
		return "landscape-inverted"
	default:
		return "unknown"
	}
}

// ParseOrientation parses the names returned by Orientation.String.
func ParseOrientation(s string) (Orientation, bool) {
	for o := Portrait; o <= LandscapeInverted; o++ {
		if o.String() == s {
			return o, true
		}
	}
	return Portrait, false
}
