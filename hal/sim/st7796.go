package sim

import (
	"errors"
	"sync"
)

// ST7796 simulates the display controller's command decoder and frame
// memory. Pixels are kept in panel byte order (big-endian RGB565) in the
// current address orientation.
type ST7796 struct {
	mu sync.Mutex

	cs, dc, rst bool

	cmd    byte
	params []byte

	madctl   byte
	colmod   byte
	awake    bool
	on       bool
	inverted bool
	scroll   uint16

	x0, x1, y0, y1 uint16
	cx, cy         uint16
	writing        bool
	half           byte
	odd            bool

	fb       [glassWidth * glassHeight * 2]byte
	commands int
	resets   int
	fault    error
}

// NewST7796 returns a panel in its power-on state.
func NewST7796() *ST7796 {
	s := &ST7796{cs: true, dc: true, rst: true}
	s.powerOn()
	return s
}

func (s *ST7796) powerOn() {
	s.madctl = 0
	s.awake = false
	s.on = false
	s.inverted = false
	s.writing = false
	s.x0, s.x1, s.y0, s.y1 = 0, 319, 0, 479
}

// CS, DC and RST return the control lines.
func (s *ST7796) CS() Pin  { return Pin{s.setCS} }
func (s *ST7796) DC() Pin  { return Pin{s.setDC} }
func (s *ST7796) RST() Pin { return Pin{s.setRST} }

func (s *ST7796) setCS(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cs = v
}

func (s *ST7796) setDC(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc = v
}

func (s *ST7796) setRST(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rst && !v {
		s.resets++
		s.powerOn()
	}
	s.rst = v
}

// SetFault makes every transfer fail with err until cleared with nil.
func (s *ST7796) SetFault(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = err
}

// Tx implements drivers.SPI. Transfers with CS high are ignored by the
// panel.
func (s *ST7796) Tx(w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault != nil {
		return s.fault
	}
	if s.cs || !s.rst {
		return nil
	}
	for _, b := range w {
		if !s.dc {
			s.command(b)
		} else {
			s.data(b)
		}
	}
	for i := range r {
		r[i] = 0
	}
	return nil
}

// Transfer implements drivers.SPI.
func (s *ST7796) Transfer(b byte) (byte, error) {
	err := s.Tx([]byte{b}, nil)
	return 0, err
}

func (s *ST7796) command(b byte) {
	s.commands++
	s.cmd = b
	s.params = s.params[:0]
	s.writing = false
	switch b {
	case 0x01:
		s.powerOn()
	case 0x10:
		s.awake = false
	case 0x11:
		s.awake = true
	case 0x20:
		s.inverted = false
	case 0x21:
		s.inverted = true
	case 0x28:
		s.on = false
	case 0x29:
		s.on = true
	case 0x2C:
		s.writing = true
		s.cx, s.cy = s.x0, s.y0
		s.odd = false
	}
}

func (s *ST7796) data(b byte) {
	if s.writing {
		s.pixelByte(b)
		return
	}
	s.params = append(s.params, b)
	p := s.params
	switch s.cmd {
	case 0x2A:
		if len(p) == 4 {
			s.x0, s.x1 = be16(p[0], p[1]), be16(p[2], p[3])
		}
	case 0x2B:
		if len(p) == 4 {
			s.y0, s.y1 = be16(p[0], p[1]), be16(p[2], p[3])
		}
	case 0x36:
		s.madctl = b
	case 0x37:
		if len(p) == 2 {
			s.scroll = be16(p[0], p[1])
		}
	case 0x3A:
		s.colmod = b
	}
}

func (s *ST7796) pixelByte(b byte) {
	if !s.odd {
		s.half = b
		s.odd = true
		return
	}
	s.odd = false
	w, h := s.size()
	if s.cx < w && s.cy < h {
		gx, gy := s.toGlass(int(s.cx), int(s.cy))
		off := (gy*glassWidth + gx) * 2
		s.fb[off], s.fb[off+1] = s.half, b
	}
	if s.cx >= s.x1 {
		s.cx = s.x0
		if s.cy >= s.y1 {
			s.cy = s.y0
		} else {
			s.cy++
		}
		return
	}
	s.cx++
}

const (
	glassWidth  = 320
	glassHeight = 480

	madctlMY = 0x80
	madctlMX = 0x40
	madctlMV = 0x20
)

// toGlass maps an address-space point to the glass, in the portrait frame
// the touch controller reports in. The module mirrors columns, so MADCTL
// 0x48 (MX) is the upright portrait image and 0x28, 0x88, 0xE8 are further
// 90 degree clockwise steps.
func (s *ST7796) toGlass(x, y int) (gx, gy int) {
	a, b := x, y
	if s.madctl&madctlMV != 0 {
		a, b = y, x
	}
	if s.madctl&madctlMX != 0 {
		a = glassWidth - 1 - a
	}
	if s.madctl&madctlMY != 0 {
		b = glassHeight - 1 - b
	}
	return glassWidth - 1 - a, b
}

// ToGlass maps a point of the visible image in the current orientation to
// glass coordinates. ok is false outside the image.
func (s *ST7796) ToGlass(x, y int) (gx, gy int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, h := s.size()
	if x < 0 || y < 0 || x >= int(w) || y >= int(h) {
		return 0, 0, false
	}
	gx, gy = s.toGlass(x, y)
	return gx, gy, true
}

// size follows the row/column exchange bit of MADCTL.
func (s *ST7796) size() (w, h uint16) {
	if s.madctl&0x20 != 0 {
		return 480, 320
	}
	return 320, 480
}

// Size returns the current address space size.
func (s *ST7796) Size() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw, sh := s.size()
	return int(sw), int(sh)
}

// Pixel returns the RGB565 value at x, y of the image as seen in the
// current orientation.
func (s *ST7796) Pixel(x, y int) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, h := s.size()
	if x < 0 || y < 0 || x >= int(w) || y >= int(h) {
		return 0
	}
	gx, gy := s.toGlass(x, y)
	return s.glass(gx, gy)
}

// Glass returns the RGB565 value at a glass position, independent of
// MADCTL.
func (s *ST7796) Glass(x, y int) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x < 0 || y < 0 || x >= glassWidth || y >= glassHeight {
		return 0
	}
	return s.glass(x, y)
}

func (s *ST7796) glass(x, y int) uint16 {
	off := (y*glassWidth + x) * 2
	return uint16(s.fb[off])<<8 | uint16(s.fb[off+1])
}

// Snapshot copies the image as seen in the current orientation into dst,
// which must hold w*h*2 bytes.
func (s *ST7796) Snapshot(dst []byte) (w, h int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw, sh := s.size()
	w, h = int(sw), int(sh)
	if len(dst) < w*h*2 {
		return 0, 0, errors.New("sim: st7796: snapshot buffer too small")
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx, gy := s.toGlass(x, y)
			src := (gy*glassWidth + gx) * 2
			dst[(y*w+x)*2], dst[(y*w+x)*2+1] = s.fb[src], s.fb[src+1]
		}
	}
	return w, h, nil
}

// PanelState is the decoded controller state.
type PanelState struct {
	MADCTL   byte
	COLMOD   byte
	Awake    bool
	On       bool
	Inverted bool
	Scroll   uint16
	Commands int
	Resets   int
}

// State returns the decoded controller state.
func (s *ST7796) State() PanelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PanelState{
		MADCTL:   s.madctl,
		COLMOD:   s.colmod,
		Awake:    s.awake,
		On:       s.on,
		Inverted: s.inverted,
		Scroll:   s.scroll,
		Commands: s.commands,
		Resets:   s.resets,
	}
}

func be16(hi, lo byte) uint16 { return uint16(hi)<<8 | uint16(lo) }
