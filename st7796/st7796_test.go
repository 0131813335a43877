package st7796

import (
	"errors"
	"fmt"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tftdeck/bus"
)

// wire logs what the controller would see: reset line changes, delays, and
// each SPI transfer tagged by the DC level.
type wire struct {
	log   []string
	cs    bool
	dc    bool
	fail  bool
	notCS int
}

type pin struct {
	w   *wire
	set func(bool)
}

func (p pin) High() { p.set(true) }
func (p pin) Low()  { p.set(false) }

func (w *wire) Tx(out, in []byte) error {
	if w.cs {
		w.notCS++
	}
	if w.fail {
		return errors.New("spi fault")
	}
	if !w.dc {
		for _, b := range out {
			w.log = append(w.log, fmt.Sprintf("cmd %02X", b))
		}
		return nil
	}
	w.log = append(w.log, fmt.Sprintf("data % X", out))
	return nil
}

func (w *wire) Transfer(b byte) (byte, error) {
	return 0, w.Tx([]byte{b}, nil)
}

func newDevice() (*Device, *wire) {
	w := &wire{cs: true, dc: true}
	cs := pin{w, func(v bool) { w.cs = v }}
	dc := pin{w, func(v bool) { w.dc = v }}
	rst := pin{w, func(v bool) {
		if v {
			w.log = append(w.log, "rst=1")
		} else {
			w.log = append(w.log, "rst=0")
		}
	}}
	d := New(w, cs, dc, rst)
	d.Delay = func(t time.Duration) { w.log = append(w.log, "sleep "+t.String()) }
	return d, w
}

func TestConfigureSequence(t *testing.T) {
	d, w := newDevice()
	d.Configure()

	want := []string{
		"rst=1", "sleep 100ms",
		"rst=0", "sleep 100ms",
		"rst=1", "sleep 100ms",
	}
	for _, s := range InitSequence {
		want = append(want, fmt.Sprintf("cmd %02X", s.Cmd))
		if len(s.Data) > 0 {
			want = append(want, fmt.Sprintf("data % X", s.Data))
		}
		if s.Delay > 0 {
			want = append(want, "sleep "+s.Delay.String())
		}
	}
	want = append(want, "cmd 36", "data 48", "cmd 21")

	if diff := cmp.Diff(want, w.log); diff != "" {
		t.Fatalf("Configure() wire log mismatch (-want +got):\n%s", diff)
	}
	if w.notCS != 0 {
		t.Fatalf("%d transfers outside chip select", w.notCS)
	}
	if !d.Ready() {
		t.Fatalf("Ready() = false after Configure")
	}
	if d.Orientation() != Portrait {
		t.Fatalf("Orientation() = %v, want %v", d.Orientation(), Portrait)
	}
}

func TestInitSequenceShape(t *testing.T) {
	if got, want := len(InitSequence), 24; got != want {
		t.Fatalf("len(InitSequence) = %d, want %d", got, want)
	}
	for i, s := range InitSequence {
		if len(s.Data) > 16 {
			t.Fatalf("step %d: %d parameter bytes", i, len(s.Data))
		}
	}
	last := InitSequence[len(InitSequence)-2:]
	if last[0].Cmd != SLPOUT || last[1].Cmd != DISPON {
		t.Fatalf("sequence does not end with sleep-out, display-on")
	}
}

func TestOrientation(t *testing.T) {
	tests := []struct {
		o    Orientation
		want string
		w, h int16
	}{
		{Portrait, "data 48", 320, 480},
		{Landscape, "data 28", 480, 320},
		{PortraitInverted, "data 88", 320, 480},
		{LandscapeInverted, "data E8", 480, 320},
		{Orientation(7), "data 48", 320, 480},
	}
	for _, tt := range tests {
		d, w := newDevice()
		d.SetOrientation(tt.o)
		if diff := cmp.Diff([]string{"cmd 36", tt.want}, w.log); diff != "" {
			t.Fatalf("SetOrientation(%d) (-want +got):\n%s", tt.o, diff)
		}
		if x, y := d.Size(); x != tt.w || y != tt.h {
			t.Fatalf("SetOrientation(%d): Size() = %d,%d, want %d,%d", tt.o, x, y, tt.w, tt.h)
		}
	}
}

func TestSetWindow(t *testing.T) {
	d, w := newDevice()
	d.SetWindow(0x0102, 0x0304, 0x013F, 0x01DF)
	want := []string{
		"cmd 2A", "data 01 02 01 3F",
		"cmd 2B", "data 03 04 01 DF",
		"cmd 2C",
	}
	if diff := cmp.Diff(want, w.log); diff != "" {
		t.Fatalf("SetWindow() (-want +got):\n%s", diff)
	}
}

func TestWriteColor(t *testing.T) {
	d, w := newDevice()
	d.WriteColor(nil)
	if len(w.log) != 0 {
		t.Fatalf("WriteColor(nil) wrote %v", w.log)
	}

	px := make([]byte, 200)
	for i := range px {
		px[i] = byte(i)
	}
	d.WriteColor(px)
	if len(w.log) != 1 {
		t.Fatalf("WriteColor() transfers = %d, want 1", len(w.log))
	}
	if want := fmt.Sprintf("data % X", px); w.log[0] != want {
		t.Fatalf("WriteColor() sent %q", w.log[0])
	}
}

func TestFillRectangleClips(t *testing.T) {
	d, w := newDevice()
	if err := d.FillRectangle(-5, 470, 10, 20, color.RGBA{R: 0xFF}); err != nil {
		t.Fatalf("FillRectangle() error = %v", err)
	}
	want := []string{
		"cmd 2A", "data 00 00 00 04",
		"cmd 2B", "data 01 D6 01 DF",
		"cmd 2C",
	}
	if diff := cmp.Diff(want, w.log[:5]); diff != "" {
		t.Fatalf("FillRectangle() window (-want +got):\n%s", diff)
	}
	// 5x10 pixels at 2 bytes each.
	n := 0
	for _, l := range w.log[5:] {
		n += (len(l) - len("data ") + 1) / 3
	}
	if n != 100 {
		t.Fatalf("FillRectangle() streamed %d bytes, want 100", n)
	}
	if w.log[5][:10] != "data F8 00" {
		t.Fatalf("FillRectangle() color bytes = %q", w.log[5][:10])
	}
}

func TestStickyError(t *testing.T) {
	d, w := newDevice()
	w.fail = true
	d.Configure()
	err := d.Panel().Err()
	if !errors.Is(err, bus.ErrTransport) {
		t.Fatalf("Panel().Err() = %v, want %v", err, bus.ErrTransport)
	}
	if !d.Ready() {
		t.Fatalf("Configure() must complete without an error channel")
	}
}

func TestSleepAndPower(t *testing.T) {
	d, w := newDevice()
	d.SetSleep(true)
	d.SetSleep(false)
	d.SetDisplayOn(false)
	d.SetScroll(300)
	want := []string{"cmd 10", "cmd 11", "sleep 100ms", "cmd 28", "cmd 37", "data 01 2C"}
	if diff := cmp.Diff(want, w.log); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestRGB565(t *testing.T) {
	if got := RGB565(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF}); got != 0xFFFF {
		t.Fatalf("RGB565(white) = %#04x", got)
	}
	if got := RGB565(color.RGBA{G: 0xFF}); got != 0x07E0 {
		t.Fatalf("RGB565(green) = %#04x", got)
	}
}

func TestParseOrientation(t *testing.T) {
	o, ok := ParseOrientation("landscape-inverted")
	if !ok || o != LandscapeInverted {
		t.Fatalf("ParseOrientation() = %v, %v", o, ok)
	}
	if _, ok := ParseOrientation("sideways"); ok {
		t.Fatalf("ParseOrientation(sideways) ok")
	}
}
