//go:build !tinygo && cgo

package hal

import (
	"tftdeck/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a desktop window that shows the simulated panel and turns
// mouse and keyboard input into touch, button and joystick activity.
// It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error) error {
	h := NewHost(HostConfig{})
	step := newApp(h)

	if err := h.tone.start(); err != nil {
		Logf(h.logger, "host: audio unavailable: %v", err)
	}

	g := &hostGame{h: h, step: step}
	w, ht := h.panel.Size()
	ebiten.SetWindowTitle("tftdeck (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(w*2, ht*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *Host
	w, ht   int
	pix     []byte
	scratch []byte
	fbImg   *ebiten.Image
	step    func() error
}

func (g *hostGame) Update() error {
	g.pollInput()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	w, ht := g.h.panel.Size()
	if g.fbImg == nil || g.w != w || g.ht != ht {
		g.w, g.ht = w, ht
		g.pix = make([]byte, w*ht*4)
		g.scratch = make([]byte, w*ht*2)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, ht)
	}

	if _, _, err := g.h.panel.Snapshot(g.scratch); err != nil {
		return
	}

	src := g.scratch
	dst := g.pix
	for i := 0; i+1 < len(src); i += 2 {
		// Panel memory is big-endian RGB565.
		r, gg, b := rgb888From565(uint16(src[i])<<8 | uint16(src[i+1]))
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.panel.Size()
}
