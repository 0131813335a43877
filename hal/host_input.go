//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pollInput maps the mouse onto the touch controller, keys 1 and 2 onto the
// buttons and the arrow keys onto the joystick.
func (g *hostGame) pollInput() {
	h := g.h

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		sx, sy := ebiten.CursorPosition()
		h.TouchScreen(sx, sy)
	} else {
		h.touch.Release()
	}

	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		h.PressButton(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		h.PressButton(1)
	}

	x, y := uint16(ADCMax/2), uint16(ADCMax/2)
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		x = 0
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		x = ADCMax
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		y = ADCMax
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		y = 0
	}
	h.SetJoystick(x, y)
}
