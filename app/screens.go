package app

import (
	"fmt"
	"image/color"

	"tftdeck/gui"
	"tftdeck/hal"
	"tftdeck/internal/buildinfo"
)

var (
	white    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	gray     = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}
	green    = color.RGBA{G: 0xE0, A: 0xFF}
	red      = color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	yellow   = color.RGBA{R: 0xFF, G: 0xD6, A: 0xFF}
	darkBlue = color.RGBA{R: 0x10, G: 0x18, B: 0x30, A: 0xFF}
)

const (
	// joyTravel is the ball's travel inside the joystick frame.
	joyTravel = 88
	ballR     = 6
)

// screens holds the widgets. It is only touched under the GUI lock.
type screens struct {
	rt   *gui.Runtime
	home *gui.Screen
	hw   *gui.Screen

	uptime *gui.Label
	demo   *gui.Button

	leds   [2]*gui.LED
	frame  *gui.Box
	ball   *gui.Circle
	joyVal *gui.Label
	reset  *gui.Button
	beep   *gui.Button
	back   *gui.Button
	beepOn bool
}

func newScreens(rt *gui.Runtime, s *System) *screens {
	w, h := rt.Display().Size()
	ui := &screens{rt: rt, home: rt.NewScreen(), hw: rt.NewScreen()}

	ui.uptime = gui.NewLabel(10, 30, "up 0s", gray)
	ui.demo = gui.NewButton(gui.Rect((w-200)/2, h/2-30, 200, 60), "Hardware Demo", func() {
		s.adcOn.Store(true)
		rt.Load(ui.hw)
	})
	ui.home.Add(
		gui.NewLabel(10, 10, "tftdeck "+buildinfo.Short(), white),
		ui.uptime,
		ui.demo,
	)

	ui.leds[0] = gui.NewLED(30, 70, 14, green, gray)
	ui.leds[1] = gui.NewLED(130, 70, 14, green, gray)
	ui.frame = gui.NewBox(gui.Rect(10, 110, joyTravel+2*ballR+1, joyTravel+2*ballR+1), darkBlue, white)
	ui.ball = gui.NewCircle(0, 0, ballR, yellow)
	ui.joyVal = gui.NewLabel(130, 150, "", white)
	ui.setJoystick(hal.ADCMax/2, hal.ADCMax/2)

	ui.reset = gui.NewButton(gui.Rect(10, 230, 140, 50), "RESET", s.requestReboot)
	ui.reset.Fill = red
	ui.beep = gui.NewButton(gui.Rect(170, 230, 140, 50), "Beep: off", func() {
		ui.beepOn = s.toggleBuzzer()
		if ui.beepOn {
			ui.beep.SetCaption("Beep: on")
		} else {
			ui.beep.SetCaption("Beep: off")
		}
	})
	ui.back = gui.NewButton(gui.Rect(w-90, 4, 80, 36), "Back", func() {
		rt.Load(ui.home)
	})
	ui.hw.Add(
		gui.NewLabel(10, 10, "Hardware Demo", white),
		ui.back,
		ui.leds[0], gui.NewLabel(50, 64, "BTN1", white),
		ui.leds[1], gui.NewLabel(150, 64, "BTN2", white),
		ui.frame, ui.ball, ui.joyVal,
		ui.reset, ui.beep,
	)

	rt.AddTimer(1000, func() {
		ui.uptime.SetText(fmt.Sprintf("up %ds", rt.Ticks()/1000))
	})
	rt.Load(ui.home)
	return ui
}

func (ui *screens) setLED(i int, on bool) {
	if i >= 0 && i < len(ui.leds) {
		ui.leds[i].SetOn(on)
	}
}

// joystickOffset maps 12-bit readings onto the ball's travel. Y grows
// downwards on screen, so it is inverted.
func joystickOffset(x, y uint16) (dx, dy int16) {
	dx = int16(uint32(x) * joyTravel / hal.ADCMax)
	dy = joyTravel - int16(uint32(y)*joyTravel/hal.ADCMax)
	return dx, dy
}

func (ui *screens) setJoystick(x, y uint16) {
	dx, dy := joystickOffset(x, y)
	f := ui.frame.Bounds()
	ui.ball.SetCenter(f.X1+ballR+dx, f.Y1+ballR+dy)
	ui.joyVal.SetText(fmt.Sprintf("X:%4d Y:%4d", x, y))
}
