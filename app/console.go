package app

import (
	"tftdeck/hal"
	"tftdeck/st7796"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// console mirrors boot log lines to a terminal on the panel until the GUI
// takes over the display.
type console struct {
	base hal.Logger
	term *tinyterm.Terminal
}

func newConsole(panel *st7796.Device, base hal.Logger) *console {
	term := tinyterm.NewTerminal(panel)
	term.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        10,
		FontOffset:        6,
		UseSoftwareScroll: true,
	})
	return &console{base: base, term: term}
}

func (c *console) WriteLineString(s string) {
	if c.base != nil {
		c.base.WriteLineString(s)
	}
	c.term.Write([]byte(s))
	c.term.Write([]byte("\r\n"))
}

func (c *console) WriteLineBytes(b []byte) {
	if c.base != nil {
		c.base.WriteLineBytes(b)
	}
	c.term.Write(b)
	c.term.Write([]byte("\r\n"))
}
