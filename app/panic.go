package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"tftdeck/gui"
	"tftdeck/hal"
	"tftdeck/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// installPanicHandler logs a task panic and paints it on the panel. The GUI
// lock is taken so no flush is in flight, and the flush port is switched off
// for good.
func (s *System) installPanicHandler() {
	s.sys.OnPanic(func(info kernel.PanicInfo) {
		hal.Logf(s.log, "panic: task=%s value=%v", info.Task, info.Value)
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				hal.Logf(s.log, "%s", line)
			}
		}

		s.shared.With(func(*gui.Runtime) {
			s.display.SetEnabled(false)
			s.paintPanic(info)
		})
	})
}

func (s *System) paintPanic(info kernel.PanicInfo) {
	s.panel.FillScreen(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})

	font := &proggy.TinySZ8pt7b
	fontHeight, fontOffset := int16(10), int16(6)
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		return
	}

	lines := []string{
		"Panic:",
		fmt.Sprintf("task: %s", info.Task),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	fg := color.RGBA{A: 0xFF}
	w, h := s.panel.Size()
	cols := max(w/fontWidth, 1)

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+fontHeight > h {
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(s.panel, font, 0, y+fontOffset, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

// takeRunes splits s after n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
