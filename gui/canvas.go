package gui

import (
	"image/color"

	"tinygo.org/x/drivers/pixel"
)

// Canvas draws into one band of the draw buffer. Coordinates are screen
// coordinates; anything outside the band is clipped. Canvas implements
// drivers.Displayer so tinyfont can render into it.
type Canvas struct {
	img  pixel.Image[pixel.RGB565BE]
	band Area
	w, h int16
}

func (c *Canvas) Size() (x, y int16) { return c.w, c.h }

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if !c.band.Contains(x, y) {
		return
	}
	c.img.Set(int(x), int(y-c.band.Y1), toPixel(col))
}

func (c *Canvas) Display() error { return nil }

// Band returns the area the canvas covers.
func (c *Canvas) Band() Area { return c.band }

// FillRect fills a.
func (c *Canvas) FillRect(a Area, col color.RGBA) {
	a = a.Intersect(c.band)
	if a.Empty() {
		return
	}
	p := toPixel(col)
	for y := a.Y1; y <= a.Y2; y++ {
		for x := a.X1; x <= a.X2; x++ {
			c.img.Set(int(x), int(y-c.band.Y1), p)
		}
	}
}

// StrokeRect draws a one-pixel border along the edge of a.
func (c *Canvas) StrokeRect(a Area, col color.RGBA) {
	c.FillRect(Area{a.X1, a.Y1, a.X2, a.Y1}, col)
	c.FillRect(Area{a.X1, a.Y2, a.X2, a.Y2}, col)
	c.FillRect(Area{a.X1, a.Y1, a.X1, a.Y2}, col)
	c.FillRect(Area{a.X2, a.Y1, a.X2, a.Y2}, col)
}

// FillCircle fills a disc of radius r centred on cx, cy.
func (c *Canvas) FillCircle(cx, cy, r int16, col color.RGBA) {
	if r < 0 {
		return
	}
	y1, y2 := max(cy-r, c.band.Y1), min(cy+r, c.band.Y2)
	rr := int32(r) * int32(r)
	for y := y1; y <= y2; y++ {
		dy := int32(y - cy)
		dx := int16(isqrt(rr - dy*dy))
		c.FillRect(Area{cx - dx, y, cx + dx, y}, col)
	}
}

func isqrt(v int32) int32 {
	if v <= 0 {
		return 0
	}
	x := v
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return x
}

func toPixel(c color.RGBA) pixel.RGB565BE {
	return pixel.NewColor[pixel.RGB565BE](c.R, c.G, c.B)
}
