package gui

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Object is a retained screen element.
type Object interface {
	Bounds() Area
	Hidden() bool
	Draw(c *Canvas)

	attach(s *Screen)
}

// Pressable objects receive pointer presses and clicks.
type Pressable interface {
	Object
	SetPressed(pressed bool)
	Click()
}

// DefaultFont is used by labels and buttons that do not set one.
var DefaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

type base struct {
	screen *Screen
	area   Area
	hidden bool
}

func (b *base) attach(s *Screen) { b.screen = s }
func (b *base) Bounds() Area     { return b.area }
func (b *base) Hidden() bool     { return b.hidden }

// SetHidden shows or hides the object.
func (b *base) SetHidden(hidden bool) {
	if b.hidden == hidden {
		return
	}
	b.hidden = hidden
	b.invalidate()
}

func (b *base) invalidate() {
	if b.screen != nil {
		b.screen.invalidate(b.area)
	}
}

// move invalidates the old and new areas.
func (b *base) move(a Area) {
	if a == b.area {
		return
	}
	b.invalidate()
	b.area = a
	b.invalidate()
}

// Box is a filled rectangle with an optional border.
type Box struct {
	base
	fill   color.RGBA
	border color.RGBA
}

// NewBox returns a filled rectangle. A zero-alpha border is not drawn.
func NewBox(a Area, fill, border color.RGBA) *Box {
	return &Box{base: base{area: a}, fill: fill, border: border}
}

func (r *Box) SetFill(c color.RGBA) {
	if r.fill == c {
		return
	}
	r.fill = c
	r.invalidate()
}

func (r *Box) Draw(c *Canvas) {
	c.FillRect(r.area, r.fill)
	if r.border.A != 0 {
		c.StrokeRect(r.area, r.border)
	}
}

// Circle is a filled disc.
type Circle struct {
	base
	r     int16
	color color.RGBA
}

func NewCircle(cx, cy, r int16, c color.RGBA) *Circle {
	o := &Circle{r: r, color: c}
	o.area = circleArea(cx, cy, r)
	return o
}

func circleArea(cx, cy, r int16) Area {
	return Area{cx - r, cy - r, cx + r, cy + r}
}

// Center returns the centre point.
func (o *Circle) Center() (x, y int16) {
	return o.area.X1 + o.r, o.area.Y1 + o.r
}

// SetCenter moves the disc.
func (o *Circle) SetCenter(cx, cy int16) {
	o.move(circleArea(cx, cy, o.r))
}

func (o *Circle) SetColor(c color.RGBA) {
	if o.color == c {
		return
	}
	o.color = c
	o.invalidate()
}

func (o *Circle) Draw(c *Canvas) {
	cx, cy := o.Center()
	c.FillCircle(cx, cy, o.r, o.color)
}

// Label is a single line of text. Its area follows the text width.
type Label struct {
	base
	text  string
	color color.RGBA
	font  tinyfont.Fonter
}

func NewLabel(x, y int16, text string, c color.RGBA) *Label {
	l := &Label{color: c, font: DefaultFont}
	l.area = Area{X1: x, Y1: y, X2: x - 1, Y2: y - 1}
	l.setText(text)
	return l
}

func (l *Label) Text() string { return l.text }

func (l *Label) SetText(s string) {
	if s == l.text {
		return
	}
	l.invalidate()
	l.setText(s)
	l.invalidate()
}

func (l *Label) setText(s string) {
	l.text = s
	_, w := tinyfont.LineWidth(l.font, s)
	h := int16(l.font.GetYAdvance())
	l.area = Area{X1: l.area.X1, Y1: l.area.Y1, X2: l.area.X1 + int16(w) - 1, Y2: l.area.Y1 + h - 1}
}

func (l *Label) SetColor(c color.RGBA) {
	if l.color == c {
		return
	}
	l.color = c
	l.invalidate()
}

func (l *Label) Draw(c *Canvas) {
	drawText(c, l.font, l.area.X1, l.area.Y1, l.text, l.color)
}

// drawText places the baseline three quarters down the line height.
func drawText(c *Canvas, font tinyfont.Fonter, x, y int16, s string, col color.RGBA) {
	h := int16(font.GetYAdvance())
	tinyfont.WriteLine(c, font, x, y+h-h/4, s, col)
}

// LED is an indicator lamp with on and off colors.
type LED struct {
	Circle
	on       bool
	onColor  color.RGBA
	offColor color.RGBA
}

func NewLED(cx, cy, r int16, on, off color.RGBA) *LED {
	l := &LED{onColor: on, offColor: off}
	l.Circle = Circle{r: r, color: off}
	l.area = circleArea(cx, cy, r)
	return l
}

func (l *LED) On() bool { return l.on }

func (l *LED) SetOn(on bool) {
	l.on = on
	if on {
		l.SetColor(l.onColor)
	} else {
		l.SetColor(l.offColor)
	}
}

// Button is a clickable box with a centred caption.
type Button struct {
	base
	text    string
	pressed bool

	Fill    color.RGBA
	Pressed color.RGBA
	Text    color.RGBA
	OnClick func()
}

func NewButton(a Area, text string, onClick func()) *Button {
	return &Button{
		base:    base{area: a},
		text:    text,
		Fill:    color.RGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF},
		Pressed: color.RGBA{R: 0x0D, G: 0x47, B: 0xA1, A: 0xFF},
		Text:    color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		OnClick: onClick,
	}
}

func (b *Button) Caption() string { return b.text }

func (b *Button) SetCaption(s string) {
	if s == b.text {
		return
	}
	b.text = s
	b.invalidate()
}

func (b *Button) IsPressed() bool { return b.pressed }

func (b *Button) SetPressed(pressed bool) {
	if b.pressed == pressed {
		return
	}
	b.pressed = pressed
	b.invalidate()
}

func (b *Button) Click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) Draw(c *Canvas) {
	fill := b.Fill
	if b.pressed {
		fill = b.Pressed
	}
	c.FillRect(b.area, fill)

	_, w := tinyfont.LineWidth(DefaultFont, b.text)
	h := int16(DefaultFont.GetYAdvance())
	x := b.area.X1 + (b.area.Width()-int16(w))/2
	y := b.area.Y1 + (b.area.Height()-h)/2
	drawText(c, DefaultFont, x, y, b.text, b.Text)
}
