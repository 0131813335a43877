package port

import "tftdeck/st7796"

// Transform maps touch controller coordinates to display coordinates.
// Steps are applied in order: optional axis swap, scaling from the touch
// resolution to the display resolution, then mirroring.
type Transform struct {
	SwapXY  bool
	InvertX bool
	InvertY bool

	// TouchWidth and TouchHeight are the controller's native resolution.
	// Zero means the same as the display before the swap.
	TouchWidth, TouchHeight int16
	// Width and Height are the display resolution after the swap.
	Width, Height int16
}

// TransformFor returns the transform matching a panel orientation for a
// controller mounted in the panel's native portrait frame.
func TransformFor(o st7796.Orientation, touchW, touchH int16) Transform {
	t := Transform{TouchWidth: touchW, TouchHeight: touchH, Width: st7796.Width, Height: st7796.Height}
	// Each orientation turns the image a further 90 degrees clockwise.
	switch o {
	case st7796.Landscape:
		t.SwapXY, t.InvertY = true, true
	case st7796.PortraitInverted:
		t.InvertX, t.InvertY = true, true
	case st7796.LandscapeInverted:
		t.SwapXY, t.InvertX = true, true
	}
	if t.SwapXY {
		t.Width, t.Height = t.Height, t.Width
	}
	return t
}

// Apply maps a raw sample. The result is clamped to the display.
func (t Transform) Apply(x, y uint16) (int16, int16) {
	tx, ty := int32(x), int32(y)
	tw, th := int32(t.TouchWidth), int32(t.TouchHeight)
	w, h := int32(t.Width), int32(t.Height)
	if t.SwapXY {
		tx, ty = ty, tx
		tw, th = th, tw
	}
	if tw > 0 && w > 0 && tw != w {
		tx = tx * w / tw
	}
	if th > 0 && h > 0 && th != h {
		ty = ty * h / th
	}
	if t.InvertX && w > 0 {
		tx = w - 1 - tx
	}
	if t.InvertY && h > 0 {
		ty = h - 1 - ty
	}
	return clamp(tx, w), clamp(ty, h)
}

func clamp(v, n int32) int16 {
	if n <= 0 {
		return int16(v)
	}
	return int16(max(0, min(v, n-1)))
}
