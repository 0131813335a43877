//go:build !tinygo

package hal

// TouchScreen places the simulated finger on the visible image at sx, sy.
// The controller reports in the glass frame, so the point is mapped through
// the orientation the panel was last programmed with. Points outside the
// image are ignored.
func (h *Host) TouchScreen(sx, sy int) bool {
	x, y, ok := h.panel.ToGlass(sx, sy)
	if !ok {
		return false
	}
	h.touch.Touch(uint16(x), uint16(y))
	return true
}
