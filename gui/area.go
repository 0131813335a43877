package gui

// Area is an inclusive pixel rectangle.
type Area struct {
	X1, Y1 int16
	X2, Y2 int16
}

// Rect returns the area of a w x h rectangle at x, y.
func Rect(x, y, w, h int16) Area {
	return Area{X1: x, Y1: y, X2: x + w - 1, Y2: y + h - 1}
}

func (a Area) Width() int16  { return a.X2 - a.X1 + 1 }
func (a Area) Height() int16 { return a.Y2 - a.Y1 + 1 }

// Empty reports whether the area covers no pixels.
func (a Area) Empty() bool { return a.X2 < a.X1 || a.Y2 < a.Y1 }

// Contains reports whether x, y lies inside the area.
func (a Area) Contains(x, y int16) bool {
	return x >= a.X1 && x <= a.X2 && y >= a.Y1 && y <= a.Y2
}

// Intersect returns the common part of a and b. The result may be empty.
func (a Area) Intersect(b Area) Area {
	return Area{
		X1: max(a.X1, b.X1),
		Y1: max(a.Y1, b.Y1),
		X2: min(a.X2, b.X2),
		Y2: min(a.Y2, b.Y2),
	}
}

// Overlaps reports whether a and b share at least one pixel.
func (a Area) Overlaps(b Area) bool { return !a.Intersect(b).Empty() }

// Join returns the bounding box of a and b.
func (a Area) Join(b Area) Area {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	return Area{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}
