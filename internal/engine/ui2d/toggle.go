package ui2d

// Rect is a screen-space rectangle in pixels, origin top left.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float32) Rect {
	return Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
}

// Quad is one flat colored rectangle to draw.
type Quad struct {
	Rect  Rect
	Color Color
}

// Toggle geometry in pixels.
const (
	ToggleWidth  = 56
	ToggleHeight = 28
	ToggleMargin = 24
	togglePad    = 4
)

// Toggle is an on/off switch pinned to the bottom-right corner. It starts
// hidden and ignores hits until shown.
type Toggle struct {
	Rect    Rect
	Visible bool
	On      bool
	// Hot is set while the pointer is over the switch.
	Hot bool
}

// Layout pins the switch to the corner of a screen of the given size.
func (t *Toggle) Layout(width, height int) {
	t.Rect = Rect{
		X: float32(width) - ToggleMargin - ToggleWidth,
		Y: float32(height) - ToggleMargin - ToggleHeight,
		W: ToggleWidth,
		H: ToggleHeight,
	}
}

// Hover updates Hot from a pointer position.
func (t *Toggle) Hover(x, y float32) {
	t.Hot = t.Visible && t.Rect.Contains(x, y)
}

// Hit reports whether a click at (x, y) lands on the visible switch.
func (t *Toggle) Hit(x, y float32) bool {
	return t.Visible && t.Rect.Contains(x, y)
}

// Quads returns the shapes to draw; none while hidden.
func (t *Toggle) Quads() []Quad {
	if !t.Visible {
		return nil
	}

	track := ColorTrackOff
	if t.On {
		track = ColorTrackOn
	}

	knobSize := t.Rect.H - 2*togglePad
	knob := Rect{X: t.Rect.X + togglePad, Y: t.Rect.Y + togglePad, W: knobSize, H: knobSize}
	if t.On {
		knob.X = t.Rect.X + t.Rect.W - togglePad - knobSize
	}

	quads := make([]Quad, 0, 3)
	if t.Hot {
		quads = append(quads, Quad{Rect: t.Rect.Inset(-2), Color: ColorHotRing})
		track = track.Lighten(0.15)
	}
	return append(quads,
		Quad{Rect: t.Rect, Color: track},
		Quad{Rect: knob, Color: ColorKnob},
	)
}
