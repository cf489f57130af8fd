package trail

import "math"

// Dot is one rendered point of the trail.
type Dot struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}

// Frame is the rendered state of a trail at one tick.
type Frame struct {
	Visible bool   `json:"visible"`
	Color   string `json:"color"`
	Dots    []Dot  `json:"dots"`
}

// Dots renders the pointer dot followed by one dot per follower. Follower
// size shrinks linearly towards MinFollowerScale of the base size and
// opacity fades linearly from the configured trail opacity. Every dot is
// transparent while the trail is hidden.
func (t *Trail) Dots() []Dot {
	n := t.cfg.Length
	dots := make([]Dot, 0, n+1)

	head := t.positions[0]
	dots = append(dots, Dot{
		X:       head.X,
		Y:       head.Y,
		Size:    t.cfg.Size,
		Opacity: t.visibleOr(1),
	})

	for k := 0; k < n; k++ {
		p := t.positions[k+1]
		frac := float64(k) / float64(n)
		dots = append(dots, Dot{
			X:       p.X,
			Y:       p.Y,
			Size:    math.Max(t.cfg.Size*(1-frac*(1-MinFollowerScale)), t.cfg.Size*MinFollowerScale),
			Opacity: t.visibleOr(t.cfg.Opacity * (1 - frac)),
		})
	}

	return dots
}

// Frame renders the trail together with its visibility and color.
func (t *Trail) Frame() Frame {
	return Frame{
		Visible: t.visible,
		Color:   t.cfg.Color,
		Dots:    t.Dots(),
	}
}

func (t *Trail) visibleOr(opacity float64) float64 {
	if !t.visible {
		return 0
	}
	return opacity
}

// Equal reports whether two frames would render identically.
func (f Frame) Equal(other Frame) bool {
	if f.Visible != other.Visible || f.Color != other.Color || len(f.Dots) != len(other.Dots) {
		return false
	}
	for i := range f.Dots {
		if f.Dots[i] != other.Dots[i] {
			return false
		}
	}
	return true
}

// Quantize rounds dot coordinates, sizes and opacities to multiples of
// step so that sub-pixel motion does not produce a new frame. A step of
// zero or less returns f unchanged.
func (f Frame) Quantize(step float64) Frame {
	if step <= 0 {
		return f
	}

	inv := 1 / step
	round := func(v float64) float64 {
		return math.Round(v*inv) / inv
	}

	out := Frame{
		Visible: f.Visible,
		Color:   f.Color,
		Dots:    make([]Dot, len(f.Dots)),
	}
	for i, d := range f.Dots {
		out.Dots[i] = Dot{
			X:       round(d.X),
			Y:       round(d.Y),
			Size:    round(d.Size),
			Opacity: round(d.Opacity),
		}
	}
	return out
}
