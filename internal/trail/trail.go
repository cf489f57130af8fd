package trail

// Point is a position in viewport coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trail holds the pointer position and the lagging follower points.
// positions[0] is the pointer; positions[1..Length] chase it. Trail is
// not safe for concurrent use; Animator adds the locking.
type Trail struct {
	cfg       Config
	positions []Point
	visible   bool
}

// New creates a hidden trail with every point off-screen.
func New(cfg Config) *Trail {
	cfg = cfg.Normalize()

	positions := make([]Point, cfg.Length+1)
	for i := range positions {
		positions[i] = Point{X: OffScreen, Y: OffScreen}
	}

	return &Trail{
		cfg:       cfg,
		positions: positions,
	}
}

// Config returns the normalized configuration.
func (t *Trail) Config() Config {
	return t.cfg
}

// Len returns the number of followers.
func (t *Trail) Len() int {
	return t.cfg.Length
}

// Visible reports whether the pointer is within the viewport.
func (t *Trail) Visible() bool {
	return t.visible
}

// Positions returns a copy of all points, pointer first.
func (t *Trail) Positions() []Point {
	out := make([]Point, len(t.positions))
	copy(out, t.positions)
	return out
}

// Move records a pointer move and makes the trail visible.
func (t *Trail) Move(x, y float64) {
	t.positions[0] = Point{X: x, Y: y}
	t.visible = true
}

// Enter marks the pointer as inside the viewport.
func (t *Trail) Enter() {
	t.visible = true
}

// Leave marks the pointer as outside the viewport.
func (t *Trail) Leave() {
	t.visible = false
}

// Tick advances every follower a fraction Speed of the way towards its
// predecessor. It runs regardless of visibility so the trail is already
// in place when the pointer comes back.
func (t *Trail) Tick() {
	speed := t.cfg.Speed
	for i := len(t.positions) - 1; i > 0; i-- {
		prev := t.positions[i-1]
		cur := &t.positions[i]
		cur.X += (prev.X - cur.X) * speed
		cur.Y += (prev.Y - cur.Y) * speed
	}
}

// SetColor changes the dot color, for example after a theme switch. An
// empty color restores DefaultColor.
func (t *Trail) SetColor(color string) {
	if color == "" {
		color = DefaultColor
	}
	t.cfg.Color = color
}
