package tui

import (
	"log"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/larsks/crmpro/internal/theme"
	"github.com/larsks/crmpro/internal/trail"
)

// frameMsg carries a frame from the animator goroutine into the program.
type frameMsg trail.Frame

// Glyphs by relative dot size, largest first.
var glyphs = []struct {
	minScale float64
	glyph    string
}{
	{0.85, "●"},
	{0.6, "•"},
	{0, "·"},
}

// Model draws the cursor trail in the terminal.
type Model struct {
	cfg      *Config
	animator *trail.Animator
	store    *theme.Store

	palette Palette
	frame   trail.Frame
	width   int
	height  int
}

var _ tea.Model = Model{}

// NewModel creates a model driving animator and switching themes
// through store.
func NewModel(cfg *Config, animator *trail.Animator, store *theme.Store) Model {
	store.Subscribe(func(mode theme.Mode) {
		animator.SetColor(cfg.Trail.ForMode(mode).Color)
	})

	mode := store.Mode()
	return Model{
		cfg:      cfg,
		animator: animator,
		store:    store,
		palette:  PaletteFor(mode, cfg.Trail.ForMode(mode).Color),
		frame:    animator.Frame(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.MouseMsg:
		m.animator.Move(float64(msg.X), float64(msg.Y))

	case tea.FocusMsg:
		m.animator.Enter()

	case tea.BlurMsg:
		m.animator.Leave()

	case frameMsg:
		m.frame = trail.Frame(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			mode := m.store.Toggle()
			m.palette = PaletteFor(mode, m.cfg.Trail.ForMode(mode).Color)
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func glyphFor(size, base float64) string {
	scale := size / base
	for _, g := range glyphs {
		if scale >= g.minScale {
			return g.glyph
		}
	}
	return glyphs[len(glyphs)-1].glyph
}

// cell is one drawn dot.
type cell struct {
	glyph string
	color string
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 1 {
		return ""
	}

	rows := m.height - 1
	grid := make([][]*cell, rows)
	for y := range grid {
		grid[y] = make([]*cell, m.width)
	}

	palette := m.palette
	if m.frame.Color != "" {
		palette.Trail = m.frame.Color
	}

	// Draw from the tail so the pointer dot ends up on top
	base := m.animator.Config().Size
	for i := len(m.frame.Dots) - 1; i >= 0; i-- {
		d := m.frame.Dots[i]
		if d.Opacity <= 0 {
			continue
		}
		x, y := int(math.Round(d.X)), int(math.Round(d.Y))
		if x < 0 || y < 0 || x >= m.width || y >= rows {
			continue
		}

		color, err := palette.Blend(d.Opacity)
		if err != nil {
			log.Printf("cannot draw dot: %v", err)
			continue
		}
		grid[y][x] = &cell{glyph: glyphFor(d.Size, base), color: color}
	}

	var b strings.Builder
	for _, row := range grid {
		for _, c := range row {
			if c == nil {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.color)).Render(c.glyph))
		}
		b.WriteByte('\n')
	}

	status := " theme: " + m.store.Mode().String() + "  t: toggle theme  q: quit"
	b.WriteString(m.palette.statusStyle().MaxWidth(m.width).Render(status))

	return b.String()
}
