package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/larsks/crmpro/internal/theme"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is the set of colors the demo draws with in one theme.
type Palette struct {
	Background string
	Foreground string
	Muted      string
	Trail      string
}

// PaletteFor returns the palette for mode with the given trail color.
func PaletteFor(mode theme.Mode, trailColor string) Palette {
	if mode.IsDark() {
		return Palette{
			Background: "#0b1120",
			Foreground: "#f1f5f9",
			Muted:      "#94a3b8",
			Trail:      trailColor,
		}
	}
	return Palette{
		Background: "#ffffff",
		Foreground: "#0f172a",
		Muted:      "#475569",
		Trail:      trailColor,
	}
}

// Blend fades the trail color into the background. Opacity 1 is the
// trail color and 0 the background.
func (p Palette) Blend(opacity float64) (string, error) {
	fg, err := colorful.Hex(p.Trail)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, p.Trail)
	}
	bg, err := colorful.Hex(p.Background)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, p.Background)
	}

	switch {
	case opacity <= 0:
		return bg.Hex(), nil
	case opacity >= 1:
		return fg.Hex(), nil
	}
	return bg.BlendLab(fg, opacity).Clamped().Hex(), nil
}

func (p Palette) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted)).
		Background(lipgloss.Color(p.Background))
}

// terminalAmbient reports the terminal background as the ambient
// preference.
func terminalAmbient() theme.Ambient {
	return theme.AmbientFunc(lipgloss.HasDarkBackground)
}
