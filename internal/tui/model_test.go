package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/larsks/crmpro/internal/theme"
	"github.com/larsks/crmpro/internal/trail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, mode theme.Mode) (Model, *trail.Animator, *theme.Store) {
	t.Helper()

	persister := theme.NewMemoryPersister()
	require.NoError(t, persister.Save(mode))
	store := theme.NewStore(persister, nil)
	store.Initialize()

	cfg := NewConfig()
	animator := trail.NewAnimator(cfg.Trail.ForMode(mode), nil)
	m := NewModel(cfg, animator, store)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 6})
	return updated.(Model), animator, store
}

func TestModelInit(t *testing.T) {
	m, _, _ := newTestModel(t, theme.Light)
	assert.Nil(t, m.Init())
}

func TestMouseMovesPointer(t *testing.T) {
	m, animator, _ := newTestModel(t, theme.Light)

	m.Update(tea.MouseMsg{X: 7, Y: 3, Action: tea.MouseActionMotion})

	frame := animator.Frame()
	assert.True(t, frame.Visible)
	assert.Equal(t, trail.Point{X: 7, Y: 3}, animator.Positions()[0])
}

func TestFocusControlsVisibility(t *testing.T) {
	m, animator, _ := newTestModel(t, theme.Light)

	m.Update(tea.FocusMsg{})
	assert.True(t, animator.Frame().Visible)

	m.Update(tea.BlurMsg{})
	assert.False(t, animator.Frame().Visible)
}

func TestViewDrawsFrame(t *testing.T) {
	m, animator, _ := newTestModel(t, theme.Dark)

	animator.Move(4, 2)
	updated, _ := m.Update(frameMsg(animator.Tick()))
	view := updated.(Model).View()

	lines := strings.Split(view, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[2], "●")
	assert.Contains(t, view, "theme: dark")
}

func TestViewEmptyBeforeResize(t *testing.T) {
	store := theme.NewStore(nil, nil)
	cfg := NewConfig()
	m := NewModel(cfg, trail.NewAnimator(cfg.Trail.ForMode(theme.Light), nil), store)
	assert.Equal(t, "", m.View())
}

func TestToggleKey(t *testing.T) {
	m, animator, store := newTestModel(t, theme.Light)
	require.Equal(t, "#1d4ed8", animator.Frame().Color)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	assert.Nil(t, cmd)

	assert.Equal(t, theme.Dark, store.Mode())
	assert.Equal(t, "#0b1120", updated.(Model).palette.Background)
	assert.Equal(t, "#3b82f6", animator.Frame().Color)
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		m, _, _ := newTestModel(t, theme.Light)
		_, cmd := m.Update(key)
		require.NotNil(t, cmd, key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, "●", glyphFor(24, 24))
	assert.Equal(t, "•", glyphFor(16, 24))
	assert.Equal(t, "·", glyphFor(7.2, 24))
}

func TestPaletteBlend(t *testing.T) {
	p := PaletteFor(theme.Dark, "#3b82f6")

	full, err := p.Blend(1)
	require.NoError(t, err)
	assert.Equal(t, "#3b82f6", full)

	none, err := p.Blend(0)
	require.NoError(t, err)
	assert.Equal(t, "#0b1120", none)

	half, err := p.Blend(0.5)
	require.NoError(t, err)
	assert.NotEqual(t, full, half)
	assert.NotEqual(t, none, half)

	p.Trail = "blue"
	_, err = p.Blend(0.5)
	assert.ErrorIs(t, err, ErrInvalidColor)
}
