package tui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/larsks/crmpro/internal/cli"
	"github.com/larsks/crmpro/internal/theme"
	"github.com/larsks/crmpro/internal/trail"
)

// Handler implements cli.CommandHandler for the terminal cursor demo
type Handler struct{}

// NewHandler creates a new cursor demo command handler
func NewHandler() *Handler {
	return &Handler{}
}

// Start runs the demo until the user quits.
func (h *Handler) Start(config cli.Configurable) error {
	cfg, ok := config.(*Config)
	if !ok {
		return ErrInvalidConfigType
	}

	restoreLog, err := redirectLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer restoreLog()

	store := theme.NewStore(theme.NewFilePersister(cfg.ThemeFile), terminalAmbient())
	mode := store.Initialize()

	var program *tea.Program
	animator := trail.NewAnimator(cfg.Trail.ForMode(mode), func(f trail.Frame) {
		program.Send(frameMsg(f))
	})

	program = tea.NewProgram(
		NewModel(cfg, animator, store),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	if err := animator.Start(); err != nil {
		return err
	}
	defer animator.Stop() //nolint:errcheck

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("bubble tea: %w", err)
	}
	return nil
}

// redirectLog sends the standard logger to path so log lines do not land
// on the alternate screen. The returned func restores the previous output.
func redirectLog(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	prevOutput := log.Writer()
	prevPrefix := log.Prefix()

	f, err := tea.LogToFile(path, "crmpro-cursor")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return func() {
		log.SetOutput(prevOutput)
		log.SetPrefix(prevPrefix)
		f.Close() //nolint:errcheck
	}, nil
}
