package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MemoryPersister keeps the preference for the lifetime of the process.
type MemoryPersister struct {
	mutex sync.Mutex
	mode  Mode
}

// NewMemoryPersister creates an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Load() (Mode, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.mode == "" {
		return "", ErrNoPreference
	}
	return p.mode, nil
}

func (p *MemoryPersister) Save(mode Mode) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.mode = mode
	return nil
}

// FilePersister stores the preference as a single line in a file.
type FilePersister struct {
	path string
}

// NewFilePersister creates a FilePersister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path returns the file the preference is stored in.
func (p *FilePersister) Path() string {
	return p.path
}

func (p *FilePersister) Load() (Mode, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoPreference
		}
		return "", fmt.Errorf("failed to read %s: %w", p.path, err)
	}

	return ParseMode(strings.TrimSpace(string(data)))
}

// Save writes to a temporary file and renames it into place so a reader
// never sees a partial value.
func (p *FilePersister) Save(mode Mode) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(p.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".theme-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.WriteString(mode.String() + "\n"); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}

	return os.Rename(tmp.Name(), p.path)
}
