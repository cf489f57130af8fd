package tui

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cursor.log")
	prevOutput := log.Writer()
	prevPrefix := log.Prefix()

	restore, err := redirectLog(path)
	require.NoError(t, err)
	log.Printf("failed to persist theme preference")
	restore()

	assert.Equal(t, prevOutput, log.Writer())
	assert.Equal(t, prevPrefix, log.Prefix())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "crmpro-cursor "))
	assert.Contains(t, string(data), "failed to persist theme preference")
}

func TestRedirectLogBadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := redirectLog(filepath.Join(blocker, "cursor.log"))
	assert.Error(t, err)
}
