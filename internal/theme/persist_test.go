package theme

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crmpro", "theme")
	p := NewFilePersister(path)

	_, err := p.Load()
	assert.ErrorIs(t, err, ErrNoPreference)

	require.NoError(t, p.Save(Dark))
	got, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, Dark, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dark\n", string(data))
}

func TestFilePersisterMalformedValueFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme")
	require.NoError(t, os.WriteFile(path, []byte("purple"), 0o600))

	store := NewStore(NewFilePersister(path), AmbientFunc(func() bool { return true }))
	assert.Equal(t, Dark, store.Initialize())
}

func TestCookiePersister(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	p := NewCookiePersister(w, r, "", time.Hour)

	_, err := p.Load()
	assert.ErrorIs(t, err, ErrNoPreference)

	require.NoError(t, p.Save(Dark))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Equal(t, "dark", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	got, err := NewCookiePersister(httptest.NewRecorder(), r2, "", time.Hour).Load()
	require.NoError(t, err)
	assert.Equal(t, Dark, got)
}

func TestHeaderAmbient(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{header: `"dark"`, want: true},
		{header: "dark", want: true},
		{header: `"light"`, want: false},
		{header: "", want: false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set(ColorSchemeHint, tt.header)
		}
		assert.Equal(t, tt.want, NewHeaderAmbient(r).PrefersDark(), "header %q", tt.header)
	}
}
