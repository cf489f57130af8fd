package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsBadURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"wrong scheme", "tcp://localhost:1883"},
		{"no scheme", "localhost:1883"},
		{"unparseable", "mqtt://%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(Config{ServerURL: tt.url, ClientID: "test"})
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestPublishWhenDisconnected(t *testing.T) {
	c, err := NewClient(Config{
		ServerURL:  "mqtt://127.0.0.1:1",
		ClientID:   "test",
		MaxRetries: 1,
	})
	require.NoError(t, err)
	defer c.Disconnect(0)

	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.PublishThemeEvent("session", "dark"), ErrNotConnected)
	assert.ErrorIs(t, c.Subscribe(ThemeTopic("+"), 0, func(string, []byte) {}), ErrNotConnected)
}

func TestNilClientIsNotConnected(t *testing.T) {
	var c *Client
	assert.False(t, c.IsConnected())
}

func TestThemeTopic(t *testing.T) {
	assert.Equal(t, "event/theme/dark", ThemeTopic("dark"))
	assert.Equal(t, "event/theme/+", ThemeTopic("+"))
}

func TestParseThemeEvent(t *testing.T) {
	event, err := ParseThemeEvent("event/theme/dark", []byte(`{"session":"abc","theme":"dark","timestamp":"2025-01-01T00:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", event.Session)
	assert.Equal(t, "dark", event.Theme)

	event, err = ParseThemeEvent("event/theme/light", nil)
	require.NoError(t, err)
	assert.Equal(t, "light", event.Theme)

	_, err = ParseThemeEvent("event/button/foo/press", nil)
	assert.ErrorIs(t, err, ErrInvalidTopic)

	_, err = ParseThemeEvent("event/theme/dark/extra", nil)
	assert.ErrorIs(t, err, ErrInvalidTopic)

	_, err = ParseThemeEvent("event/theme/dark", []byte("{not json"))
	assert.Error(t, err)
}
