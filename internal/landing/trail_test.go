package landing

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/larsks/crmpro/internal/trail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTrail(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/trail" + query
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "websocket dial")
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	return conn
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// readFrameUntil reads frames until match returns true or the deadline
// passes.
func readFrameUntil(t *testing.T, conn *websocket.Conn, match func(trail.Frame) bool) trail.Frame {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second)) //nolint:errcheck
	for {
		var frame trail.Frame
		require.NoError(t, conn.ReadJSON(&frame))
		if match(frame) {
			return frame
		}
	}
}

func TestTrailSession(t *testing.T) {
	srv := newTestServer(t)
	server := httptest.NewServer(srv)
	defer server.Close()

	conn := dialTrail(t, server, "?theme=dark")
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(trailMessage{Type: "move", X: 100, Y: 50}))

	frame := readFrameUntil(t, conn, func(f trail.Frame) bool {
		return f.Visible && len(f.Dots) > 0 && near(f.Dots[0].X, 100) && near(f.Dots[0].Y, 50)
	})
	assert.Equal(t, "#3b82f6", frame.Color)
	assert.Len(t, frame.Dots, 9)
	assert.InDelta(t, 1.0, frame.Dots[0].Opacity, 1e-9)
	assert.InDelta(t, 20.0, frame.Dots[0].Size, 1e-9)
	assert.Equal(t, 1, srv.SessionCount())

	require.NoError(t, conn.WriteJSON(trailMessage{Type: "theme", Theme: "light"}))
	readFrameUntil(t, conn, func(f trail.Frame) bool { return f.Color == "#1d4ed8" })

	require.NoError(t, conn.WriteJSON(trailMessage{Type: "leave"}))
	frame = readFrameUntil(t, conn, func(f trail.Frame) bool { return !f.Visible })
	for _, d := range frame.Dots {
		assert.Equal(t, 0.0, d.Opacity)
	}

	// unknown and malformed messages are ignored
	require.NoError(t, conn.WriteJSON(trailMessage{Type: "wiggle"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	require.NoError(t, conn.WriteJSON(trailMessage{Type: "enter"}))
	readFrameUntil(t, conn, func(f trail.Frame) bool { return f.Visible })

	conn.Close() //nolint:errcheck
	assert.Eventually(t, func() bool { return srv.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestTrailSessionFramesOnlyOnChange(t *testing.T) {
	cfg := NewConfig()
	cfg.Trail.Speed = 1
	srv, err := NewServer(cfg, nil)
	require.NoError(t, err)
	server := httptest.NewServer(srv)
	defer server.Close()

	conn := dialTrail(t, server, "")
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(trailMessage{Type: "move", X: 10, Y: 10}))

	// With speed 1 the whole trail snaps onto the pointer within Length
	// ticks, after which nothing changes and nothing is sent.
	readFrameUntil(t, conn, func(f trail.Frame) bool {
		last := f.Dots[len(f.Dots)-1]
		return near(last.X, 10) && near(last.Y, 10)
	})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)) //nolint:errcheck
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestServerCloseEndsSessions(t *testing.T) {
	srv := newTestServer(t)
	server := httptest.NewServer(srv)
	defer server.Close()

	conn := dialTrail(t, server, "")
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
			break
		}
	}

	assert.Eventually(t, func() bool { return srv.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestTrailDisabled(t *testing.T) {
	cfg := NewConfig()
	cfg.Trail.Enabled = false
	srv, err := NewServer(cfg, nil)
	require.NoError(t, err)
	server := httptest.NewServer(srv)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/trail"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	w := do(srv, httptest.NewRequest("GET", "/crm", nil))
	assert.NotContains(t, w.Body.String(), `id="cursor-trail"`)
}

func TestOfferKeepsLatestFrame(t *testing.T) {
	sess := &trailSession{frames: make(chan trail.Frame, 1)}

	first := trail.Frame{Visible: true, Color: "a", Dots: []trail.Dot{{X: 1}}}
	second := trail.Frame{Visible: true, Color: "a", Dots: []trail.Dot{{X: 2}}}

	sess.offer(first)
	sess.offer(first)
	sess.offer(second)

	require.Len(t, sess.frames, 1)
	assert.Equal(t, 2.0, (<-sess.frames).Dots[0].X)
}
