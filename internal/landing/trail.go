package landing

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/larsks/crmpro/internal/theme"
	"github.com/larsks/crmpro/internal/trail"
)

const (
	// frameStep is the resolution frames are rounded to before they are
	// compared with the last frame sent.
	frameStep = 0.01

	writeTimeout   = 5 * time.Second
	maxMessageSize = 1024
)

type trailConfigResponse struct {
	Status  string       `json:"status"`
	Theme   string       `json:"theme"`
	Enabled bool         `json:"enabled"`
	Config  trail.Config `json:"config"`
}

// trailMessage is sent by the browser for each pointer event.
type trailMessage struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theme string  `json:"theme,omitempty"`
}

func (s *Server) requestMode(w http.ResponseWriter, r *http.Request) theme.Mode {
	if mode, err := theme.ParseMode(r.URL.Query().Get("theme")); err == nil {
		return mode
	}
	return theme.Resolve(s.cookiePersister(w, r), theme.NewHeaderAmbient(r))
}

func (s *Server) trailConfigHandler(w http.ResponseWriter, r *http.Request) {
	mode := s.requestMode(w, r)
	s.sendJSON(w, trailConfigResponse{
		Status:  "ok",
		Theme:   mode.String(),
		Enabled: s.cfg.Trail.Enabled,
		Config:  s.cfg.Trail.ForMode(mode),
	}, http.StatusOK)
}

func (s *Server) trailSocketHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Trail.Enabled {
		s.sendError(w, "Cursor trail is disabled", http.StatusNotFound)
		return
	}

	mode := s.requestMode(w, r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("trail: websocket upgrade: %v", err)
		return
	}

	sess := newTrailSession(conn, s.cfg.Trail, mode)
	s.sessions.add(sess)
	defer s.sessions.remove(sess)

	if err := sess.run(); err != nil {
		log.Printf("trail: session %s: %v", sess.id, err)
	}
}

// trailSession connects one browser to its own Animator. Frames flow
// through a single-slot channel so a slow client only ever receives the
// newest frame.
type trailSession struct {
	id       string
	conn     *websocket.Conn
	animator *trail.Animator
	colors   TrailConfig

	frames    chan trail.Frame
	done      chan struct{}
	closeOnce sync.Once

	// last is only touched from the animator goroutine.
	last    trail.Frame
	hasLast bool
}

func newTrailSession(conn *websocket.Conn, cfg TrailConfig, mode theme.Mode) *trailSession {
	sess := &trailSession{
		id:     uuid.NewString(),
		conn:   conn,
		colors: cfg,
		frames: make(chan trail.Frame, 1),
		done:   make(chan struct{}),
	}
	sess.animator = trail.NewAnimator(cfg.ForMode(mode), sess.offer)
	return sess
}

// offer queues a frame for the writer, replacing any frame still waiting.
func (sess *trailSession) offer(frame trail.Frame) {
	frame = frame.Quantize(frameStep)
	if sess.hasLast && frame.Equal(sess.last) {
		return
	}
	sess.last = frame
	sess.hasLast = true

	for {
		select {
		case sess.frames <- frame:
			return
		default:
		}
		select {
		case <-sess.frames:
		default:
		}
	}
}

func (sess *trailSession) run() error {
	log.Printf("trail: session %s opened", sess.id)
	defer log.Printf("trail: session %s closed", sess.id)
	defer sess.close()

	if err := sess.animator.Start(); err != nil {
		return err
	}

	go sess.writeLoop()

	sess.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}

		var msg trailMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("trail: session %s: malformed message: %v", sess.id, err)
			continue
		}

		if err := sess.handle(msg); err != nil {
			log.Printf("trail: session %s: %v", sess.id, err)
		}
	}
}

func (sess *trailSession) handle(msg trailMessage) error {
	switch msg.Type {
	case "move":
		sess.animator.Move(msg.X, msg.Y)
	case "enter":
		sess.animator.Enter()
	case "leave":
		sess.animator.Leave()
	case "theme":
		mode, err := theme.ParseMode(msg.Theme)
		if err != nil {
			return err
		}
		sess.animator.SetColor(sess.colors.ForMode(mode).Color)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func (sess *trailSession) writeLoop() {
	for {
		select {
		case <-sess.done:
			return
		case frame := <-sess.frames:
			data, err := json.Marshal(frame)
			if err != nil {
				log.Printf("trail: session %s: encode frame: %v", sess.id, err)
				continue
			}

			sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Printf("trail: session %s: websocket write: %v", sess.id, err)
				}
				sess.close()
				return
			}
		}
	}
}

// close stops the animator and the writer and closes the connection. It
// is safe to call more than once and from any goroutine.
func (sess *trailSession) close() {
	sess.closeOnce.Do(func() {
		if err := sess.animator.Stop(); err != nil && !errors.Is(err, trail.ErrNotRunning) {
			log.Printf("trail: session %s: stop animator: %v", sess.id, err)
		}
		close(sess.done)
		sess.conn.Close() //nolint:errcheck
	})
}

// shutdown asks the client to go away, then closes the session.
func (sess *trailSession) shutdown() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	sess.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)) //nolint:errcheck
	sess.close()
}

type sessionRegistry struct {
	mutex    sync.Mutex
	sessions map[string]*trailSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*trailSession)}
}

func (r *sessionRegistry) add(sess *trailSession) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sessions[sess.id] = sess
}

func (r *sessionRegistry) remove(sess *trailSession) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.sessions, sess.id)
}

func (r *sessionRegistry) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.sessions)
}

func (r *sessionRegistry) closeAll() {
	r.mutex.Lock()
	sessions := make([]*trailSession, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.mutex.Unlock()

	for _, sess := range sessions {
		sess.shutdown()
	}
}
