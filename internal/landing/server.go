package landing

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/larsks/crmpro/internal/content"
	"github.com/larsks/crmpro/internal/static"
)

// EventPublisher receives theme changes made through the server.
// *mqtt.Client satisfies it.
type EventPublisher interface {
	PublishThemeEvent(session, theme string) error
}

// Server serves the landing page, the theme API and trail sessions.
type Server struct {
	cfg       *Config
	site      *content.Site
	pages     *template.Template
	router    *chi.Mux
	upgrader  websocket.Upgrader
	sessions  *sessionRegistry
	publisher EventPublisher
}

// NewServer creates a landing server for site. A nil site uses the
// built-in content.
func NewServer(cfg *Config, site *content.Site) (*Server, error) {
	if site == nil {
		site = content.Default()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		site:     site,
		pages:    pages,
		router:   chi.NewRouter(),
		sessions: newSessionRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	s.setupRoutes()
	return s, nil
}

// SetPublisher sets where theme change events are sent. nil disables
// publishing.
func (s *Server) SetPublisher(p EventPublisher) {
	s.publisher = p
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/crm", http.StatusPermanentRedirect)
	})
	s.router.Get("/crm", s.pageHandler)
	s.router.Post("/theme/toggle", s.toggleFormHandler)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Get("/theme", s.getThemeHandler)
		r.Post("/theme/toggle", s.toggleThemeHandler)
		r.With(validateJSONRequest).Put("/theme", s.putThemeHandler)
		r.Get("/trail/config", s.trailConfigHandler)
	})

	s.router.Get("/ws/trail", s.trailSocketHandler)

	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static.GetAssets()))))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Close ends every open trail session.
func (s *Server) Close() {
	s.sessions.closeAll()
}

// SessionCount returns the number of open trail sessions.
func (s *Server) SessionCount() int {
	return s.sessions.count()
}
