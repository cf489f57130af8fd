package landing

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/larsks/crmpro/internal/theme"
)

const visitorCookie = "crmpro_visitor"

type jsonResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type themeResponse struct {
	Status    string `json:"status"`
	Theme     string `json:"theme"`
	RootClass string `json:"root_class"`
}

func (s *Server) sendJSON(w http.ResponseWriter, v any, httpCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, httpCode int) {
	s.sendJSON(w, jsonResponse{Status: "error", Message: message}, httpCode)
}

func (s *Server) sendTheme(w http.ResponseWriter, store *theme.Store) {
	s.sendJSON(w, themeResponse{
		Status:    "ok",
		Theme:     store.Mode().String(),
		RootClass: store.RootClass(),
	}, http.StatusOK)
}

// validateJSONRequest rejects bodies that are declared as something
// other than JSON.
func validateJSONRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(jsonResponse{ //nolint:errcheck
				Status:  "error",
				Message: "Content-Type must be application/json",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// themeStore builds the store for one request: the cookie is the
// persisted preference and the client hint is the ambient one. Changes
// are published as events when a publisher is configured.
func (s *Server) themeStore(w http.ResponseWriter, r *http.Request) *theme.Store {
	return s.themeStoreWith(w, r, s.cookiePersister(w, r))
}

func (s *Server) cookiePersister(w http.ResponseWriter, r *http.Request) *theme.CookiePersister {
	return theme.NewCookiePersister(w, r, s.cfg.ThemeCookie, s.cfg.CookieMaxAge)
}

func (s *Server) themeStoreWith(w http.ResponseWriter, r *http.Request, persister theme.Persister) *theme.Store {
	store := theme.NewStore(persister, theme.NewHeaderAmbient(r))
	store.Initialize()

	if s.publisher != nil {
		visitor := s.visitorID(w, r)
		store.Subscribe(func(mode theme.Mode) {
			if err := s.publisher.PublishThemeEvent(visitor, mode.String()); err != nil {
				log.Printf("failed to publish theme event: %v", err)
			}
		})
	}

	return store
}

// visitorID returns the visitor's anonymous id, issuing one if needed.
func (s *Server) visitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(visitorCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.CookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) getThemeHandler(w http.ResponseWriter, r *http.Request) {
	theme.AdvertiseHint(w)
	s.sendTheme(w, s.themeStore(w, r))
}

func (s *Server) toggleThemeHandler(w http.ResponseWriter, r *http.Request) {
	store := s.themeStore(w, r)
	store.Toggle()
	s.sendTheme(w, store)
}

func (s *Server) putThemeHandler(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	mode, err := theme.ParseMode(req.Theme)
	if err != nil {
		if errors.Is(err, theme.ErrInvalidMode) {
			s.sendError(w, fmt.Sprintf("Invalid theme %q: must be light or dark", req.Theme), http.StatusBadRequest)
			return
		}
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	persister := s.cookiePersister(w, r)
	store := s.themeStoreWith(w, r, persister)
	if store.Mode() == mode {
		// The mode may only be implied by the ambient preference; an
		// explicit choice is still worth remembering.
		if err := persister.Save(mode); err != nil {
			log.Printf("failed to save theme: %v", err)
		}
	} else {
		store.Set(mode)
	}
	s.sendTheme(w, store)
}

// toggleFormHandler is the no-script fallback for the header toggle.
func (s *Server) toggleFormHandler(w http.ResponseWriter, r *http.Request) {
	s.themeStore(w, r).Toggle()
	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return")), http.StatusSeeOther)
}

// safeReturnPath only allows local absolute paths.
func safeReturnPath(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/crm"
	}
	return path
}
