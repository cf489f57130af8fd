package theme

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCookieName is the key the preference is persisted under.
	DefaultCookieName = "theme"

	// ColorSchemeHint is the client hint carrying the ambient preference.
	ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

// CookiePersister persists the preference in a cookie for the lifetime of
// a single request/response pair.
type CookiePersister struct {
	request *http.Request
	writer  http.ResponseWriter
	name    string
	maxAge  time.Duration
}

// NewCookiePersister creates a CookiePersister. An empty name selects
// DefaultCookieName.
func NewCookiePersister(w http.ResponseWriter, r *http.Request, name string, maxAge time.Duration) *CookiePersister {
	if name == "" {
		name = DefaultCookieName
	}

	return &CookiePersister{
		request: r,
		writer:  w,
		name:    name,
		maxAge:  maxAge,
	}
}

func (p *CookiePersister) Load() (Mode, error) {
	cookie, err := p.request.Cookie(p.name)
	if err != nil {
		return "", ErrNoPreference
	}
	return ParseMode(cookie.Value)
}

// Save sets the cookie on the response. The cookie is readable from
// scripts so the page can keep client-side storage in step.
func (p *CookiePersister) Save(mode Mode) error {
	http.SetCookie(p.writer, &http.Cookie{
		Name:     p.name,
		Value:    mode.String(),
		Path:     "/",
		MaxAge:   int(p.maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// HeaderAmbient reads the color-scheme client hint from a request.
type HeaderAmbient struct {
	request *http.Request
}

// NewHeaderAmbient creates a HeaderAmbient for r.
func NewHeaderAmbient(r *http.Request) HeaderAmbient {
	return HeaderAmbient{request: r}
}

func (a HeaderAmbient) PrefersDark() bool {
	value := strings.Trim(a.request.Header.Get(ColorSchemeHint), `" `)
	return strings.EqualFold(value, "dark")
}

// AdvertiseHint asks the browser to send the color-scheme client hint on
// subsequent requests.
func AdvertiseHint(w http.ResponseWriter) {
	w.Header().Set("Accept-CH", ColorSchemeHint)
	w.Header().Set("Critical-CH", ColorSchemeHint)
	w.Header().Add("Vary", ColorSchemeHint)
	w.Header().Add("Vary", "Cookie")
}
