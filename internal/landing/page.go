package landing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/larsks/crmpro/internal/content"
	"github.com/larsks/crmpro/internal/static"
	"github.com/larsks/crmpro/internal/theme"
)

//go:embed templates/*.html
var templateFiles embed.FS

const pageScripts = `<script src="/static/toggle.js" defer></script>
<script src="/static/trail.js" defer></script>`

var pageFuncs = template.FuncMap{
	"number": formatNumber,
	"lower":  strings.ToLower,
}

func parsePages() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(pageFuncs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return tmpl, nil
}

// pageData is everything the page templates read. Carousel and preview
// indexes are already wrapped into range.
type pageData struct {
	Site *content.Site
	Mode theme.Mode

	Billing      content.Billing
	OtherBilling content.Billing

	TestimonialIndex int
	Testimonial      content.Testimonial
	PrevTestimonial  int
	NextTestimonial  int

	FeatureIndex int
	Feature      content.Feature

	Year     int
	ReturnTo string
}

// Link builds a page URL that keeps the current carousel and billing
// state while overriding one parameter.
func (d pageData) Link(key string, value any) string {
	q := url.Values{}
	q.Set("billing", string(d.Billing))
	q.Set("testimonial", strconv.Itoa(d.TestimonialIndex))
	q.Set("feature", strconv.Itoa(d.FeatureIndex))
	q.Set(key, fmt.Sprint(value))
	return "/crm?" + q.Encode()
}

func queryIndex(r *http.Request, key string, n int) int {
	i, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return content.Wrap(i, n)
}

func (s *Server) newPageData(r *http.Request, mode theme.Mode) pageData {
	// Unknown billing values fall back to monthly
	billing, _ := content.ParseBilling(r.URL.Query().Get("billing"))

	data := pageData{
		Site:             s.site,
		Mode:             mode,
		Billing:          billing,
		OtherBilling:     billing.Other(),
		TestimonialIndex: queryIndex(r, "testimonial", len(s.site.Testimonials)),
		FeatureIndex:     queryIndex(r, "feature", len(s.site.Features)),
		Year:             time.Now().Year(),
		ReturnTo:         r.URL.RequestURI(),
	}

	data.Testimonial = s.site.Testimonial(data.TestimonialIndex)
	data.PrevTestimonial = s.site.PrevTestimonial(data.TestimonialIndex)
	data.NextTestimonial = s.site.NextTestimonial(data.TestimonialIndex)
	if len(s.site.Features) > 0 {
		data.Feature = s.site.Features[data.FeatureIndex]
	}

	return data
}

// themeSource tells the page script whether the server already knew the
// visitor's preference.
func (s *Server) themeSource(r *http.Request) string {
	if cookie, err := r.Cookie(s.cfg.ThemeCookie); err == nil {
		if _, err := theme.ParseMode(cookie.Value); err == nil {
			return static.ThemeSourceStored
		}
	}
	if r.Header.Get(theme.ColorSchemeHint) != "" {
		return static.ThemeSourceAmbient
	}
	return static.ThemeSourceDefault
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	store := s.themeStore(w, r)
	theme.AdvertiseHint(w)

	var body bytes.Buffer
	if err := s.pages.ExecuteTemplate(&body, "page", s.newPageData(r, store.Mode())); err != nil {
		log.Printf("failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	td := static.TemplateData{
		Title:       s.site.Title,
		Description: s.site.Description,
		RootClass:   store.RootClass(),
		ThemeSource: s.themeSource(r),
		Content:     template.HTML(body.String()),
		ExtraJS:     template.HTML(`<script src="/static/toggle.js" defer></script>`),
	}
	if s.cfg.Trail.Enabled {
		td.ExtraJS = template.HTML(pageScripts)
		td.TrailSocketPath = "/ws/trail"
		td.TrailConfigURL = "/api/trail/config"
	}

	html, err := static.RenderTemplate(td)
	if err != nil {
		log.Printf("failed to render layout: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html)) //nolint:errcheck
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
