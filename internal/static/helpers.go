package static

import (
	"bytes"
	"html/template"
	"sync"
)

// Values for TemplateData.ThemeSource. The head script only consults the
// browser's color scheme when the server had nothing better.
const (
	ThemeSourceStored  = "stored"
	ThemeSourceAmbient = "ambient"
	ThemeSourceDefault = "default"
)

// TemplateData holds data for rendering HTML templates
type TemplateData struct {
	Title       string
	Description string

	// RootClass is applied to the <html> element ("dark" or empty).
	RootClass   string
	ThemeSource string

	Content  template.HTML
	CSS      template.CSS
	ThemeJS  template.JS
	ExtraCSS template.HTML
	ExtraJS  template.HTML

	TrailSocketPath string
	TrailConfigURL  string
}

var (
	baseOnce sync.Once
	baseTmpl *template.Template
	baseErr  error
)

func baseTemplate() (*template.Template, error) {
	baseOnce.Do(func() {
		var baseHTML []byte
		baseHTML, baseErr = GetBaseHTML()
		if baseErr != nil {
			return
		}
		baseTmpl, baseErr = template.New("base").Parse(string(baseHTML))
	})
	return baseTmpl, baseErr
}

// RenderTemplate renders the base HTML template with the provided data
func RenderTemplate(data TemplateData) (string, error) {
	tmpl, err := baseTemplate()
	if err != nil {
		return "", err
	}

	if data.CSS == "" {
		css, err := GetCSS()
		if err != nil {
			return "", err
		}
		data.CSS = template.CSS(css)
	}

	if data.ThemeJS == "" {
		js, err := GetThemeJS()
		if err != nil {
			return "", err
		}
		data.ThemeJS = template.JS(js)
	}

	if data.ThemeSource == "" {
		data.ThemeSource = ThemeSourceDefault
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
