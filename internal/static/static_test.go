package static

import (
	"html/template"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsEmbedded(t *testing.T) {
	for _, name := range []string{"base.html", "styles.css", "theme.js", "toggle.js", "trail.js"} {
		_, err := fs.Stat(GetAssets(), name)
		assert.NoError(t, err, name)
	}
}

func TestRenderTemplateDark(t *testing.T) {
	out, err := RenderTemplate(TemplateData{
		Title:       "CRM Pro",
		RootClass:   "dark",
		ThemeSource: ThemeSourceStored,
		Content:     template.HTML(`<main id="content"></main>`),
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<html lang="en" class="dark" data-theme-source="stored">`)
	assert.Contains(t, out, `<main id="content"></main>`)
	assert.Contains(t, out, "prefers-color-scheme: dark")
	assert.Contains(t, out, "--accent")
	assert.NotContains(t, out, `id="cursor-trail"`)
}

func TestRenderTemplateLightDefaults(t *testing.T) {
	out, err := RenderTemplate(TemplateData{
		Title:           "<CRM>",
		TrailSocketPath: "/ws/trail",
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<html lang="en" data-theme-source="default">`)
	assert.False(t, strings.Contains(out, "<title><CRM></title>"), "title must be escaped")
	assert.Contains(t, out, "&lt;CRM&gt;")
	assert.Contains(t, out, `data-socket-path="/ws/trail"`)
}
