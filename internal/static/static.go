package static

import (
	"embed"
	"io/fs"
)

// Static assets embedded at build time
//
//go:embed *.css *.js *.html
var assets embed.FS

// GetAssets returns the embedded filesystem containing static assets
func GetAssets() fs.FS {
	return assets
}

// GetCSS returns the contents of the page stylesheet
func GetCSS() ([]byte, error) {
	return assets.ReadFile("styles.css")
}

// GetThemeJS returns the script that must run in the document head,
// before first paint, to apply the ambient dark preference.
func GetThemeJS() ([]byte, error) {
	return assets.ReadFile("theme.js")
}

// GetBaseHTML returns the base HTML template content
func GetBaseHTML() ([]byte, error) {
	return assets.ReadFile("base.html")
}
