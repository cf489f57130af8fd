package landing

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/larsks/crmpro/internal/config"
	"github.com/larsks/crmpro/internal/theme"
	"github.com/larsks/crmpro/internal/trail"
	"github.com/spf13/pflag"
)

const (
	defaultListenPort   = 8080
	defaultCookieMaxAge = 365 * 24 * time.Hour

	// Page trail colors. The dark page uses the brighter blue.
	defaultLightColor = "#1d4ed8"
	defaultDarkColor  = trail.DefaultColor
	defaultPageSize   = 20.0
)

// DefaultConfigFile is where the server looks for its configuration when
// --config is not given.
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "crmpro", "server.toml")
}

// TrailConfig holds the page's cursor trail settings.
type TrailConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	LightColor    string        `mapstructure:"light-color"`
	DarkColor     string        `mapstructure:"dark-color"`
	Size          float64       `mapstructure:"size"`
	Length        int           `mapstructure:"length"`
	Opacity       float64       `mapstructure:"opacity"`
	Speed         float64       `mapstructure:"speed"`
	FrameInterval time.Duration `mapstructure:"frame-interval"`
}

// ForMode returns the normalized trail config for a page rendered in mode.
func (c TrailConfig) ForMode(mode theme.Mode) trail.Config {
	color := c.LightColor
	if mode.IsDark() {
		color = c.DarkColor
	}

	return trail.Config{
		Color:         color,
		Size:          c.Size,
		Length:        c.Length,
		Opacity:       c.Opacity,
		Speed:         c.Speed,
		FrameInterval: c.FrameInterval,
	}.Normalize()
}

// Config holds the configuration for the landing page server.
type Config struct {
	ConfigFile     string        `mapstructure:"config-file"`
	ListenAddress  string        `mapstructure:"listen-address"`
	ListenPort     int           `mapstructure:"listen-port"`
	ContentFile    string        `mapstructure:"content-file"`
	MQTTServer     string        `mapstructure:"mqtt-server"`
	AllowedOrigins []string      `mapstructure:"allowed-origins"`
	ThemeCookie    string        `mapstructure:"theme-cookie"`
	CookieMaxAge   time.Duration `mapstructure:"cookie-max-age"`
	Trail          TrailConfig   `mapstructure:"trail"`
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	return &Config{
		ListenAddress:  "",
		ListenPort:     defaultListenPort,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		ThemeCookie:    theme.DefaultCookieName,
		CookieMaxAge:   defaultCookieMaxAge,
		Trail: TrailConfig{
			Enabled:       true,
			LightColor:    defaultLightColor,
			DarkColor:     defaultDarkColor,
			Size:          defaultPageSize,
			Length:        trail.DefaultLength,
			Opacity:       trail.DefaultOpacity,
			Speed:         trail.DefaultSpeed,
			FrameInterval: trail.DefaultFrameInterval,
		},
	}
}

// AddFlags adds pflag flags for the configuration.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", "", "Config file to use (default "+DefaultConfigFile()+" if present)")
	fs.StringVar(&c.ListenAddress, "listen-address", c.ListenAddress, "Listen address for the landing server")
	fs.IntVar(&c.ListenPort, "listen-port", c.ListenPort, "Listen port for the landing server")
	fs.StringVar(&c.ContentFile, "content-file", c.ContentFile, "YAML file with page content (default built-in)")
	fs.StringVar(&c.MQTTServer, "mqtt-server", c.MQTTServer, "MQTT server URL for theme events, e.g. mqtt://localhost:1883")
	fs.StringSliceVar(&c.AllowedOrigins, "allowed-origins", c.AllowedOrigins, "Origins allowed to call /api")
	fs.StringVar(&c.ThemeCookie, "theme-cookie", c.ThemeCookie, "Name of the cookie holding the theme preference")
	fs.DurationVar(&c.CookieMaxAge, "cookie-max-age", c.CookieMaxAge, "Lifetime of the theme cookie")
	fs.BoolVar(&c.Trail.Enabled, "trail.enabled", c.Trail.Enabled, "Enable the cursor trail")
	fs.StringVar(&c.Trail.LightColor, "trail.light-color", c.Trail.LightColor, "Trail color in light mode")
	fs.StringVar(&c.Trail.DarkColor, "trail.dark-color", c.Trail.DarkColor, "Trail color in dark mode")
	fs.Float64Var(&c.Trail.Size, "trail.size", c.Trail.Size, "Trail dot size in pixels")
	fs.IntVar(&c.Trail.Length, "trail.length", c.Trail.Length, "Number of trailing dots")
	fs.Float64Var(&c.Trail.Opacity, "trail.opacity", c.Trail.Opacity, "Opacity of the first trailing dot")
	fs.Float64Var(&c.Trail.Speed, "trail.speed", c.Trail.Speed, "Fraction of the gap closed per frame")
	fs.DurationVar(&c.Trail.FrameInterval, "trail.frame-interval", c.Trail.FrameInterval, "Time between trail frames")
}

// LoadConfig loads the configuration using the global flag set.
func (c *Config) LoadConfig() error {
	return c.LoadConfigWithFlagSet(pflag.CommandLine)
}

// LoadConfigWithFlagSet loads the configuration with defaults < config
// file < flags explicitly set in fs.
func (c *Config) LoadConfigWithFlagSet(fs *pflag.FlagSet) error {
	if c.ConfigFile == "" {
		if path, err := xdg.SearchConfigFile(filepath.Join("crmpro", "server.toml")); err == nil {
			c.ConfigFile = path
		}
	}

	defaults := NewConfig()

	loader := config.NewConfigLoader()
	loader.SetConfigFile(c.ConfigFile)
	loader.SetDefaults(map[string]any{
		"listen-address":       defaults.ListenAddress,
		"listen-port":          defaults.ListenPort,
		"content-file":         "",
		"mqtt-server":          "",
		"allowed-origins":      defaults.AllowedOrigins,
		"theme-cookie":         defaults.ThemeCookie,
		"cookie-max-age":       defaults.CookieMaxAge,
		"trail.enabled":        defaults.Trail.Enabled,
		"trail.light-color":    defaults.Trail.LightColor,
		"trail.dark-color":     defaults.Trail.DarkColor,
		"trail.size":           defaults.Trail.Size,
		"trail.length":         defaults.Trail.Length,
		"trail.opacity":        defaults.Trail.Opacity,
		"trail.speed":          defaults.Trail.Speed,
		"trail.frame-interval": defaults.Trail.FrameInterval,
	})

	if err := loader.LoadConfigWithFlagSet(c, fs); err != nil {
		return err
	}

	return c.Validate()
}

// Validate checks values that cannot be normalized.
func (c *Config) Validate() error {
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.ListenPort)
	}
	return nil
}

// GetListenAddress implements httpserver.Config interface
func (c *Config) GetListenAddress() string {
	return c.ListenAddress
}

// GetListenPort implements httpserver.Config interface
func (c *Config) GetListenPort() int {
	return c.ListenPort
}
