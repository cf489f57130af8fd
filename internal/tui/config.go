package tui

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/larsks/crmpro/internal/config"
	"github.com/larsks/crmpro/internal/theme"
	"github.com/larsks/crmpro/internal/trail"
	"github.com/spf13/pflag"
)

// DefaultThemeFile is where the demo remembers the chosen theme.
func DefaultThemeFile() string {
	return filepath.Join(xdg.StateHome, "crmpro", "theme")
}

// DefaultLogFile is where log output goes while the demo owns the terminal.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "crmpro", "cursor.log")
}

// TrailConfig holds the terminal trail settings. Positions are in cells.
type TrailConfig struct {
	LightColor    string        `mapstructure:"light-color"`
	DarkColor     string        `mapstructure:"dark-color"`
	Length        int           `mapstructure:"length"`
	Opacity       float64       `mapstructure:"opacity"`
	Speed         float64       `mapstructure:"speed"`
	FrameInterval time.Duration `mapstructure:"frame-interval"`
}

// Config holds the configuration for the terminal cursor demo.
type Config struct {
	ConfigFile string      `mapstructure:"config-file"`
	ThemeFile  string      `mapstructure:"theme-file"`
	LogFile    string      `mapstructure:"log-file"`
	Trail      TrailConfig `mapstructure:"trail"`
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	return &Config{
		ThemeFile: DefaultThemeFile(),
		LogFile:   DefaultLogFile(),
		Trail: TrailConfig{
			LightColor:    "#1d4ed8",
			DarkColor:     trail.DefaultColor,
			Length:        trail.DefaultLength,
			Opacity:       0.6,
			Speed:         trail.DefaultSpeed,
			FrameInterval: 33 * time.Millisecond,
		},
	}
}

// AddFlags adds pflag flags for the configuration.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", "", "Config file to use")
	fs.StringVar(&c.ThemeFile, "theme-file", c.ThemeFile, "File the theme preference is saved in")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "File log messages are written to while running")
	fs.StringVar(&c.Trail.LightColor, "trail.light-color", c.Trail.LightColor, "Trail color in light mode")
	fs.StringVar(&c.Trail.DarkColor, "trail.dark-color", c.Trail.DarkColor, "Trail color in dark mode")
	fs.IntVar(&c.Trail.Length, "trail.length", c.Trail.Length, "Number of trailing dots")
	fs.Float64Var(&c.Trail.Opacity, "trail.opacity", c.Trail.Opacity, "Opacity of the first trailing dot")
	fs.Float64Var(&c.Trail.Speed, "trail.speed", c.Trail.Speed, "Fraction of the gap closed per frame")
	fs.DurationVar(&c.Trail.FrameInterval, "trail.frame-interval", c.Trail.FrameInterval, "Time between frames")
}

// LoadConfigWithFlagSet loads the configuration with defaults < config
// file < flags explicitly set in fs.
func (c *Config) LoadConfigWithFlagSet(fs *pflag.FlagSet) error {
	defaults := NewConfig()

	loader := config.NewConfigLoader()
	loader.SetConfigFile(c.ConfigFile)
	loader.SetStrictMode(true)
	loader.SetDefaults(map[string]any{
		"theme-file":           defaults.ThemeFile,
		"log-file":             defaults.LogFile,
		"trail.light-color":    defaults.Trail.LightColor,
		"trail.dark-color":     defaults.Trail.DarkColor,
		"trail.length":         defaults.Trail.Length,
		"trail.opacity":        defaults.Trail.Opacity,
		"trail.speed":          defaults.Trail.Speed,
		"trail.frame-interval": defaults.Trail.FrameInterval,
	})

	return loader.LoadConfigWithFlagSet(c, fs)
}

// ForMode returns the normalized trail config for mode.
func (c TrailConfig) ForMode(mode theme.Mode) trail.Config {
	color := c.LightColor
	if mode.IsDark() {
		color = c.DarkColor
	}

	return trail.Config{
		Color:         color,
		Size:          trail.DefaultSize,
		Length:        c.Length,
		Opacity:       c.Opacity,
		Speed:         c.Speed,
		FrameInterval: c.FrameInterval,
	}.Normalize()
}
