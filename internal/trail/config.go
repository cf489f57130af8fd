package trail

import (
	"strings"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultColor         = "#3b82f6"
	DefaultSize          = 24.0
	DefaultLength        = 8
	DefaultOpacity       = 0.3
	DefaultSpeed         = 0.5
	DefaultFrameInterval = 16 * time.Millisecond

	// OffScreen is where every point starts before the pointer is seen.
	OffScreen = -100.0

	// MinFollowerScale is the size of the last follower relative to Size.
	MinFollowerScale = 0.3
)

// Config controls the look and feel of a trail.
type Config struct {
	Color         string        `mapstructure:"color" json:"color"`
	Size          float64       `mapstructure:"size" json:"size"`
	Length        int           `mapstructure:"length" json:"length"`
	Opacity       float64       `mapstructure:"opacity" json:"opacity"`
	Speed         float64       `mapstructure:"speed" json:"speed"`
	FrameInterval time.Duration `mapstructure:"frame-interval" json:"-"`
}

// NewConfig returns a Config populated with the defaults.
func NewConfig() Config {
	return Config{
		Color:         DefaultColor,
		Size:          DefaultSize,
		Length:        DefaultLength,
		Opacity:       DefaultOpacity,
		Speed:         DefaultSpeed,
		FrameInterval: DefaultFrameInterval,
	}
}

// Normalize replaces out-of-range values with safe ones. It never fails.
func (c Config) Normalize() Config {
	if strings.TrimSpace(c.Color) == "" {
		c.Color = DefaultColor
	}
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.Length < 0 {
		c.Length = 0
	}
	switch {
	case c.Opacity < 0:
		c.Opacity = 0
	case c.Opacity > 1:
		c.Opacity = 1
	}
	switch {
	case c.Speed <= 0:
		c.Speed = DefaultSpeed
	case c.Speed > 1:
		c.Speed = 1
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = DefaultFrameInterval
	}
	return c
}
