package tui

import "errors"

var (
	ErrInvalidConfigType = errors.New("invalid config type for cursor demo")
	ErrInvalidColor      = errors.New("invalid color")
)
