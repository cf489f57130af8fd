package theme

import "errors"

// Theme errors
var (
	ErrInvalidMode  = errors.New("theme must be 'light' or 'dark'")
	ErrNoPreference = errors.New("no theme preference stored")
)
