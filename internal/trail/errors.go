package trail

import "errors"

// Animator operation errors
var (
	ErrAlreadyRunning = errors.New("animator is already running")
	ErrNotRunning     = errors.New("animator is not running")
)
