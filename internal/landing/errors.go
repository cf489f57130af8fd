package landing

import "errors"

var (
	ErrInvalidConfigType = errors.New("invalid config type for landing server")
	ErrInvalidPort       = errors.New("listen port out of range")
	ErrUnknownMessage    = errors.New("unknown trail message type")
)
