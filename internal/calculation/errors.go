package calculation

import "errors"

var (
	// ErrInvalidSettings is returned when settings fail the engine's own sanity checks.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrNilSettings is returned when Run is called without settings.
	ErrNilSettings = errors.New("settings are required")
)
