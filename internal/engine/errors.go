package engine

import "errors"

// Sentinel errors for engine operations.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrEngineStopped       = errors.New("engine is not running")
	ErrEmptyCommand        = errors.New("empty command")
	ErrInteractiveNotFound = errors.New("interactive session not found")
)
