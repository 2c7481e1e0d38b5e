package types

import "errors"

// Domain errors shared across components
var (
	ErrInvalidChunkID  = errors.New("invalid chunk ID")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrMissingSnapshot = errors.New("index snapshot not found")
	ErrMissingRoot     = errors.New("source root does not exist or is not readable")
)
