package job

import "errors"

// Service sentinel errors. Handlers inspect these to choose a response
// status, so they stay stable across internal refactors.
var (
	// ErrJobNotFound indicates the requested job does not exist.
	ErrJobNotFound = errors.New("generation job not found")

	// ErrEmptySource indicates the cleaned source text contained no
	// processable content.
	ErrEmptySource = errors.New("source text is empty")

	// ErrInvalidRequest indicates the enqueue parameters failed validation.
	ErrInvalidRequest = errors.New("invalid generation request")
)
