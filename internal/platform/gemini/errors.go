package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptySegmentText is returned when a segment's text is empty.
	ErrEmptySegmentText = errors.New("segment text cannot be empty")
)
