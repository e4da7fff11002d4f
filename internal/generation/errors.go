package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when card generation fails for any general reason.
	ErrGenerationFailed = errors.New("failed to generate cards from text")

	// ErrSegmentGeneration marks a failure scoped to a single segment.
	// The orchestrator recovers these locally: the segment contributes
	// zero cards and processing continues.
	ErrSegmentGeneration = errors.New("segment generation failed")

	// ErrInvalidResponse is returned when the backend response cannot be parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from generation backend")

	// ErrContentBlocked is returned when the backend blocks the content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by generation backend safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during card generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
