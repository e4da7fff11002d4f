package auth

import "errors"

// Authentication error definitions.
var (
	// ErrInvalidToken indicates the token format is invalid or the
	// signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token's validity window has not
	// started yet
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
)
