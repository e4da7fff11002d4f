package api

import (
	"errors"
	"net/http"

	"github.com/cardifyai-code/cardifyai/internal/auth"
	"github.com/cardifyai-code/cardifyai/internal/ingest"
	"github.com/cardifyai-code/cardifyai/internal/job"
	"github.com/cardifyai-code/cardifyai/internal/quota"
	"github.com/cardifyai-code/cardifyai/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Quota exhaustion
	case errors.Is(err, quota.ErrQuotaExhausted):
		return http.StatusTooManyRequests

	// Not found errors
	case errors.Is(err, job.ErrJobNotFound),
		errors.Is(err, store.ErrJobNotFound),
		errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return http.StatusNotFound

	// Oversized uploads
	case errors.Is(err, ingest.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, job.ErrInvalidRequest),
		errors.Is(err, job.ErrEmptySource),
		errors.Is(err, ingest.ErrUnsupportedType),
		errors.Is(err, ingest.ErrEmptyDocument),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, quota.ErrQuotaExhausted):
		return "Daily card quota exhausted"

	case errors.Is(err, job.ErrJobNotFound), errors.Is(err, store.ErrJobNotFound):
		return "Job not found"

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"

	case errors.Is(err, ingest.ErrDocumentTooLarge):
		return "Document exceeds size limit"

	case errors.Is(err, ingest.ErrUnsupportedType):
		return "Unsupported document type"

	case errors.Is(err, ingest.ErrEmptyDocument):
		return "Document contains no extractable text"

	case errors.Is(err, job.ErrEmptySource):
		return "Source text is empty"

	case errors.Is(err, job.ErrInvalidRequest):
		return "Invalid generation request"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
