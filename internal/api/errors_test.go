package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardifyai-code/cardifyai/internal/auth"
	"github.com/cardifyai-code/cardifyai/internal/ingest"
	"github.com/cardifyai-code/cardifyai/internal/job"
	"github.com/cardifyai-code/cardifyai/internal/quota"
	"github.com/cardifyai-code/cardifyai/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"quota exhausted", quota.ErrQuotaExhausted, http.StatusTooManyRequests},
		{"wrapped quota exhausted", fmt.Errorf("enforce: %w", quota.ErrQuotaExhausted), http.StatusTooManyRequests},
		{"job not found", job.ErrJobNotFound, http.StatusNotFound},
		{"store job not found", store.ErrJobNotFound, http.StatusNotFound},
		{"account not found", store.ErrAccountNotFound, http.StatusNotFound},
		{"document too large", ingest.ErrDocumentTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid request", job.ErrInvalidRequest, http.StatusBadRequest},
		{"empty source", job.ErrEmptySource, http.StatusBadRequest},
		{"unsupported document", ingest.ErrUnsupportedType, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"quota exhausted", quota.ErrQuotaExhausted, "Daily card quota exhausted"},
		{"job not found", job.ErrJobNotFound, "Job not found"},
		{"wrapped job not found", fmt.Errorf("get job: %w", job.ErrJobNotFound), "Job not found"},
		{"empty source", job.ErrEmptySource, "Source text is empty"},
		{"unsupported document", ingest.ErrUnsupportedType, "Unsupported document type"},
		{"internal detail hidden", errors.New("pq: connection refused"), "An unexpected error occurred"},
		{"nil error", nil, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}
