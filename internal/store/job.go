package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
)

// JobStore defines the interface for generation-job persistence. The
// web tier and the workers share job state exclusively through this
// store; there is no in-memory coupling between them.
type JobStore interface {
	// Create saves a new job to the store.
	// Returns validation errors from the domain job if data is invalid.
	Create(ctx context.Context, job *domain.GenerationJob) error

	// GetByID retrieves a job by its unique ID, including its result
	// cards when the job is complete.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationJob, error)

	// Update persists the job's current status, timestamps and error
	// message. Result cards are written separately via CardStore.
	// Returns ErrJobNotFound if the job does not exist.
	Update(ctx context.Context, job *domain.GenerationJob) error

	// WithTx returns a new JobStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) JobStore
}
