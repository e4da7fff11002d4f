package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// CreateMultiple saves a batch of cards in a single operation.
	// Cards are validated before insert; a validation failure aborts
	// the whole batch.
	CreateMultiple(ctx context.Context, cards []domain.Card) error

	// FindByJobID retrieves all cards produced by a job, in insertion
	// order. Returns an empty slice when the job produced none.
	FindByJobID(ctx context.Context, jobID uuid.UUID) ([]domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
