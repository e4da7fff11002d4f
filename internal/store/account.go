package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
)

// AccountStore defines the interface for account and quota-counter
// persistence. Counter increments must be atomic with respect to
// concurrent jobs for the same account: implementations increment in a
// single statement rather than read-modify-write.
type AccountStore interface {
	// Create saves a new account to the store.
	// Returns ErrEmailExists if the email is already in use.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// ResetDailyUsage zeroes the daily counter and sets the daily reset
	// marker to the given date.
	// Returns ErrAccountNotFound if the account does not exist.
	ResetDailyUsage(ctx context.Context, id uuid.UUID, resetDate time.Time) error

	// ResetMonthlyUsage zeroes the monthly counter and sets the monthly
	// reset marker to the given instant.
	// Returns ErrAccountNotFound if the account does not exist.
	ResetMonthlyUsage(ctx context.Context, id uuid.UUID, resetAt time.Time) error

	// IncrementUsage atomically adds count to both the daily and monthly
	// counters. Returns ErrAccountNotFound if the account does not exist.
	IncrementUsage(ctx context.Context, id uuid.UUID, count int) error
}
