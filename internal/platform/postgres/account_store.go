package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/platform/logger"
	"github.com/cardifyai-code/cardifyai/internal/store"
)

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of
// the AccountStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create
// It saves a new account to the database, handling domain validation.
// Returns store.ErrEmailExists if the email is already in use.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	query := `
		INSERT INTO accounts (id, email, plan, is_admin,
			daily_cards_generated, daily_reset_date,
			monthly_cards_generated, monthly_reset_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.Plan,
		account.IsAdmin,
		account.DailyCardsGenerated,
		account.DailyResetDate,
		account.MonthlyCardsGenerated,
		account.MonthlyResetAt,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during account creation",
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return WrapError(err, "account", "create")
	}

	log.Info("account created successfully",
		slog.String("account_id", account.ID.String()),
		slog.String("plan", string(account.Plan)))
	return nil
}

// GetByID implements store.AccountStore.GetByID
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, plan, is_admin,
			daily_cards_generated, daily_reset_date,
			monthly_cards_generated, monthly_reset_at,
			created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	var plan string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&plan,
		&account.IsAdmin,
		&account.DailyCardsGenerated,
		&account.DailyResetDate,
		&account.MonthlyCardsGenerated,
		&account.MonthlyResetAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.String("account_id", id.String()))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by ID",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return nil, WrapError(err, "account", "get")
	}

	account.Plan = domain.ParsePlanTier(plan)

	return &account, nil
}

// ResetDailyUsage implements store.AccountStore.ResetDailyUsage
// It zeroes the daily counter and advances the reset marker.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) ResetDailyUsage(ctx context.Context, id uuid.UUID, resetDate time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE accounts
		SET daily_cards_generated = 0, daily_reset_date = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, resetDate, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to reset daily usage",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return WrapError(err, "account", "reset_daily")
	}

	if err := CheckRowsAffected(result, "account"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrAccountNotFound, err)
	}

	log.Debug("daily usage reset", slog.String("account_id", id.String()))
	return nil
}

// ResetMonthlyUsage implements store.AccountStore.ResetMonthlyUsage
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) ResetMonthlyUsage(ctx context.Context, id uuid.UUID, resetAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE accounts
		SET monthly_cards_generated = 0, monthly_reset_at = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, resetAt, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to reset monthly usage",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return WrapError(err, "account", "reset_monthly")
	}

	if err := CheckRowsAffected(result, "account"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrAccountNotFound, err)
	}

	log.Debug("monthly usage reset", slog.String("account_id", id.String()))
	return nil
}

// IncrementUsage implements store.AccountStore.IncrementUsage
// The counters are bumped in a single UPDATE so concurrent jobs for the
// same account cannot lose increments to a read-modify-write race.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) IncrementUsage(ctx context.Context, id uuid.UUID, count int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if count <= 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET daily_cards_generated = daily_cards_generated + $1,
			monthly_cards_generated = monthly_cards_generated + $1,
			updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, count, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to increment usage counters",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()),
			slog.Int("count", count))
		return WrapError(err, "account", "increment_usage")
	}

	if err := CheckRowsAffected(result, "account"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrAccountNotFound, err)
	}

	log.Debug("usage counters incremented",
		slog.String("account_id", id.String()),
		slog.Int("count", count))
	return nil
}

