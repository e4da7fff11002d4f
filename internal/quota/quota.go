// Package quota enforces per-account daily and monthly card limits.
// Limits derive from the account's plan tier; counters are reset lazily
// when a stale reset marker is observed during a quota check, and are
// incremented atomically by the store after a job completes.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/store"
)

// ErrQuotaExhausted is returned when an account has no remaining daily
// allowance. Callers must surface it as a terminal condition, never
// proceed with a zero budget.
var ErrQuotaExhausted = errors.New("daily card quota exhausted")

// Daily card limits per plan tier, matching the billing plans.
const (
	FreeDailyLimit         = 10
	BasicDailyLimit        = 5000
	PremiumDailyLimit      = 10000
	ProfessionalDailyLimit = 50000

	// AdminDailyLimit is the effectively-unbounded override for
	// administrator accounts.
	AdminDailyLimit = 3_000_000
)

// Manager tracks and resets usage counters and clamps requested card
// counts to the remaining allowance.
type Manager struct {
	accounts store.AccountStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a quota Manager backed by the given account store.
func NewManager(accounts store.AccountStore, logger *slog.Logger) (*Manager, error) {
	if accounts == nil {
		return nil, errors.New("account store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "quota_manager")),
		now:      time.Now,
	}, nil
}

// DailyLimit returns the account's daily card limit: a pure function of
// the plan tier, with the admin override taking precedence.
func DailyLimit(account *domain.Account) int {
	if account.IsAdmin {
		return AdminDailyLimit
	}

	switch account.Plan {
	case domain.PlanBasic:
		return BasicDailyLimit
	case domain.PlanPremium:
		return PremiumDailyLimit
	case domain.PlanProfessional:
		return ProfessionalDailyLimit
	default:
		return FreeDailyLimit
	}
}

// RemainingAllowance returns how many cards the account may still
// generate today. Stale daily and monthly reset markers are rolled
// forward (and persisted) before the remaining count is computed.
func (m *Manager) RemainingAllowance(ctx context.Context, accountID uuid.UUID) (int, error) {
	account, err := m.refreshed(ctx, accountID)
	if err != nil {
		return 0, err
	}

	remaining := DailyLimit(account) - account.DailyCardsGenerated
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Clamp bounds requested to the account's remaining daily allowance,
// floored at zero. A zero result means the quota is exhausted; Enforce
// wraps that in ErrQuotaExhausted for callers that treat it as fatal.
func (m *Manager) Clamp(ctx context.Context, accountID uuid.UUID, requested int) (int, error) {
	if requested < 0 {
		requested = 0
	}

	remaining, err := m.RemainingAllowance(ctx, accountID)
	if err != nil {
		return 0, err
	}

	if requested < remaining {
		return requested, nil
	}
	return remaining, nil
}

// Enforce clamps requested and converts a zero allowance into
// ErrQuotaExhausted.
func (m *Manager) Enforce(ctx context.Context, accountID uuid.UUID, requested int) (int, error) {
	clamped, err := m.Clamp(ctx, accountID, requested)
	if err != nil {
		return 0, err
	}
	if clamped == 0 {
		return 0, ErrQuotaExhausted
	}
	return clamped, nil
}

// RecordUsage increments the account's daily and monthly counters by
// the actual number of cards produced (post-dedup), never the requested
// or budgeted number. Call it exactly once per completed job, after
// generation finishes and before the job is marked complete. The
// underlying increment is a single atomic statement, so concurrent jobs
// for the same account cannot lose updates.
func (m *Manager) RecordUsage(ctx context.Context, accountID uuid.UUID, actualCount int) error {
	if actualCount <= 0 {
		return nil
	}

	if err := m.accounts.IncrementUsage(ctx, accountID, actualCount); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}

	m.logger.InfoContext(ctx, "usage recorded",
		slog.String("account_id", accountID.String()),
		slog.Int("cards", actualCount))
	return nil
}

// refreshed loads the account and applies any pending lazy resets.
func (m *Manager) refreshed(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := m.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	today := truncateToDate(now)

	if truncateToDate(account.DailyResetDate).Before(today) {
		if err := m.accounts.ResetDailyUsage(ctx, accountID, today); err != nil {
			return nil, fmt.Errorf("failed to reset daily usage: %w", err)
		}
		account.DailyCardsGenerated = 0
		account.DailyResetDate = today
		m.logger.DebugContext(ctx, "daily quota reset",
			slog.String("account_id", accountID.String()))
	}

	resetAt := account.MonthlyResetAt.UTC()
	if resetAt.Year() != now.Year() || resetAt.Month() != now.Month() {
		if err := m.accounts.ResetMonthlyUsage(ctx, accountID, now); err != nil {
			return nil, fmt.Errorf("failed to reset monthly usage: %w", err)
		}
		account.MonthlyCardsGenerated = 0
		account.MonthlyResetAt = now
		m.logger.DebugContext(ctx, "monthly quota reset",
			slog.String("account_id", accountID.String()))
	}

	return account, nil
}

// Snapshot reports the account's current quota state for the usage
// endpoint, applying lazy resets first.
type Snapshot struct {
	Plan        domain.PlanTier `json:"plan"`
	DailyLimit  int             `json:"daily_limit"`
	DailyUsed   int             `json:"daily_used"`
	Remaining   int             `json:"remaining"`
	MonthlyUsed int             `json:"monthly_used"`
}

// Usage returns a point-in-time snapshot of the account's quota.
func (m *Manager) Usage(ctx context.Context, accountID uuid.UUID) (*Snapshot, error) {
	account, err := m.refreshed(ctx, accountID)
	if err != nil {
		return nil, err
	}

	limit := DailyLimit(account)
	remaining := limit - account.DailyCardsGenerated
	if remaining < 0 {
		remaining = 0
	}

	return &Snapshot{
		Plan:        account.Plan,
		DailyLimit:  limit,
		DailyUsed:   account.DailyCardsGenerated,
		Remaining:   remaining,
		MonthlyUsed: account.MonthlyCardsGenerated,
	}, nil
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
