package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlanTier identifies an account's subscription plan. The tier is the
// sole input to the daily card limit (admin accounts override it).
type PlanTier string

// Known plan tiers, cheapest first.
const (
	PlanFree         PlanTier = "free"
	PlanBasic        PlanTier = "basic"
	PlanPremium      PlanTier = "premium"
	PlanProfessional PlanTier = "professional"
)

// Common validation errors for Account
var (
	ErrEmptyAccountID    = errors.New("account ID cannot be empty")
	ErrEmptyAccountEmail = errors.New("account email cannot be empty")
	ErrInvalidPlanTier   = errors.New("invalid plan tier")
)

// Account represents a user of the generation service together with its
// quota counters. The counters are mutated only by the quota manager;
// resets are lazy, keyed on the stored marker versus the current UTC
// date (daily) or (year, month) pair (monthly).
type Account struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Plan    PlanTier  `json:"plan"`
	IsAdmin bool      `json:"is_admin"`

	DailyCardsGenerated   int       `json:"daily_cards_generated"`
	DailyResetDate        time.Time `json:"daily_reset_date"`
	MonthlyCardsGenerated int       `json:"monthly_cards_generated"`
	MonthlyResetAt        time.Time `json:"monthly_reset_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount creates an account on the free plan with zeroed counters.
func NewAccount(email string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:             uuid.New(),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Plan:           PlanFree,
		DailyResetDate: now.Truncate(24 * time.Hour),
		MonthlyResetAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if a.Email == "" {
		return ErrEmptyAccountEmail
	}

	if !ParsePlanTier(string(a.Plan)).valid() {
		return ErrInvalidPlanTier
	}

	return nil
}

// ParsePlanTier normalizes a plan string to a PlanTier. Unknown or
// empty values map to the free tier so a stale plan column can never
// unlock a higher limit.
func ParsePlanTier(plan string) PlanTier {
	switch PlanTier(strings.ToLower(strings.TrimSpace(plan))) {
	case PlanBasic:
		return PlanBasic
	case PlanPremium:
		return PlanPremium
	case PlanProfessional:
		return PlanProfessional
	default:
		return PlanFree
	}
}

func (p PlanTier) valid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPremium, PlanProfessional:
		return true
	default:
		return false
	}
}
