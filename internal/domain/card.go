package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardAccountIDEmpty is returned when a card's account ID is empty or nil.
	ErrCardAccountIDEmpty = errors.New("card account ID cannot be empty")

	// ErrCardJobIDEmpty is returned when a card's job ID is empty or nil.
	ErrCardJobIDEmpty = errors.New("card job ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front side is empty after trimming.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back side is empty after trimming.
	ErrCardBackEmpty = errors.New("card back cannot be empty")
)

// CardContent is the canonical front/back pair produced by generation
// before it is attached to an account and job. Two contents are the same
// card exactly when both trimmed sides match (case-sensitive).
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Trimmed returns a copy with both sides whitespace-trimmed.
func (c CardContent) Trimmed() CardContent {
	return CardContent{
		Front: strings.TrimSpace(c.Front),
		Back:  strings.TrimSpace(c.Back),
	}
}

// IsEmpty reports whether either side is empty after trimming.
func (c CardContent) IsEmpty() bool {
	t := c.Trimmed()
	return t.Front == "" || t.Back == ""
}

// Key returns the deduplication key for the content. The key is the
// exact trimmed (front, back) pair; no fuzzy matching.
func (c CardContent) Key() string {
	t := c.Trimmed()
	return t.Front + "\x00" + t.Back
}

// Card represents a persisted study card generated for an account by a
// specific job.
type Card struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	JobID     uuid.UUID `json:"job_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCard creates a new Card from generated content, generating a new
// UUID and setting the creation timestamp. Returns an error if
// validation fails.
func NewCard(accountID, jobID uuid.UUID, content CardContent) (*Card, error) {
	trimmed := content.Trimmed()
	card := &Card{
		ID:        uuid.New(),
		AccountID: accountID,
		JobID:     jobID,
		Front:     trimmed.Front,
		Back:      trimmed.Back,
		CreatedAt: time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.AccountID == uuid.Nil {
		return ErrCardAccountIDEmpty
	}

	if c.JobID == uuid.Nil {
		return ErrCardJobIDEmpty
	}

	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}

	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}

	return nil
}

// Content returns the card's front/back pair.
func (c *Card) Content() CardContent {
	return CardContent{Front: c.Front, Back: c.Back}
}
