package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a generation job.
type JobStatus string

// Possible job status values. A job moves queued -> running -> one of
// the terminal states; no transition leaves a terminal state and none
// skips running.
const (
	JobStatusQueued   JobStatus = "queued"
	JobStatusRunning  JobStatus = "running"
	JobStatusComplete JobStatus = "complete"
	JobStatusError    JobStatus = "error"
)

// Common validation and lifecycle errors for GenerationJob
var (
	ErrEmptyJobID            = errors.New("job ID cannot be empty")
	ErrEmptyJobAccountID     = errors.New("job account ID cannot be empty")
	ErrEmptyJobSourceText    = errors.New("job source text cannot be empty")
	ErrInvalidJobStatus      = errors.New("invalid job status")
	ErrInvalidRequestedCount = errors.New("requested card count must be positive")
	ErrJobTerminal           = errors.New("job is already in a terminal state")
	ErrJobNotRunning         = errors.New("job is not in running state")
)

// GenerationJob is one asynchronous execution of the card generation
// pipeline for one request. The polling surface reads it; the worker
// that dequeued it is the only writer until a terminal status lands.
type GenerationJob struct {
	ID             uuid.UUID  `json:"id"`
	AccountID      uuid.UUID  `json:"account_id"`
	SourceText     string     `json:"-"`
	RequestedCount int        `json:"requested_count"`
	Status         JobStatus  `json:"status"`
	Cards          []Card     `json:"cards,omitempty"`
	ErrorMessage   string     `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// NewGenerationJob creates a queued job for the given account, source
// text and already-clamped requested count. Returns an error if
// validation fails.
func NewGenerationJob(accountID uuid.UUID, sourceText string, requestedCount int) (*GenerationJob, error) {
	job := &GenerationJob{
		ID:             uuid.New(),
		AccountID:      accountID,
		SourceText:     sourceText,
		RequestedCount: requestedCount,
		Status:         JobStatusQueued,
		CreatedAt:      time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the GenerationJob has valid data.
func (j *GenerationJob) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if j.AccountID == uuid.Nil {
		return ErrEmptyJobAccountID
	}

	if strings.TrimSpace(j.SourceText) == "" {
		return ErrEmptyJobSourceText
	}

	if j.RequestedCount < 1 {
		return ErrInvalidRequestedCount
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return nil
}

// IsTerminal reports whether the job has reached a final state.
func (j *GenerationJob) IsTerminal() bool {
	return j.Status == JobStatusComplete || j.Status == JobStatusError
}

// MarkRunning transitions the job from queued to running and stamps
// StartedAt. Returns ErrJobTerminal if the job already finished.
func (j *GenerationJob) MarkRunning() error {
	if j.IsTerminal() {
		return ErrJobTerminal
	}

	now := time.Now().UTC()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	return nil
}

// MarkComplete transitions a running job to complete with its result.
// The result is immutable once set. Completing a job that never entered
// running is rejected so the state machine cannot skip a state.
func (j *GenerationJob) MarkComplete(cards []Card) error {
	if j.IsTerminal() {
		return ErrJobTerminal
	}
	if j.Status != JobStatusRunning {
		return ErrJobNotRunning
	}

	now := time.Now().UTC()
	j.Status = JobStatusComplete
	j.Cards = cards
	j.FinishedAt = &now
	return nil
}

// MarkError transitions the job to the error terminal state with a
// human-readable message. No partial result is retained.
func (j *GenerationJob) MarkError(message string) error {
	if j.IsTerminal() {
		return ErrJobTerminal
	}

	now := time.Now().UTC()
	j.Status = JobStatusError
	j.ErrorMessage = message
	j.Cards = nil
	j.FinishedAt = &now
	return nil
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusQueued, JobStatusRunning, JobStatusComplete, JobStatusError:
		return true
	default:
		return false
	}
}
