package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/quota"
)

// JobService is the slice of the job lifecycle the handlers need.
// Implemented by job.Service.
type JobService interface {
	Enqueue(ctx context.Context, accountID uuid.UUID, sourceText string, requestedCount int) (*domain.GenerationJob, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.GenerationJob, error)
	GetJobCards(ctx context.Context, jobID uuid.UUID) ([]domain.Card, error)
}

// QuotaService reports an account's quota state.
// Implemented by quota.Manager.
type QuotaService interface {
	Usage(ctx context.Context, accountID uuid.UUID) (*quota.Snapshot, error)
}

// GenerateRequest represents the request body for starting a
// generation job.
type GenerateRequest struct {
	Text           string `json:"text"            validate:"required,min=1"`
	RequestedCount int    `json:"requested_count" validate:"omitempty,gt=0"`
}

// JobAcceptedResponse is returned when a generation job is accepted.
type JobAcceptedResponse struct {
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	RequestedCount int    `json:"requested_count"`
}

// CardResponse represents one generated card.
type CardResponse struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// JobResponse represents a job's observable state for polling clients.
type JobResponse struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	Cards      []CardResponse `json:"cards,omitempty"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// QuotaResponse reports the account's quota state.
type QuotaResponse struct {
	Plan        string `json:"plan"`
	DailyLimit  int    `json:"daily_limit"`
	DailyUsed   int    `json:"daily_used"`
	Remaining   int    `json:"remaining"`
	MonthlyUsed int    `json:"monthly_used"`
}

// jobToResponse converts a domain.GenerationJob to its API shape.
func jobToResponse(j *domain.GenerationJob) JobResponse {
	resp := JobResponse{
		ID:         j.ID.String(),
		Status:     string(j.Status),
		Error:      j.ErrorMessage,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}

	if j.Status == domain.JobStatusComplete {
		resp.Cards = make([]CardResponse, 0, len(j.Cards))
		for _, card := range j.Cards {
			resp.Cards = append(resp.Cards, CardResponse{
				ID:    card.ID.String(),
				Front: card.Front,
				Back:  card.Back,
			})
		}
	}

	return resp
}

// snapshotToResponse converts a quota.Snapshot to its API shape.
func snapshotToResponse(s *quota.Snapshot) QuotaResponse {
	return QuotaResponse{
		Plan:        string(s.Plan),
		DailyLimit:  s.DailyLimit,
		DailyUsed:   s.DailyUsed,
		Remaining:   s.Remaining,
		MonthlyUsed: s.MonthlyUsed,
	}
}
