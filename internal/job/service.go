package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/segment"
	"github.com/cardifyai-code/cardifyai/internal/store"
	"github.com/cardifyai-code/cardifyai/internal/task"
)

// TaskRunner is the slice of the background runner the service needs.
// Implemented by task.Runner.
type TaskRunner interface {
	Submit(ctx context.Context, t task.Task) error
}

// Service coordinates the job lifecycle: it gates new requests on the
// account's quota, persists the job record, and schedules the pipeline
// on the background runner. Clients observe progress only through the
// persisted job, never through shared memory.
type Service struct {
	jobs      store.JobStore
	cards     store.CardStore
	tasks     task.Store
	txn       Transactor
	quota     QuotaService
	generator CardGenerator
	runner    TaskRunner
	maxChars  int
	logger    *slog.Logger
}

// NewService creates a job Service. All dependencies are required
// except logger, which falls back to slog.Default. maxChars bounds the
// segment size; zero or negative selects the default.
func NewService(
	jobs store.JobStore,
	cards store.CardStore,
	tasks task.Store,
	txn Transactor,
	quota QuotaService,
	generator CardGenerator,
	runner TaskRunner,
	maxChars int,
	logger *slog.Logger,
) (*Service, error) {
	if jobs == nil {
		return nil, errors.New("job store cannot be nil")
	}
	if cards == nil {
		return nil, errors.New("card store cannot be nil")
	}
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if txn == nil {
		return nil, errors.New("transactor cannot be nil")
	}
	if quota == nil {
		return nil, errors.New("quota service cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("card generator cannot be nil")
	}
	if runner == nil {
		return nil, errors.New("task runner cannot be nil")
	}
	if maxChars <= 0 {
		maxChars = segment.DefaultMaxChars
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		jobs:      jobs,
		cards:     cards,
		tasks:     tasks,
		txn:       txn,
		quota:     quota,
		generator: generator,
		runner:    runner,
		maxChars:  maxChars,
		logger:    logger.With(slog.String("component", "job_service")),
	}, nil
}

// Enqueue validates a generation request, clamps it to the account's
// remaining quota, persists a queued job and schedules it for
// background execution. Returns quota.ErrQuotaExhausted without
// creating a job when no allowance remains, and ErrInvalidRequest when
// the request itself is malformed.
//
// If the background queue is full or closed the pipeline runs
// synchronously before returning; the caller then receives the job in
// its terminal state. Either way each accepted request executes the
// pipeline exactly once.
func (s *Service) Enqueue(ctx context.Context, accountID uuid.UUID, sourceText string, requestedCount int) (*domain.GenerationJob, error) {
	if accountID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing account ID", ErrInvalidRequest)
	}
	if requestedCount < 1 {
		return nil, fmt.Errorf("%w: requested count must be positive", ErrInvalidRequest)
	}
	if segment.Clean(sourceText) == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, ErrEmptySource)
	}

	clamped, err := s.quota.Enforce(ctx, accountID, requestedCount)
	if err != nil {
		return nil, err
	}

	newJob, err := domain.NewGenerationJob(accountID, sourceText, clamped)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	if err := s.jobs.Create(ctx, newJob); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	genTask, err := NewGenerationTask(newJob, s.jobs, s.cards, s.txn, s.quota, s.generator, s.maxChars, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build generation task: %w", err)
	}

	if err := s.runner.Submit(ctx, genTask); err != nil {
		if errors.Is(err, task.ErrQueueFull) || errors.Is(err, task.ErrQueueClosed) {
			s.logger.WarnContext(ctx, "task queue unavailable, running job synchronously",
				slog.String("job_id", newJob.ID.String()),
				slog.String("reason", err.Error()))
			s.runSynchronously(ctx, genTask)
			return newJob, nil
		}

		s.logger.ErrorContext(ctx, "failed to schedule generation job",
			slog.String("job_id", newJob.ID.String()),
			slog.String("error", err.Error()))
		if markErr := newJob.MarkError("failed to schedule generation"); markErr == nil {
			if updErr := s.jobs.Update(ctx, newJob); updErr != nil {
				s.logger.ErrorContext(ctx, "failed to persist job error state",
					slog.String("job_id", newJob.ID.String()),
					slog.String("error", updErr.Error()))
			}
		}
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}

	s.logger.InfoContext(ctx, "generation job enqueued",
		slog.String("job_id", newJob.ID.String()),
		slog.String("account_id", accountID.String()),
		slog.Int("requested_count", clamped))

	return newJob, nil
}

// runSynchronously executes the task inline and reconciles the task
// record afterward. Submit may have persisted the task as pending
// before the enqueue failed; settling it here keeps crash recovery
// from replaying a job that already ran.
func (s *Service) runSynchronously(ctx context.Context, genTask *GenerationTask) {
	execErr := genTask.Execute(ctx)

	status := task.StatusCompleted
	errMsg := ""
	if execErr != nil {
		status = task.StatusFailed
		errMsg = execErr.Error()
	}

	if err := s.tasks.UpdateTaskStatus(ctx, genTask.ID(), status, errMsg); err != nil {
		s.logger.WarnContext(ctx, "failed to settle task record after synchronous run",
			slog.String("task_id", genTask.ID().String()),
			slog.String("error", err.Error()))
	}
}

// ReviveTask attaches execution logic to a card generation task loaded
// from the database after a restart. Tasks of other types, and task
// implementations without an execution hook, are left untouched.
func (s *Service) ReviveTask(t task.Task) {
	if t.Type() != task.TypeCardGeneration {
		return
	}

	settable, ok := t.(interface {
		SetExecuteFn(fn func(ctx context.Context) error)
	})
	if !ok {
		return
	}

	taskID := t.ID()
	payload := t.Payload()
	settable.SetExecuteFn(func(ctx context.Context) error {
		return s.executeRecovered(ctx, taskID, payload)
	})
}

// executeRecovered rebuilds the generation pipeline for a recovered
// task and runs it. A task whose job already reached a terminal state
// is treated as settled rather than replayed, so cards are never
// generated or counted twice.
func (s *Service) executeRecovered(ctx context.Context, taskID uuid.UUID, payload []byte) error {
	var p generationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid card generation payload for task %s: %w", taskID, err)
	}

	recoveredJob, err := s.jobs.GetByID(ctx, p.JobID)
	if err != nil {
		return fmt.Errorf("failed to load job %s for recovered task: %w", p.JobID, err)
	}

	if recoveredJob.IsTerminal() {
		s.logger.InfoContext(ctx, "recovered task's job already settled, skipping",
			slog.String("task_id", taskID.String()),
			slog.String("job_id", recoveredJob.ID.String()),
			slog.String("job_status", string(recoveredJob.Status)))
		return nil
	}

	genTask, err := NewGenerationTask(recoveredJob, s.jobs, s.cards, s.txn, s.quota, s.generator, s.maxChars, s.logger)
	if err != nil {
		return fmt.Errorf("failed to rebuild generation task: %w", err)
	}

	return genTask.Execute(ctx)
}

// GetJob returns the job with the given ID, including its result cards
// once complete. Returns ErrJobNotFound if no such job exists.
func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.GenerationJob, error) {
	found, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) || errors.Is(err, store.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return found, nil
}

// GetJobCards returns the cards produced by a job, in insertion order.
// The job must exist; a complete job with no cards yields an empty
// slice.
func (s *Service) GetJobCards(ctx context.Context, jobID uuid.UUID) ([]domain.Card, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}

	cards, err := s.cards.FindByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job cards: %w", err)
	}
	return cards, nil
}
