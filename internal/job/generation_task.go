package job

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/segment"
	"github.com/cardifyai-code/cardifyai/internal/store"
	"github.com/cardifyai-code/cardifyai/internal/task"
)

// CardGenerator produces normalized card contents for a job's segments.
// Implemented by generation.Orchestrator.
type CardGenerator interface {
	GenerateAll(ctx context.Context, segments []segment.Segment, totalRequested int) ([]domain.CardContent, error)
}

// Transactor runs a function inside a single database transaction.
// Implemented by store.DBTransactor.
type Transactor interface {
	Transact(ctx context.Context, fn store.TxFn) error
}

// QuotaService is the slice of quota management the job pipeline needs:
// clamping a request before a job is created and recording actual
// production after one completes. Implemented by quota.Manager.
type QuotaService interface {
	Enforce(ctx context.Context, accountID uuid.UUID, requested int) (int, error)
	RecordUsage(ctx context.Context, accountID uuid.UUID, actualCount int) error
}

// generationPayload is the durable representation of a generation task,
// stored alongside the task record for debugging and recovery.
type generationPayload struct {
	JobID          uuid.UUID `json:"job_id"`
	AccountID      uuid.UUID `json:"account_id"`
	RequestedCount int       `json:"requested_count"`
}

// GenerationTask runs the full pipeline for one job: segment the source
// text, drive the generation backend across the segments, persist the
// accepted cards, record quota usage, and land the job in a terminal
// state. A job this task touches never stays in running; every exit
// path ends in complete or error.
type GenerationTask struct {
	id        uuid.UUID
	job       *domain.GenerationJob
	jobs      store.JobStore
	cards     store.CardStore
	txn       Transactor
	quota     QuotaService
	generator CardGenerator
	maxChars  int
	logger    *slog.Logger

	mu     sync.Mutex
	status task.Status
}

// NewGenerationTask creates a task that will execute the given job.
func NewGenerationTask(
	job *domain.GenerationJob,
	jobs store.JobStore,
	cards store.CardStore,
	txn Transactor,
	quota QuotaService,
	generator CardGenerator,
	maxChars int,
	logger *slog.Logger,
) (*GenerationTask, error) {
	if job == nil {
		return nil, fmt.Errorf("job cannot be nil")
	}
	if jobs == nil {
		return nil, fmt.Errorf("job store cannot be nil")
	}
	if cards == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	if txn == nil {
		return nil, fmt.Errorf("transactor cannot be nil")
	}
	if quota == nil {
		return nil, fmt.Errorf("quota service cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("card generator cannot be nil")
	}
	if maxChars <= 0 {
		maxChars = segment.DefaultMaxChars
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GenerationTask{
		id:        uuid.New(),
		job:       job,
		jobs:      jobs,
		cards:     cards,
		txn:       txn,
		quota:     quota,
		generator: generator,
		maxChars:  maxChars,
		logger: logger.With(
			slog.String("component", "generation_task"),
			slog.String("job_id", job.ID.String())),
		status: task.StatusPending,
	}, nil
}

// ID returns the task's unique identifier.
func (t *GenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *GenerationTask) Type() string {
	return task.TypeCardGeneration
}

// Payload returns the serialized task parameters.
func (t *GenerationTask) Payload() []byte {
	data, err := json.Marshal(generationPayload{
		JobID:          t.job.ID,
		AccountID:      t.job.AccountID,
		RequestedCount: t.job.RequestedCount,
	})
	if err != nil {
		t.logger.Error("failed to marshal task payload", slog.String("error", err.Error()))
		return nil
	}
	return data
}

// Status returns the current in-memory task status.
func (t *GenerationTask) Status() task.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *GenerationTask) setStatus(status task.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

// Execute runs the generation pipeline. The returned error reports the
// outcome to the task runner; the job record itself is always updated
// to a terminal state before returning, so clients polling the job see
// the failure even if the task record lags.
func (t *GenerationTask) Execute(ctx context.Context) error {
	t.setStatus(task.StatusProcessing)

	if err := t.job.MarkRunning(); err != nil {
		t.setStatus(task.StatusFailed)
		return fmt.Errorf("cannot start job %s: %w", t.job.ID, err)
	}
	if err := t.jobs.Update(ctx, t.job); err != nil {
		// The stored row still says queued; land it in error so a
		// polling client is not left waiting on a job nothing will run.
		return t.fail(ctx, "failed to start generation", err)
	}

	t.logger.InfoContext(ctx, "generation job started",
		slog.Int("requested_count", t.job.RequestedCount),
		slog.Int("source_chars", len(t.job.SourceText)))

	segments := segment.Split(t.job.SourceText, t.maxChars)
	if len(segments) == 0 {
		return t.fail(ctx, "source text contained no processable content", ErrEmptySource)
	}

	contents, err := t.generator.GenerateAll(ctx, segments, t.job.RequestedCount)
	if err != nil {
		return t.fail(ctx, "card generation failed", err)
	}

	cards := make([]domain.Card, 0, len(contents))
	for _, content := range contents {
		card, err := domain.NewCard(t.job.AccountID, t.job.ID, content)
		if err != nil {
			return t.fail(ctx, "generated card failed validation", err)
		}
		cards = append(cards, *card)
	}

	// Complete a copy first so a failed commit leaves t.job running
	// and the error path below can still settle it.
	completed := *t.job
	if err := completed.MarkComplete(cards); err != nil {
		t.setStatus(task.StatusFailed)
		return fmt.Errorf("cannot complete job %s: %w", t.job.ID, err)
	}

	// Cards and the completed job land atomically: a job never reads
	// complete while its cards are missing, and saved cards never
	// outlive a job that failed to complete.
	err = t.txn.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if len(cards) > 0 {
			if err := t.cards.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
				return err
			}
		}
		return t.jobs.WithTx(tx).Update(ctx, &completed)
	})
	if err != nil {
		return t.fail(ctx, "failed to save generation results", err)
	}
	*t.job = completed

	// Usage counts what was actually produced, once per job, after the
	// cards are committed. A failed increment under-counts rather than
	// rolling back cards that are already delivered.
	if len(cards) > 0 {
		if err := t.quota.RecordUsage(ctx, t.job.AccountID, len(cards)); err != nil {
			t.logger.WarnContext(ctx, "failed to record quota usage",
				slog.Int("cards", len(cards)),
				slog.String("error", err.Error()))
		}
	}

	t.setStatus(task.StatusCompleted)
	t.logger.InfoContext(ctx, "generation job completed",
		slog.Int("requested_count", t.job.RequestedCount),
		slog.Int("cards_created", len(cards)),
		slog.Int("segments", len(segments)))

	return nil
}

// fail lands the job in the error state with a client-safe message,
// then reports the underlying cause to the runner. Persisting the
// error state is best effort; if that update also fails the task
// record still captures the failure.
func (t *GenerationTask) fail(ctx context.Context, message string, cause error) error {
	t.setStatus(task.StatusFailed)

	if err := t.job.MarkError(message); err != nil {
		t.logger.ErrorContext(ctx, "failed to transition job to error state",
			slog.String("error", err.Error()))
	} else if err := t.jobs.Update(ctx, t.job); err != nil {
		t.logger.ErrorContext(ctx, "failed to persist job error state",
			slog.String("error", err.Error()))
	}

	return fmt.Errorf("%s: %w", message, cause)
}
