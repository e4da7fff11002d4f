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

// PostgresJobStore implements the store.JobStore interface using a
// PostgreSQL database as the storage backend.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgreSQL implementation of the
// JobStore interface. If logger is nil, a default logger will be used.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements store.JobStore interface
var _ store.JobStore = (*PostgresJobStore)(nil)

// Create implements store.JobStore.Create
// Returns validation errors from the domain job if data is invalid.
// Returns store.ErrInvalidEntity if the account doesn't exist.
func (s *PostgresJobStore) Create(ctx context.Context, job *domain.GenerationJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during create",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return err
	}

	query := `
		INSERT INTO generation_jobs
			(id, account_id, source_text, requested_count, status,
			error_message, created_at, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.AccountID,
		job.SourceText,
		job.RequestedCount,
		job.Status,
		job.ErrorMessage,
		job.CreatedAt,
		job.StartedAt,
		job.FinishedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during job creation",
				slog.String("job_id", job.ID.String()),
				slog.String("account_id", job.AccountID.String()))
			return fmt.Errorf("%w: account with ID %s not found",
				store.ErrInvalidEntity, job.AccountID)
		}

		log.Error("failed to create job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return WrapError(err, "job", "create")
	}

	log.Info("generation job created",
		slog.String("job_id", job.ID.String()),
		slog.String("account_id", job.AccountID.String()),
		slog.Int("requested_count", job.RequestedCount))
	return nil
}

// GetByID implements store.JobStore.GetByID
// The job's result cards are loaded alongside it when present.
// Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, account_id, source_text, requested_count, status,
			error_message, created_at, started_at, finished_at
		FROM generation_jobs
		WHERE id = $1
	`

	var job domain.GenerationJob
	var status string
	var errorMessage sql.NullString
	var startedAt, finishedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.AccountID,
		&job.SourceText,
		&job.RequestedCount,
		&status,
		&errorMessage,
		&job.CreatedAt,
		&startedAt,
		&finishedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("job not found", slog.String("job_id", id.String()))
			return nil, store.ErrJobNotFound
		}
		log.Error("failed to get job by ID",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return nil, WrapError(err, "job", "get")
	}

	job.Status = domain.JobStatus(status)
	job.ErrorMessage = errorMessage.String
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		job.FinishedAt = &t
	}

	if job.Status == domain.JobStatusComplete {
		cards, err := s.loadCards(ctx, id)
		if err != nil {
			log.Error("failed to load job cards",
				slog.String("error", err.Error()),
				slog.String("job_id", id.String()))
			return nil, err
		}
		job.Cards = cards
	}

	return &job, nil
}

// Update implements store.JobStore.Update
// It persists the job's status, timestamps and error message. Result
// cards are written separately via CardStore.
// Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresJobStore) Update(ctx context.Context, job *domain.GenerationJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during update",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return err
	}

	query := `
		UPDATE generation_jobs
		SET status = $1, error_message = $2, started_at = $3,
			finished_at = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		job.Status,
		job.ErrorMessage,
		job.StartedAt,
		job.FinishedAt,
		time.Now().UTC(),
		job.ID,
	)

	if err != nil {
		log.Error("failed to update job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()),
			slog.String("status", string(job.Status)))
		return WrapError(err, "job", "update")
	}

	if err := CheckRowsAffected(result, "job"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrJobNotFound, err)
	}

	log.Debug("job updated",
		slog.String("job_id", job.ID.String()),
		slog.String("status", string(job.Status)))
	return nil
}

// loadCards fetches a job's result cards in insertion order.
func (s *PostgresJobStore) loadCards(ctx context.Context, jobID uuid.UUID) ([]domain.Card, error) {
	query := `
		SELECT id, account_id, job_id, front, back, created_at
		FROM cards
		WHERE job_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, WrapError(err, "card", "load_for_job")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID,
			&card.AccountID,
			&card.JobID,
			&card.Front,
			&card.Back,
			&card.CreatedAt,
		); err != nil {
			return nil, WrapError(err, "card", "load_for_job")
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, WrapError(err, "card", "load_for_job")
	}

	if cards == nil {
		cards = []domain.Card{}
	}
	return cards, nil
}

// WithTx implements store.JobStore.WithTx
// It returns a new JobStore that uses the provided transaction.
func (s *PostgresJobStore) WithTx(tx *sql.Tx) store.JobStore {
	return &PostgresJobStore{
		db:     tx,
		logger: s.logger,
	}
}
