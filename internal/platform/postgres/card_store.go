package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/platform/logger"
	"github.com/cardifyai-code/cardifyai/internal/store"
)

// PostgresCardStore implements the store.CardStore interface using a
// PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is
// nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// CreateMultiple implements store.CardStore.CreateMultiple
// It saves the batch in a single multi-row INSERT; the position column
// preserves generation order for later reads. A validation failure on
// any card aborts the whole batch before the statement runs.
// Returns store.ErrInvalidEntity if the account or job doesn't exist.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			log.Warn("card validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("card_id", cards[i].ID.String()))
			return err
		}
	}

	const fieldsPerCard = 7
	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO cards (id, account_id, job_id, front, back, position, created_at)
		VALUES `)

	args := make([]interface{}, 0, len(cards)*fieldsPerCard)
	for i, card := range cards {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * fieldsPerCard
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args,
			card.ID, card.AccountID, card.JobID,
			card.Front, card.Back, i, card.CreatedAt)
	}

	_, err := s.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during card batch create",
				slog.String("job_id", cards[0].JobID.String()))
			return fmt.Errorf("%w: account or job not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create cards",
			slog.String("error", err.Error()),
			slog.String("job_id", cards[0].JobID.String()),
			slog.Int("count", len(cards)))
		return WrapError(err, "card", "create")
	}

	log.Info("cards created",
		slog.String("job_id", cards[0].JobID.String()),
		slog.Int("count", len(cards)))
	return nil
}

// FindByJobID implements store.CardStore.FindByJobID
// It retrieves a job's cards in generation order. Returns an empty
// slice when the job produced none.
func (s *PostgresCardStore) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, account_id, job_id, front, back, created_at
		FROM cards
		WHERE job_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		log.Error("failed to query cards by job ID",
			slog.String("error", err.Error()),
			slog.String("job_id", jobID.String()))
		return nil, WrapError(err, "card", "find_by_job")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
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
			log.Error("failed to scan card row",
				slog.String("error", err.Error()))
			return nil, WrapError(err, "card", "find_by_job")
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning card rows",
			slog.String("error", err.Error()))
		return nil, WrapError(err, "card", "find_by_job")
	}

	if cards == nil {
		cards = []domain.Card{}
	}

	log.Debug("found cards by job ID",
		slog.String("job_id", jobID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// WithTx implements store.CardStore.WithTx
// It returns a new CardStore that uses the provided transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}
