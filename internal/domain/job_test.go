package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardifyai-code/cardifyai/internal/domain"
)

func newTestJob(t *testing.T) *domain.GenerationJob {
	t.Helper()
	job, err := domain.NewGenerationJob(uuid.New(), "some source text", 5)
	require.NoError(t, err)
	return job
}

func TestNewGenerationJob(t *testing.T) {
	t.Parallel()

	t.Run("valid job starts queued", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t)
		assert.Equal(t, domain.JobStatusQueued, job.Status)
		assert.Nil(t, job.StartedAt)
		assert.Nil(t, job.FinishedAt)
		assert.Nil(t, job.Cards)
		assert.False(t, job.IsTerminal())
	})

	t.Run("rejects empty source text", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewGenerationJob(uuid.New(), "   ", 5)
		assert.ErrorIs(t, err, domain.ErrEmptyJobSourceText)
	})

	t.Run("rejects non-positive requested count", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewGenerationJob(uuid.New(), "text", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRequestedCount)
	})
}

func TestJobLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("queued to running to complete", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t)
		require.NoError(t, job.MarkRunning())
		assert.Equal(t, domain.JobStatusRunning, job.Status)
		require.NotNil(t, job.StartedAt)

		card, err := domain.NewCard(job.AccountID, job.ID, domain.CardContent{Front: "q", Back: "a"})
		require.NoError(t, err)

		require.NoError(t, job.MarkComplete([]domain.Card{*card}))
		assert.Equal(t, domain.JobStatusComplete, job.Status)
		assert.Len(t, job.Cards, 1)
		require.NotNil(t, job.FinishedAt)
		assert.True(t, job.IsTerminal())
	})

	t.Run("cannot complete without running", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t)
		assert.ErrorIs(t, job.MarkComplete(nil), domain.ErrJobNotRunning)
	})

	t.Run("error discards partial result", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t)
		require.NoError(t, job.MarkRunning())
		job.Cards = []domain.Card{{}}

		require.NoError(t, job.MarkError("generation exploded"))
		assert.Equal(t, domain.JobStatusError, job.Status)
		assert.Equal(t, "generation exploded", job.ErrorMessage)
		assert.Nil(t, job.Cards, "an errored job never carries a result")
	})

	t.Run("terminal states are final", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t)
		require.NoError(t, job.MarkRunning())
		require.NoError(t, job.MarkComplete(nil))

		assert.ErrorIs(t, job.MarkRunning(), domain.ErrJobTerminal)
		assert.ErrorIs(t, job.MarkError("too late"), domain.ErrJobTerminal)
		assert.ErrorIs(t, job.MarkComplete(nil), domain.ErrJobTerminal)
	})
}

func TestParsePlanTier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.PlanBasic, domain.ParsePlanTier(" Basic "))
	assert.Equal(t, domain.PlanProfessional, domain.ParsePlanTier("professional"))
	assert.Equal(t, domain.PlanFree, domain.ParsePlanTier(""))
	assert.Equal(t, domain.PlanFree, domain.ParsePlanTier("enterprise"))
}
