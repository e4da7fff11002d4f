package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardifyai-code/cardifyai/internal/domain"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()
	jobID := uuid.New()

	t.Run("valid content", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(accountID, jobID, domain.CardContent{
			Front: "  What is Go?  ",
			Back:  "A programming language.",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, "What is Go?", card.Front, "front should be trimmed")
		assert.Equal(t, "A programming language.", card.Back)
		assert.Equal(t, accountID, card.AccountID)
		assert.Equal(t, jobID, card.JobID)
		assert.False(t, card.CreatedAt.IsZero())
	})

	t.Run("empty front", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(accountID, jobID, domain.CardContent{Front: "   ", Back: "answer"})
		assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)
	})

	t.Run("empty back", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(accountID, jobID, domain.CardContent{Front: "question", Back: "\n\t"})
		assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
	})

	t.Run("nil account ID", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(uuid.Nil, jobID, domain.CardContent{Front: "q", Back: "a"})
		assert.ErrorIs(t, err, domain.ErrCardAccountIDEmpty)
	})

	t.Run("nil job ID", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(accountID, uuid.Nil, domain.CardContent{Front: "q", Back: "a"})
		assert.ErrorIs(t, err, domain.ErrCardJobIDEmpty)
	})
}

func TestCardContentKey(t *testing.T) {
	t.Parallel()

	a := domain.CardContent{Front: "Front ", Back: " Back"}
	b := domain.CardContent{Front: "Front", Back: "Back"}
	c := domain.CardContent{Front: "front", Back: "Back"}

	assert.Equal(t, a.Key(), b.Key(), "trimming should not affect identity")
	assert.NotEqual(t, b.Key(), c.Key(), "dedup key is case-sensitive")
}

func TestCardContentIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.CardContent{Front: " ", Back: "a"}.IsEmpty())
	assert.True(t, domain.CardContent{Front: "q", Back: ""}.IsEmpty())
	assert.False(t, domain.CardContent{Front: "q", Back: "a"}.IsEmpty())
}
