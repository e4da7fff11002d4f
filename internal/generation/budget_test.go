package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardifyai-code/cardifyai/internal/segment"
)

func TestBudgetFor(t *testing.T) {
	t.Parallel()

	seg := func(length, index, total int) segment.Segment {
		return segment.Segment{Text: strings.Repeat("a", length), Index: index, Total: total}
	}

	t.Run("single segment takes the full request", func(t *testing.T) {
		t.Parallel()
		s := seg(500, 0, 1)
		assert.Equal(t, 5, budgetFor(s, 500, 5, 5))
	})

	t.Run("proportional to length", func(t *testing.T) {
		t.Parallel()
		// 6000 of 13000 chars, 10 requested: round(10*6000/13000) = 5
		assert.Equal(t, 5, budgetFor(seg(6000, 0, 3), 13000, 10, 10))
		// 1000 of 13000: round(10*1000/13000) = 1
		assert.Equal(t, 1, budgetFor(seg(1000, 2, 3), 13000, 10, 10))
	})

	t.Run("floor of one for tiny segments", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1, budgetFor(seg(1, 0, 2), 100000, 3, 3))
	})

	t.Run("capped at remaining", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 2, budgetFor(seg(6000, 0, 2), 7000, 10, 2))
	})

	t.Run("zero remaining yields zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, budgetFor(seg(6000, 1, 2), 7000, 10, 0))
	})

	t.Run("zero total length falls back to uniform split", func(t *testing.T) {
		t.Parallel()
		s := segment.Segment{Text: "", Index: 0, Total: 4}
		assert.Equal(t, 2, budgetFor(s, 0, 8, 8))
	})
}
