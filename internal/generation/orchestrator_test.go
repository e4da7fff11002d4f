package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardifyai-code/cardifyai/internal/segment"
)

// mockGenerator implements the Generator interface for testing
type mockGenerator struct {
	calls    []SegmentRequest
	generate func(req SegmentRequest) (json.RawMessage, error)
}

func (m *mockGenerator) GenerateRaw(ctx context.Context, req SegmentRequest) (json.RawMessage, error) {
	m.calls = append(m.calls, req)
	return m.generate(req)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// cardsJSON builds a raw response with count cards tagged by segment index.
func cardsJSON(segmentIndex, count int) json.RawMessage {
	items := make([]string, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, fmt.Sprintf(`{"front": "s%d-q%d", "back": "s%d-a%d"}`,
			segmentIndex, i, segmentIndex, i))
	}
	return json.RawMessage("[" + strings.Join(items, ",") + "]")
}

func segmentsOfLengths(lengths ...int) []segment.Segment {
	segs := make([]segment.Segment, len(lengths))
	for i, l := range lengths {
		segs[i] = segment.Segment{Text: strings.Repeat("x", l), Index: i, Total: len(lengths)}
	}
	return segs
}

func TestNewOrchestrator(t *testing.T) {
	t.Parallel()

	_, err := NewOrchestrator(nil, discardLogger())
	assert.Error(t, err)

	o, err := NewOrchestrator(&mockGenerator{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestGenerateAllSingleSegment(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{generate: func(req SegmentRequest) (json.RawMessage, error) {
		return cardsJSON(req.SegmentIndex, req.TargetCount), nil
	}}
	o, err := NewOrchestrator(gen, discardLogger())
	require.NoError(t, err)

	cards, err := o.GenerateAll(context.Background(), segmentsOfLengths(500), 5)
	require.NoError(t, err)

	require.Len(t, gen.calls, 1, "one segment means one backend call")
	assert.Equal(t, 5, gen.calls[0].TargetCount, "single segment gets the full budget")
	assert.Len(t, cards, 5)
}

func TestGenerateAllProportionalBudgets(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{generate: func(req SegmentRequest) (json.RawMessage, error) {
		return cardsJSON(req.SegmentIndex, req.TargetCount), nil
	}}
	o, err := NewOrchestrator(gen, discardLogger())
	require.NoError(t, err)

	// 13000 chars split 6000/6000/1000, requested 10.
	cards, err := o.GenerateAll(context.Background(), segmentsOfLengths(6000, 6000, 1000), 10)
	require.NoError(t, err)

	// First two segments get non-zero proportional budgets and deliver
	// in full; nothing remains for the third, so it is skipped.
	require.Len(t, gen.calls, 2)
	assert.Equal(t, 5, gen.calls[0].TargetCount)
	assert.Equal(t, 5, gen.calls[1].TargetCount)

	assert.Len(t, cards, 10)
}

func TestGenerateAllStopsWhenSatisfied(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{generate: func(req SegmentRequest) (json.RawMessage, error) {
		// Over-deliver relative to the budget; normalization clamps.
		return cardsJSON(req.SegmentIndex, 50), nil
	}}
	o, err := NewOrchestrator(gen, discardLogger())
	require.NoError(t, err)

	cards, err := o.GenerateAll(context.Background(), segmentsOfLengths(4000, 4000, 4000), 6)
	require.NoError(t, err)

	assert.Len(t, cards, 6)
	assert.Less(t, len(gen.calls), 3, "no further segment calls once remaining hits zero")
}

func TestGenerateAllUnderDeliveryRollsForward(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{generate: func(req SegmentRequest) (json.RawMessage, error) {
		if req.SegmentIndex == 0 {
			// First segment returns fewer than asked.
			return cardsJSON(req.SegmentIndex, 1), nil
		}
		return cardsJSON(req.SegmentIndex, req.TargetCount), nil
	}}
	o, err := NewOrchestrator(gen, discardLogger())
	require.NoError(t, err)

	cards, err := o.GenerateAll(context.Background(), segmentsOfLengths(5000, 5000), 8)
	require.NoError(t, err)

	require.Len(t, gen.calls, 2)
	// remaining was decremented by the 1 accepted card, not by the
	// budget of 4 that was asked for, so the second segment still has
	// 7 slots available; its proportional share stays 4.
	assert.Equal(t, 4, gen.calls[1].TargetCount)
	assert.Len(t, cards, 5)
}

func TestGenerateAllRecoversFailedSegment(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{generate: func(req SegmentRequest) (json.RawMessage, error) {
		if req.SegmentIndex == 1 {
			return nil, errors.New("backend unavailable")
		}
		return cardsJSON(req.SegmentIndex, 2), nil
	}}
	o, err := NewOrchestrator(gen, discardLogger())
	require.NoError(t, err)

	cards, err := o.GenerateAll(context.Background(), segmentsOfLengths(4000, 4000, 4000), 9)
	require.NoError(t, err, "a single bad segment must not fail the run")

	require.Len(t, gen.calls, 3)
	assert.Len(t, cards, 4, "segments 1 and 3 still contribute")
}

func TestGenerateAllUnparseableSegmentContributesNothing(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{generate: func(req SegmentRequest) (json.RawMessage, error) {
		if req.SegmentIndex == 0 {
			return json.RawMessage("total garbage"), nil
		}
		return cardsJSON(req.SegmentIndex, 2), nil
	}}
	o, err := NewOrchestrator(gen, discardLogger())
	require.NoError(t, err)

	cards, err := o.GenerateAll(context.Background(), segmentsOfLengths(4000, 4000), 6)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestGenerateAllCrossSegmentDedup(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{generate: func(req SegmentRequest) (json.RawMessage, error) {
		// Every segment returns the same card.
		return json.RawMessage(`[{"front": "same", "back": "card"}]`), nil
	}}
	o, err := NewOrchestrator(gen, discardLogger())
	require.NoError(t, err)

	cards, err := o.GenerateAll(context.Background(), segmentsOfLengths(4000, 4000, 4000), 9)
	require.NoError(t, err)
	require.Len(t, cards, 1, "duplicate across segments kept once, first occurrence wins")
	assert.Equal(t, "same", cards[0].Front)
}

func TestGenerateAllEmptyInputs(t *testing.T) {
	t.Parallel()

	o, err := NewOrchestrator(&mockGenerator{}, discardLogger())
	require.NoError(t, err)

	cards, err := o.GenerateAll(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, cards)

	cards, err = o.GenerateAll(context.Background(), segmentsOfLengths(100), 0)
	require.NoError(t, err)
	assert.Empty(t, cards)
}
