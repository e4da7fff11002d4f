package generation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cardifyai-code/cardifyai/internal/domain"
	"github.com/cardifyai-code/cardifyai/internal/segment"
)

// Orchestrator drives the generation backend across a request's
// segments, allocating the requested card count proportionally and
// collecting normalized, deduplicated cards.
type Orchestrator struct {
	generator Generator
	logger    *slog.Logger
}

// NewOrchestrator creates an Orchestrator. The generator must not be
// nil; a nil logger falls back to slog.Default.
func NewOrchestrator(generator Generator, logger *slog.Logger) (*Orchestrator, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		generator: generator,
		logger:    logger.With(slog.String("component", "orchestrator")),
	}, nil
}

// GenerateAll runs the backend once per segment, in index order, until
// the requested total is met or the segments run out. Each segment's
// budget is proportional to its length (floor 1, capped at what
// remains); acceptance is decremented by cards actually kept after
// normalization, not by the budget asked for, so under-delivering
// segments leave room for later ones.
//
// A failed backend call or unparseable output costs only that
// segment's contribution; the run continues. The returned slice never
// exceeds totalRequested.
func (o *Orchestrator) GenerateAll(
	ctx context.Context,
	segments []segment.Segment,
	totalRequested int,
) ([]domain.CardContent, error) {
	if totalRequested < 1 || len(segments) == 0 {
		return nil, nil
	}

	totalLength := segment.TotalLength(segments)
	normalizer := NewNormalizer()
	remaining := totalRequested

	var all []domain.CardContent
	for _, seg := range segments {
		if remaining <= 0 {
			o.logger.DebugContext(ctx, "request satisfied, skipping remaining segments",
				slog.Int("segment_index", seg.Index),
				slog.Int("total_segments", seg.Total))
			break
		}

		accepted := o.generateForSegment(ctx, seg, totalLength, totalRequested, remaining, normalizer)
		all = append(all, accepted...)
		remaining -= len(accepted)
	}

	o.logger.InfoContext(ctx, "generation run finished",
		slog.Int("segments", len(segments)),
		slog.Int("requested", totalRequested),
		slog.Int("accepted", len(all)))

	return all, nil
}

// generateForSegment performs one backend call and returns the cards
// accepted for the segment. Failures are logged and recovered here;
// they never abort the job.
func (o *Orchestrator) generateForSegment(
	ctx context.Context,
	seg segment.Segment,
	totalLength, totalRequested, remaining int,
	normalizer *Normalizer,
) []domain.CardContent {
	budget := budgetFor(seg, totalLength, totalRequested, remaining)
	if budget < 1 {
		return nil
	}

	log := o.logger.With(
		slog.Int("segment_index", seg.Index),
		slog.Int("total_segments", seg.Total),
		slog.Int("budget", budget))

	raw, err := o.generator.GenerateRaw(ctx, SegmentRequest{
		Text:          seg.Text,
		SegmentIndex:  seg.Index,
		TotalSegments: seg.Total,
		TargetCount:   budget,
	})
	if err != nil {
		log.WarnContext(ctx, "segment contributed no cards",
			slog.String("error", errors.Join(ErrSegmentGeneration, err).Error()))
		return nil
	}

	accepted := normalizer.Normalize(raw, remaining)
	log.DebugContext(ctx, "segment processed", slog.Int("accepted", len(accepted)))

	return accepted
}
