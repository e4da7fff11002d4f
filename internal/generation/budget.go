package generation

import (
	"math"

	"github.com/cardifyai-code/cardifyai/internal/segment"
)

// budgetFor computes the card budget for one segment: its share of the
// total request, proportional to segment length, floored at 1 so every
// segment gets a chance to contribute, and capped at whatever remains
// unallocated. A zero total length (which cannot happen with non-empty
// segments) falls back to a uniform split.
//
// The allocator is applied incrementally during orchestration rather
// than pre-computed in full: each segment's actual yield shrinks the
// pool available to the segments after it.
func budgetFor(seg segment.Segment, totalLength, totalRequested, remaining int) int {
	if remaining <= 0 {
		return 0
	}

	var proportion float64
	if totalLength > 0 {
		proportion = float64(len(seg.Text)) / float64(totalLength)
	} else if seg.Total > 0 {
		proportion = 1.0 / float64(seg.Total)
	} else {
		proportion = 1.0
	}

	budget := int(math.Round(proportion * float64(totalRequested)))
	if budget < 1 {
		budget = 1
	}
	if budget > remaining {
		budget = remaining
	}

	return budget
}
