package generation

import (
	"context"
	"encoding/json"
)

// SegmentRequest carries one segment's worth of work to the generation
// backend: the segment text, its position within the document, and the
// maximum number of cards the backend may return for it.
type SegmentRequest struct {
	Text          string
	SegmentIndex  int
	TotalSegments int
	TargetCount   int
}

// Generator defines the boundary to the external card generation
// capability. Implementations return the backend's raw response body;
// parsing and validation happen on this side of the boundary so a
// malformed response degrades to zero cards instead of an error the
// caller has to classify.
type Generator interface {
	// GenerateRaw asks the backend for up to req.TargetCount cards for
	// one segment and returns its raw output. An error indicates the
	// call itself failed; unparseable-but-returned output is not an
	// error here.
	GenerateRaw(ctx context.Context, req SegmentRequest) (json.RawMessage, error)
}
