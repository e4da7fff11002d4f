package gemini

// promptData represents the data passed to the prompt template.
type promptData struct {
	// SegmentText is the chunk of source text to generate cards from.
	SegmentText string

	// SegmentNumber is the 1-based position of this chunk.
	SegmentNumber int

	// TotalSegments is the number of chunks the source was split into.
	TotalSegments int

	// TargetCount is how many cards this chunk should yield.
	TargetCount int
}

// defaultPromptTemplate is used when no prompt template path is
// configured. The backend is asked for a bare JSON array; the
// normalizer downstream tolerates the wrapper shapes models sometimes
// produce anyway.
const defaultPromptTemplate = `You are an expert educator creating study flashcards.

Create exactly {{.TargetCount}} flashcards from the following text
(part {{.SegmentNumber}} of {{.TotalSegments}}).

Rules:
- Each flashcard tests one specific fact or concept from the text.
- The front is a clear question; the back is a concise answer.
- Do not invent information that is not in the text.
- Respond with ONLY a JSON array, no prose and no code fences:
  [{"front": "...", "back": "..."}, ...]

Text:
{{.SegmentText}}`
