// Package generation turns segmented source text into a bounded,
// deduplicated list of study cards. It owns the budget allocation
// across segments, the per-segment orchestration of the external
// generation backend, and the normalization of the backend's raw
// output into canonical card content. The backend itself is an opaque
// capability behind the Generator interface, following the hexagonal
// architecture pattern; the Gemini implementation lives in
// internal/platform/gemini.
package generation
