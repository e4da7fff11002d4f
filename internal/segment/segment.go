// Package segment splits cleaned source text into bounded chunks cut at
// natural boundaries so each chunk can be sent to the generation
// backend independently. Segmentation is deterministic: identical input
// always yields identical segments.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChars is the default upper bound on segment length.
const DefaultMaxChars = 6000

// boundaryScanWindow is how far back from a window end the splitter
// searches for a paragraph or sentence boundary before giving up and
// hard-cutting.
const boundaryScanWindow = 800

var (
	blankLineRun  = regexp.MustCompile(`\n\s*\n\s*\n+`)
	horizontalRun = regexp.MustCompile(`[ \t]{2,}`)
)

// Segment is a bounded, boundary-aligned slice of source text. Index is
// zero-based; Total is the number of segments produced for the request.
type Segment struct {
	Text  string
	Index int
	Total int
}

// Clean normalizes raw source text: line endings become \n, control
// characters other than newline/tab/space are dropped, runs of three or
// more blank lines collapse to a single blank line, runs of horizontal
// whitespace collapse to one space, and both ends are trimmed.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == ' ' {
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = blankLineRun.ReplaceAllString(text, "\n\n")
	text = horizontalRun.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// Split cleans text and cuts it into segments of at most maxChars
// characters. Cuts prefer a paragraph break, then a sentence end (the
// period stays with the preceding segment), searched backward within
// the last boundaryScanWindow characters of each window; when neither
// exists, or the candidate would make no forward progress, the cut is
// forced at maxChars, adjusted to the nearest rune boundary so segments
// are always valid UTF-8, and the walk always terminates.
//
// Empty or all-whitespace input yields nil. Every returned segment is
// non-empty after trimming, and concatenating the segments (modulo the
// whitespace trimmed at cut points) reconstructs the cleaned input.
func Split(text string, maxChars int) []Segment {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	cleaned := Clean(text)
	if cleaned == "" {
		return nil
	}

	if len(cleaned) <= maxChars {
		return []Segment{{Text: cleaned, Index: 0, Total: 1}}
	}

	var parts []string
	start := 0
	n := len(cleaned)

	for start < n {
		end := start + maxChars
		if end > n {
			end = n
		}

		cut := end
		if end < n {
			windowStart := end - boundaryScanWindow
			if windowStart < start {
				windowStart = start
			}
			window := cleaned[windowStart:end]

			if idx := strings.LastIndex(window, "\n\n"); idx != -1 {
				cut = windowStart + idx
			} else if idx := strings.LastIndex(window, ". "); idx != -1 {
				// Keep the period with the segment it ends.
				cut = windowStart + idx + 1
			}

			if cut <= start {
				cut = end
			}

			// A forced cut can land inside a multi-byte rune; move to
			// the nearest rune boundary so every segment stays valid
			// UTF-8. Backward first, forward only if backing up would
			// stall the walk.
			for cut > start && !utf8.RuneStart(cleaned[cut]) {
				cut--
			}
			if cut == start {
				cut = start + 1
				for cut < n && !utf8.RuneStart(cleaned[cut]) {
					cut++
				}
			}
		}

		part := strings.TrimSpace(cleaned[start:cut])
		if part != "" {
			parts = append(parts, part)
		}

		start = cut
	}

	segments := make([]Segment, len(parts))
	for i, part := range parts {
		segments[i] = Segment{Text: part, Index: i, Total: len(parts)}
	}

	return segments
}

// TotalLength returns the combined character length of the segments.
func TotalLength(segments []Segment) int {
	total := 0
	for _, s := range segments {
		total += len(s.Text)
	}
	return total
}
