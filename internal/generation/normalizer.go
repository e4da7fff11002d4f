package generation

import (
	"encoding/json"
	"strings"

	"github.com/cardifyai-code/cardifyai/internal/domain"
)

// Normalizer parses heterogeneous raw backend output into canonical
// card content and deduplicates across the lifetime of one job. The
// seen set spans segments: a card recurring in a later segment is
// dropped on sight, first occurrence wins.
//
// A Normalizer is scoped to a single job and is not safe for
// concurrent use; each job runs single-threaded within one worker.
type Normalizer struct {
	seen map[string]struct{}
}

// NewNormalizer creates a Normalizer with an empty job-wide seen set.
func NewNormalizer() *Normalizer {
	return &Normalizer{seen: make(map[string]struct{})}
}

// Normalize parses raw output and returns at most limit validated,
// novel cards in their original order. Accepted shapes:
//
//   - a JSON array of objects with front/Front/question/Question and
//     back/Back/answer/Answer keys
//   - a JSON array of two-element [front, back] pairs
//   - a wrapper object with the array under a "cards" key
//   - any of the above embedded in surrounding prose (the first
//     bracketed array is salvaged)
//
// Unparseable or non-list content yields an empty slice, never an
// error: a bad response costs its segment's cards, nothing more.
func (n *Normalizer) Normalize(raw json.RawMessage, limit int) []domain.CardContent {
	if limit <= 0 {
		return nil
	}

	items := extractItems(raw)
	if len(items) == 0 {
		return nil
	}

	var cards []domain.CardContent
	for _, item := range items {
		content, ok := parseItem(item)
		if !ok || content.IsEmpty() {
			continue
		}

		content = content.Trimmed()
		key := content.Key()
		if _, dup := n.seen[key]; dup {
			continue
		}
		n.seen[key] = struct{}{}

		cards = append(cards, content)
		if len(cards) == limit {
			break
		}
	}

	return cards
}

// extractItems pulls the candidate card list out of the raw payload,
// trying the wrapper object, the bare array, and finally an array
// salvaged from surrounding text.
func extractItems(raw json.RawMessage) []json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil
	}

	var wrapper struct {
		Cards []json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapper); err == nil && wrapper.Cards != nil {
		return wrapper.Cards
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
		return items
	}

	// Salvage a JSON array embedded in prose, e.g. model chatter
	// around the payload.
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end <= start {
		return nil
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &items); err != nil {
		return nil
	}

	return items
}

// parseItem converts one candidate entry into card content. Objects may
// spell the question side front/Front/question/Question and the answer
// side back/Back/answer/Answer; ordered pairs are [front, back].
func parseItem(item json.RawMessage) (domain.CardContent, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err == nil {
		front := firstString(obj, "front", "Front", "question", "Question")
		back := firstString(obj, "back", "Back", "answer", "Answer")
		if front == "" && back == "" {
			return domain.CardContent{}, false
		}
		return domain.CardContent{Front: front, Back: back}, true
	}

	var pair []string
	if err := json.Unmarshal(item, &pair); err == nil && len(pair) == 2 {
		return domain.CardContent{Front: pair[0], Back: pair[1]}, true
	}

	return domain.CardContent{}, false
}

// firstString returns the first present, non-empty string value among
// the given keys.
func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if s != "" {
			return s
		}
	}
	return ""
}
