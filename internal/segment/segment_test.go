package segment_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardifyai-code/cardifyai/internal/segment"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "normalizes line endings",
			input: "one\r\ntwo\rthree",
			want:  "one\ntwo\nthree",
		},
		{
			name:  "drops control characters",
			input: "hel\x00lo\x07 world",
			want:  "hello world",
		},
		{
			name:  "collapses blank line runs",
			input: "para one\n\n\n\n\npara two",
			want:  "para one\n\npara two",
		},
		{
			name:  "collapses horizontal whitespace",
			input: "a  \t  b",
			want:  "a b",
		},
		{
			name:  "trims ends",
			input: "\n\n  text  \n\n",
			want:  "text",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, segment.Clean(tt.input))
		})
	}
}

func TestSplitShortText(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 500)
	segments := segment.Split(text, 6000)

	require.Len(t, segments, 1)
	assert.Equal(t, text, segments[0].Text)
	assert.Equal(t, 0, segments[0].Index)
	assert.Equal(t, 1, segments[0].Total)
}

func TestSplitEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Nil(t, segment.Split("", 6000))
	assert.Nil(t, segment.Split("   \n\t  ", 6000))
}

func TestSplitIsIdempotentForShortText(t *testing.T) {
	t.Parallel()

	text := "Some already-clean text. It fits in one segment."
	first := segment.Split(text, 6000)
	require.Len(t, first, 1)

	again := segment.Split(first[0].Text, 6000)
	require.Len(t, again, 1)
	assert.Equal(t, first[0].Text, again[0].Text)
}

func TestSplitPrefersParagraphBreaks(t *testing.T) {
	t.Parallel()

	para1 := strings.Repeat("x", 900)
	para2 := strings.Repeat("y", 900)
	text := para1 + "\n\n" + para2

	segments := segment.Split(text, 1000)
	require.Len(t, segments, 2)
	assert.Equal(t, para1, segments[0].Text)
	assert.Equal(t, para2, segments[1].Text)
}

func TestSplitFallsBackToSentenceBoundary(t *testing.T) {
	t.Parallel()

	sentence := strings.Repeat("w", 700) + ". "
	tail := strings.Repeat("z", 600)
	text := sentence + tail

	segments := segment.Split(text, 1000)
	require.Len(t, segments, 2)
	assert.True(t, strings.HasSuffix(segments[0].Text, "."), "cut should keep the period")
	assert.Equal(t, tail, segments[1].Text)
}

func TestSplitHardCutsPathologicalInput(t *testing.T) {
	t.Parallel()

	// No paragraph breaks, no sentence ends: the splitter must still
	// terminate with segments of exactly maxChars.
	text := strings.Repeat("q", 10000)
	segments := segment.Split(text, 3000)

	require.Len(t, segments, 4)
	for i, s := range segments[:3] {
		assert.Len(t, s.Text, 3000, "segment %d", i)
	}
	assert.Len(t, segments[3].Text, 1000)
}

func TestSplitKeepsMultiByteRunesIntact(t *testing.T) {
	t.Parallel()

	// Three-byte runes with no break candidates force hard cuts at
	// offsets that do not divide evenly by the rune width.
	text := strings.Repeat("あ", 3000)
	segments := segment.Split(text, 6001)

	require.NotEmpty(t, segments)
	var joined strings.Builder
	for i, s := range segments {
		assert.True(t, utf8.ValidString(s.Text), "segment %d is not valid UTF-8", i)
		joined.WriteString(s.Text)
	}
	assert.Equal(t, text, joined.String())
}

func TestSplitThreeSegmentsForLongText(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for sb.Len() < 13000 {
		sb.WriteString(strings.Repeat("k", 120))
		sb.WriteString(". ")
	}
	segments := segment.Split(sb.String(), 6000)

	require.Len(t, segments, 3)
	for _, s := range segments {
		assert.LessOrEqual(t, len(s.Text), 6000)
		assert.NotEmpty(t, strings.TrimSpace(s.Text))
	}
}

func TestSplitReconstructsCleanedInput(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := 0; i < 80; i++ {
		sb.WriteString(strings.Repeat("word ", 40))
		sb.WriteString("sentence ends here.\n\n")
	}
	text := sb.String()
	cleaned := segment.Clean(text)

	segments := segment.Split(text, 1500)
	require.NotEmpty(t, segments)

	strip := func(s string) string {
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "\n", "")
		return strings.ReplaceAll(s, "\t", "")
	}

	var joined strings.Builder
	for i, s := range segments {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, len(segments), s.Total)
		assert.NotEmpty(t, strings.TrimSpace(s.Text))
		joined.WriteString(s.Text)
	}

	assert.Equal(t, strip(cleaned), strip(joined.String()),
		"concatenated segments must reproduce the cleaned input modulo cut-point whitespace")
}

func TestSplitDeterministic(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("alpha beta gamma. ", 800)
	first := segment.Split(text, 2500)
	second := segment.Split(text, 2500)
	assert.Equal(t, first, second)
}

func TestTotalLength(t *testing.T) {
	t.Parallel()

	segments := []segment.Segment{
		{Text: "abc"},
		{Text: "defgh"},
	}
	assert.Equal(t, 8, segment.TotalLength(segments))
	assert.Equal(t, 0, segment.TotalLength(nil))
}
