package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlainFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{name: "txt file", filename: "notes.txt", content: "Cells divide by mitosis."},
		{name: "markdown file", filename: "notes.md", content: "# Biology\n\nCells divide."},
		{name: "no extension", filename: "notes", content: "Plain content."},
		{name: "uppercase extension", filename: "NOTES.TXT", content: "Plain content."},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			text, err := ExtractText(strings.NewReader(tc.content), tc.filename, 1024)
			require.NoError(t, err)
			assert.Equal(t, tc.content, text)
		})
	}
}

func TestExtractTextUnsupportedType(t *testing.T) {
	t.Parallel()

	_, err := ExtractText(strings.NewReader("data"), "image.png", 1024)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractTextEmptyDocument(t *testing.T) {
	t.Parallel()

	_, err := ExtractText(strings.NewReader("   \n\t  "), "notes.txt", 1024)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtractTextSizeLimit(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("a", 100)

	t.Run("at limit succeeds", func(t *testing.T) {
		t.Parallel()

		text, err := ExtractText(strings.NewReader(content), "notes.txt", 100)
		require.NoError(t, err)
		assert.Len(t, text, 100)
	})

	t.Run("over limit rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractText(strings.NewReader(content), "notes.txt", 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})
}

func TestExtractTextInvalidPDF(t *testing.T) {
	t.Parallel()

	_, err := ExtractText(strings.NewReader("not a pdf"), "doc.pdf", 1024)
	require.Error(t, err)
}
