// Package ingest extracts plain text from uploaded documents so the
// generation pipeline only ever sees text. PDF extraction uses the
// ledongthuc/pdf reader; plain text files pass through unchanged.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extraction errors.
var (
	// ErrUnsupportedType is returned for file types the pipeline
	// cannot extract text from.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrEmptyDocument is returned when extraction yields no text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrDocumentTooLarge is returned when the upload exceeds the
	// configured size limit.
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
)

// ExtractText reads a document and returns its plain text. The
// filename's extension selects the extractor: .pdf goes through the PDF
// reader, .txt and .md are read as-is. maxBytes bounds how much is read
// from r; a document that exceeds it returns ErrDocumentTooLarge rather
// than being silently truncated.
func ExtractText(r io.Reader, filename string, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		return "", fmt.Errorf("max bytes must be positive, got %d", maxBytes)
	}

	// Read one byte past the limit to distinguish "exactly at the
	// limit" from "over it".
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrDocumentTooLarge, maxBytes)
	}

	var text string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
		if err != nil {
			return "", err
		}
	case ".txt", ".md", "":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

// extractPDF walks the document's pages and concatenates their plain
// text. Pages that cannot be decoded are skipped; a PDF where no page
// decodes yields ErrEmptyDocument from the caller.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}
