package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

func TestDocumentsList_NoBatch(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents yet")
}

func TestDocumentsList_ShowsBatch(t *testing.T) {
	setupTestServices(t)
	_, err := run(t, "process", "--plain", "letter.png", "report.pdf")
	require.NoError(t, err)

	out, err := run(t, "docs", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Batch batch-1: 2 document(s)")
	assert.Contains(t, out, "letter.png")
	assert.Contains(t, out, "report.pdf")
}

func TestDocumentsShow(t *testing.T) {
	setupTestServices(t)
	_, err := run(t, "process", "--plain", "report.pdf")
	require.NoError(t, err)

	out, err := run(t, "documents", "show", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "File:        report.pdf")
	assert.Contains(t, out, "Type:        application/pdf")
	assert.Contains(t, out, "Pages:       2")
	assert.Contains(t, out, "Page 2")
	assert.Contains(t, out, "--- Page 1 ---")
}

func TestDocumentsShow_UnknownID(t *testing.T) {
	setupTestServices(t)
	_, err := run(t, "process", "--plain", "letter.png")
	require.NoError(t, err)

	_, err = run(t, "documents", "show", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentsText(t *testing.T) {
	setupTestServices(t)
	_, err := run(t, "process", "--plain", "report.pdf")
	require.NoError(t, err)

	tests := []struct {
		name    string
		args    []string
		want    string
		notWant string
	}{
		{"whole document", []string{"documents", "text", "doc-1"}, "--- Page 2 ---\n\ntext of page two", ""},
		{"single page", []string{"documents", "text", "doc-1", "--page", "2"}, "text of page two", "--- Page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, out, tt.notWant)
			}
		})
	}
}

func TestDocumentsText_PageOutOfRange(t *testing.T) {
	setupTestServices(t)
	_, err := run(t, "process", "--plain", "report.pdf")
	require.NoError(t, err)

	_, err = run(t, "documents", "text", "doc-1", "--page", "3")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
