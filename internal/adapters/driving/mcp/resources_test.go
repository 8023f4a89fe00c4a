package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "docscan://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no batch returns empty list", func(t *testing.T) {
		server := newTestServer(t, &mockSession{}, nil)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docscan://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists documents", func(t *testing.T) {
		server := newTestServer(t, &mockSession{batch: testBatch()}, nil)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docscan://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"id": "doc-1"`)
		assert.Contains(t, result.Contents[0].Text, `"file_name": "report.pdf"`)
	})

	t.Run("returns error on session failure", func(t *testing.T) {
		server := newTestServer(t, &mockSession{err: errors.New("database error")}, nil)

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docscan://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentTextResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns text", func(t *testing.T) {
		server := newTestServer(t, &mockSession{batch: testBatch()}, nil)

		result, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("docscan://documents/doc-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "Dear Sir", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		server := newTestServer(t, &mockSession{batch: testBatch()}, nil)

		_, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("docscan://documents/nope"))

		assert.Error(t, err)
	})

	t.Run("invalid URI", func(t *testing.T) {
		server := newTestServer(t, &mockSession{batch: testBatch()}, nil)

		_, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("other://x"))

		assert.Error(t, err)
	})

	t.Run("session failure", func(t *testing.T) {
		server := newTestServer(t, &mockSession{err: errors.New("database error")}, nil)

		_, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("docscan://documents/doc-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting document")
	})
}
