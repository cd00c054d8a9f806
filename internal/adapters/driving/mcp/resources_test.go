package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "regdoc://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "trailing path segment",
			uri:      "regdoc://documents/doc-456/extra",
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

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns documents successfully", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			documents: []domain.Document{
				{
					ID:         "doc-1",
					Filename:   "izin-politikasi.pdf",
					Status:     domain.StatusIndexed,
					ChunkCount: 8,
				},
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
		assert.Contains(t, result.Contents[0].Text, "izin-politikasi.pdf")
		assert.Contains(t, result.Contents[0].Text, "indexed")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			err: errors.New("database error"),
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://documents")
		_, err = server.handleDocumentsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://documents/doc-1")
		_, err = server.handleDocumentResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		mockDocs := &mockDocumentService{}
		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://invalid/uri")
		_, err = server.handleDocumentResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns document record", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			document: &domain.Document{
				ID:         "doc-1",
				Filename:   "el-kitabi.docx",
				MIMEType:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				SizeBytes:  2048,
				Status:     domain.StatusIndexed,
				ChunkCount: 3,
				CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://documents/doc-1")
		result, err := server.handleDocumentResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "el-kitabi.docx")
		assert.Contains(t, result.Contents[0].Text, "2048")
		assert.Contains(t, result.Contents[0].Text, "2025-06-01 12:00:00")
	})
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil stats service returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://stats")
		_, err = server.handleStatsResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns usage figures", func(t *testing.T) {
		mockStats := &mockStatsService{
			stats: &domain.UsageStats{
				Documents:       4,
				Chunks:          32,
				Sessions:        2,
				FeedbackCount:   3,
				MeanScore:       4.5,
				AccuracyPercent: 90,
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Stats: mockStats}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("regdoc://stats")
		result, err := server.handleStatsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"documents": 4`)
		assert.Contains(t, result.Contents[0].Text, `"accuracy_percent": 90`)
	})
}
