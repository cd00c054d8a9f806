package driving

import (
	"context"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// IngestService manages the document ingestion lifecycle.
type IngestService interface {
	// Upload validates and stores a new document, then runs ingestion.
	// The returned document reflects the final lifecycle state.
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)

	// Ingest processes an existing document: extract, chunk, embed,
	// index. Re-ingesting an indexed document replaces its chunk set.
	// Returns domain.ErrAlreadyProcessing when a concurrent ingestion
	// holds the document.
	Ingest(ctx context.Context, documentID string) error
}

// UploadRequest carries a new document payload.
type UploadRequest struct {
	// TenantID is the owning tenant. Required.
	TenantID string

	// Filename is the original upload name. Required.
	Filename string

	// MIMEType is the payload content type. Detected from the filename
	// when empty.
	MIMEType string

	// Payload is the raw file content.
	Payload []byte
}
