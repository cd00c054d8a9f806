package driven

import (
	"context"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
type DocumentStore interface {
	// SaveDocument inserts or updates a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns a tenant's documents, newest first,
	// with chunk counts populated.
	ListDocuments(ctx context.Context, tenantID string) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ClaimForProcessing transitions a document to processing if and
	// only if its current status allows ingestion. Returns
	// domain.ErrAlreadyProcessing when another worker holds it.
	ClaimForProcessing(ctx context.Context, id string) error

	// MarkIndexed transitions a processing document to indexed and
	// records its chunk count.
	MarkIndexed(ctx context.Context, id string, chunkCount int) error

	// MarkFailed transitions a document to failed with a reason.
	MarkFailed(ctx context.Context, id, reason string) error

	// ReplaceChunks atomically swaps a document's chunk set.
	// The previous set stays readable until the swap commits.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetChunks returns a document's chunks ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunksByIDs hydrates chunks for search results. Missing IDs
	// are skipped; the result preserves the requested order.
	GetChunksByIDs(ctx context.Context, ids []string) ([]domain.Chunk, error)

	// CountChunks returns the total chunk count for a tenant.
	CountChunks(ctx context.Context, tenantID string) (int, error)

	// Close releases resources.
	Close() error
}

// BlobStore persists raw uploaded payloads per tenant.
type BlobStore interface {
	// Put stores a payload and returns its storage path.
	Put(ctx context.Context, tenantID, documentID string, payload []byte) (string, error)

	// Get retrieves a stored payload.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, tenantID, documentID string) ([]byte, error)

	// Delete removes a stored payload. Deleting a missing payload is
	// not an error.
	Delete(ctx context.Context, tenantID, documentID string) error
}
