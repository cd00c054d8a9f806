package driving

import (
	"context"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// DocumentService manages stored documents.
type DocumentService interface {
	// List returns a tenant's documents, newest first, with chunk
	// counts.
	List(ctx context.Context, tenantID string) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Delete removes a document, its chunks, its vectors, and its
	// stored payload.
	Delete(ctx context.Context, documentID string) error
}
