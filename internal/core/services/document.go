package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/regdoc-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages stored documents.
type DocumentService struct {
	docStore    driven.DocumentStore
	blobStore   driven.BlobStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	blobStore driven.BlobStore,
	vectorIndex driven.VectorIndex,
) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		blobStore:   blobStore,
		vectorIndex: vectorIndex,
	}
}

// List returns a tenant's documents, newest first.
func (s *DocumentService) List(ctx context.Context, tenantID string) ([]domain.Document, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrInvalidInput)
	}
	return s.docStore.ListDocuments(ctx, tenantID)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// Delete removes a document everywhere: vectors, stored payload, then
// the record with its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.vectorIndex.DeleteDocument(ctx, doc.TenantID, doc.ID); err != nil {
		return fmt.Errorf("removing vectors: %w", err)
	}

	if err := s.blobStore.Delete(ctx, doc.TenantID, doc.ID); err != nil {
		return fmt.Errorf("removing payload: %w", err)
	}

	if err := s.docStore.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("removing document: %w", err)
	}

	logger.Info("Deleted document %s (%s)", doc.ID, doc.Filename)
	return nil
}
