// Package memory provides in-memory implementations of the storage
// ports, used in tests and as a fallback when persistence is disabled.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns a tenant's documents, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, tenantID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for id := range s.documents {
		if s.documents[id].TenantID == tenantID {
			result = append(result, s.documents[id])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// ClaimForProcessing transitions a document to processing unless
// another claim holds it.
func (s *DocumentStore) ClaimForProcessing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if doc.Status == domain.StatusProcessing {
		return domain.ErrAlreadyProcessing
	}
	doc.Status = domain.StatusProcessing
	doc.ErrorMessage = ""
	s.documents[id] = doc
	return nil
}

// MarkIndexed transitions a processing document to indexed.
func (s *DocumentStore) MarkIndexed(_ context.Context, id string, chunkCount int) error {
	return s.setStatus(id, domain.StatusIndexed, "", chunkCount)
}

// MarkFailed transitions a document to failed with a reason.
func (s *DocumentStore) MarkFailed(_ context.Context, id, reason string) error {
	return s.setStatus(id, domain.StatusFailed, reason, 0)
}

func (s *DocumentStore) setStatus(id string, status domain.DocumentStatus, reason string, chunkCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	doc.ErrorMessage = reason
	doc.ChunkCount = chunkCount
	s.documents[id] = doc
	return nil
}

// ReplaceChunks swaps a document's chunk set.
func (s *DocumentStore) ReplaceChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)
	s.chunks[documentID] = copied
	return nil
}

// GetChunks retrieves all chunks for a document ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]domain.Chunk, len(s.chunks[documentID]))
	copy(chunks, s.chunks[documentID])
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// GetChunksByIDs hydrates chunks preserving the requested order.
func (s *DocumentStore) GetChunksByIDs(_ context.Context, ids []string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]domain.Chunk)
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			byID[chunk.ID] = chunk
		}
	}

	result := make([]domain.Chunk, 0, len(ids))
	for _, id := range ids {
		if chunk, ok := byID[id]; ok {
			result = append(result, chunk)
		}
	}
	return result, nil
}

// CountChunks returns the total chunk count for a tenant.
func (s *DocumentStore) CountChunks(_ context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.TenantID == tenantID {
				count++
			}
		}
	}
	return count, nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}
