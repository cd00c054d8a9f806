package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu        sync.Mutex
	upserts   map[string][]driven.VectorEntry // keyed by documentID
	deleted   []string
	hits      []driven.VectorHit
	upsertErr error
	searchErr error
	deleteErr error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{upserts: make(map[string][]driven.VectorEntry)}
}

func (m *mockVectorIndex) Upsert(_ context.Context, _, documentID string, entries []driven.VectorEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts[documentID] = entries
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ string, _ []float32, k int, _ float64) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, _, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, documentID)
	delete(m.upserts, documentID)
	return nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	dims      int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 2
}

func (m *mockEmbeddingService) MaxBatchSize() int {
	return 100
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	chatErr  error
	calls    [][]driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.response, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.response, nil
}

func (m *mockLLMService) lastCall() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockBlobStore implements driven.BlobStore for testing.
type mockBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) key(tenantID, documentID string) string {
	return tenantID + "/" + documentID
}

func (m *mockBlobStore) Put(_ context.Context, tenantID, documentID string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[m.key(tenantID, documentID)] = payload
	return m.key(tenantID, documentID), nil
}

func (m *mockBlobStore) Get(_ context.Context, tenantID, documentID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.blobs[m.key(tenantID, documentID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return payload, nil
}

func (m *mockBlobStore) Delete(_ context.Context, tenantID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, m.key(tenantID, documentID))
	return nil
}

// mockExtractor implements driven.Extractor for testing. It returns the
// payload as text unless overridden.
type mockExtractor struct {
	mimeTypes  []string
	text       string
	extractErr error
}

func (m *mockExtractor) SupportedMIMETypes() []string {
	return m.mimeTypes
}

func (m *mockExtractor) Extract(_ context.Context, _ string, payload []byte) (string, error) {
	if m.extractErr != nil {
		return "", m.extractErr
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(payload), nil
}

// mockExtractorRegistry implements driven.ExtractorRegistry for testing.
type mockExtractorRegistry struct {
	extractor *mockExtractor
}

func newMockExtractorRegistry() *mockExtractorRegistry {
	return &mockExtractorRegistry{
		extractor: &mockExtractor{mimeTypes: []string{"text/plain"}},
	}
}

func (m *mockExtractorRegistry) ForMIMEType(mimeType string) (driven.Extractor, error) {
	for _, t := range m.extractor.mimeTypes {
		if t == mimeType {
			return m.extractor, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, mimeType)
}

func (m *mockExtractorRegistry) SupportedMIMETypes() []string {
	return m.extractor.mimeTypes
}

// mockChunker implements driven.Chunker for testing. It splits on
// blank lines, one chunk per paragraph.
type mockChunker struct {
	splitErr error
}

func (m *mockChunker) Split(text string, _, _ int) ([]driven.ChunkSpan, error) {
	if m.splitErr != nil {
		return nil, m.splitErr
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	var spans []driven.ChunkSpan
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		spans = append(spans, driven.ChunkSpan{
			Index: len(spans),
			Text:  part,
		})
	}
	return spans, nil
}
