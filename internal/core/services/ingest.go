package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/regdoc-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the document ingestion pipeline: extract, chunk,
// embed, index.
type IngestService struct {
	docStore         driven.DocumentStore
	blobStore        driven.BlobStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	extractors       driven.ExtractorRegistry
	chunker          driven.Chunker
	chunking         domain.ChunkingSettings
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	docStore driven.DocumentStore,
	blobStore driven.BlobStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	chunking domain.ChunkingSettings,
) *IngestService {
	return &IngestService{
		docStore:         docStore,
		blobStore:        blobStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		extractors:       extractors,
		chunker:          chunker,
		chunking:         chunking,
	}
}

// Upload validates and stores a new document, then runs ingestion.
// The returned document reflects the final lifecycle state; ingestion
// failures are recorded on the document, not returned as errors.
func (s *IngestService) Upload(ctx context.Context, req driving.UploadRequest) (*domain.Document, error) {
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if len(req.Payload) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", domain.ErrEmptyDocument)
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = detectMIMEType(req.Filename)
	}

	// Reject unsupported formats before persisting anything.
	if _, err := s.extractors.ForMIMEType(mimeType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		TenantID:  req.TenantID,
		Filename:  req.Filename,
		MIMEType:  mimeType,
		SizeBytes: int64(len(req.Payload)),
		Status:    domain.StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.blobStore.Put(ctx, doc.TenantID, doc.ID, req.Payload); err != nil {
		return nil, fmt.Errorf("storing payload: %w", err)
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	logger.Info("Uploaded document %s (%s, %d bytes)", doc.ID, doc.Filename, doc.SizeBytes)

	if err := s.Ingest(ctx, doc.ID); err != nil {
		logger.Warn("Ingestion of %s failed: %v", doc.ID, err)
	}

	return s.docStore.GetDocument(ctx, doc.ID)
}

// Ingest processes an existing document through the full pipeline.
// Exactly one ingestion runs per document at a time; concurrent calls
// get domain.ErrAlreadyProcessing.
func (s *IngestService) Ingest(ctx context.Context, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.docStore.ClaimForProcessing(ctx, doc.ID); err != nil {
		return err
	}

	logger.Section("Document Ingestion")
	logger.Debug("Processing %s (%s)", doc.ID, doc.Filename)

	if err := s.process(ctx, doc); err != nil {
		s.recordFailure(ctx, doc.ID, err)
		return err
	}

	return nil
}

// process runs the pipeline steps for a claimed document.
func (s *IngestService) process(ctx context.Context, doc *domain.Document) error {
	payload, err := s.blobStore.Get(ctx, doc.TenantID, doc.ID)
	if err != nil {
		return fmt.Errorf("loading payload: %w", err)
	}

	extractor, err := s.extractors.ForMIMEType(doc.MIMEType)
	if err != nil {
		return err
	}

	text, err := extractor.Extract(ctx, doc.Filename, payload)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	spans, err := s.chunker.Split(text, s.chunking.Size, s.chunking.Overlap)
	if err != nil {
		return fmt.Errorf("chunking text: %w", err)
	}
	logger.Debug("Split into %d chunks", len(spans))

	texts := make([]string, len(spans))
	for i, span := range spans {
		texts[i] = span.Text
	}

	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(spans) {
		return fmt.Errorf("embedding chunks: got %d vectors for %d chunks", len(embeddings), len(spans))
	}

	now := time.Now().UTC()
	chunks := make([]domain.Chunk, len(spans))
	entries := make([]driven.VectorEntry, len(spans))
	for i, span := range spans {
		chunks[i] = domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			TenantID:   doc.TenantID,
			Index:      span.Index,
			Text:       span.Text,
			CharStart:  span.CharStart,
			CharEnd:    span.CharEnd,
			Embedding:  embeddings[i],
			Metadata:   map[string]any{"filename": doc.Filename},
			CreatedAt:  now,
		}
		entries[i] = driven.VectorEntry{
			ChunkID:    chunks[i].ID,
			ChunkIndex: span.Index,
			Embedding:  embeddings[i],
		}
	}

	// The index accepts the new vectors before the stored chunk set is
	// touched. An index rejection (dimension mismatch, unavailability)
	// then leaves the previous chunks intact and still searchable.
	if err := s.vectorIndex.Upsert(ctx, doc.TenantID, doc.ID, entries); err != nil {
		return fmt.Errorf("indexing vectors: %w", err)
	}

	if err := s.docStore.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		// The index already holds the new chunk IDs, which the store
		// never committed. Drop them so no search hit can reference a
		// chunk that does not exist.
		s.dropIndexEntries(doc.TenantID, doc.ID)
		return fmt.Errorf("storing chunks: %w", err)
	}

	if err := s.docStore.MarkIndexed(ctx, doc.ID, len(chunks)); err != nil {
		return fmt.Errorf("marking indexed: %w", err)
	}

	logger.Info("Indexed document %s: %d chunks", doc.ID, len(chunks))
	return nil
}

// dropIndexEntries removes a document's vectors, using a fresh context
// so a cancelled ingestion still cleans up.
func (s *IngestService) dropIndexEntries(tenantID, documentID string) {
	dropCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.vectorIndex.DeleteDocument(dropCtx, tenantID, documentID); err != nil {
		logger.Warn("Could not drop index entries for %s: %v", documentID, err)
	}
}

// recordFailure marks the document failed. It uses a fresh context so
// a cancelled ingestion never leaves a document stuck in processing.
func (s *IngestService) recordFailure(ctx context.Context, documentID string, cause error) {
	reason := cause.Error()
	if ctx.Err() != nil {
		reason = "cancelled"
	}

	markCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.docStore.MarkFailed(markCtx, documentID, reason); err != nil {
		logger.Warn("Could not mark document %s failed: %v", documentID, err)
	}
}

// detectMIMEType resolves a content type from the filename extension.
// Common document types are mapped explicitly so detection does not
// depend on the host's mime tables.
func detectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	if t := mime.TypeByExtension(ext); t != "" {
		// Strip parameters like "; charset=utf-8"
		if i := strings.Index(t, ";"); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return "application/octet-stream"
}
