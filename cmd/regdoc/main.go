// Command regdoc is a document-grounded question answering CLI.
// Documents are ingested locally, chunks are embedded and indexed,
// and answers cite only the uploaded material.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/regdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/regdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/regdoc-cli/internal/adapters/driven/storage/blob"
	"github.com/custodia-labs/regdoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/regdoc-cli/internal/adapters/driven/vector/brute"
	"github.com/custodia-labs/regdoc-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/regdoc-cli/internal/chunker"
	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/services"
	"github.com/custodia-labs/regdoc-cli/internal/extractors"
	"github.com/custodia-labs/regdoc-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings := file.LoadSettings(configStore)

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	blobStore, err := blob.NewStore("")
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	vectorIndex := brute.New()
	defer vectorIndex.Close()

	if err := rehydrateIndex(context.Background(), store, vectorIndex); err != nil {
		// Retrieval degrades to abstention until the next ingest, but
		// the CLI stays usable.
		logger.Warn("Rebuilding vector index failed: %v", err)
	}

	embeddingService, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		if !errors.Is(err, domain.ErrNotConfigured) {
			return fmt.Errorf("creating embedding service: %w", err)
		}
		embeddingService = ai.UnavailableEmbeddingService()
	}
	defer embeddingService.Close()

	llmService, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		if !errors.Is(err, domain.ErrNotConfigured) {
			return fmt.Errorf("creating llm service: %w", err)
		}
		llmService = ai.UnavailableLLMService()
	}
	defer llmService.Close()

	ingestService := services.NewIngestService(
		store, blobStore, vectorIndex, embeddingService,
		extractors.Default(), chunker.New(), settings.Chunking)
	answerService := services.NewAnswerService(
		store, store, vectorIndex, embeddingService, llmService,
		settings.Retrieval, settings.Answers)
	documentService := services.NewDocumentService(store, blobStore, vectorIndex)
	feedbackService := services.NewFeedbackService(store)
	statsService := services.NewStatsService(store, store)

	cli.SetServices(cli.Services{
		Ingest:   ingestService,
		Answer:   answerService,
		Document: documentService,
		Feedback: feedbackService,
		Stats:    statsService,
		Config:   configStore,
	})

	return cli.Execute()
}

// rehydrateIndex rebuilds the in-memory vector index from the chunks
// of every indexed document.
func rehydrateIndex(ctx context.Context, store *sqlite.Store, index *brute.Index) error {
	chunks, err := store.IndexedChunks(ctx)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	type docKey struct {
		tenantID   string
		documentID string
	}

	grouped := make(map[docKey][]driven.VectorEntry)
	for _, chunk := range chunks {
		key := docKey{tenantID: chunk.TenantID, documentID: chunk.DocumentID}
		grouped[key] = append(grouped[key], driven.VectorEntry{
			ChunkID:    chunk.ID,
			ChunkIndex: chunk.Index,
			Embedding:  chunk.Embedding,
		})
	}

	for key, entries := range grouped {
		if err := index.Upsert(ctx, key.tenantID, key.documentID, entries); err != nil {
			return fmt.Errorf("indexing document %s: %w", key.documentID, err)
		}
	}

	logger.Debug("Rebuilt vector index: %d chunks across %d documents", len(chunks), len(grouped))
	return nil
}
