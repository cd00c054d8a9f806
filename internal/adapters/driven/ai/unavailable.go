package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// UnavailableEmbeddingService returns an embedding service whose every
// call fails with domain.ErrEmbeddingUnavailable. Used when no provider
// is configured, so callers surface the fixed unavailable answer
// instead of panicking on a nil service.
func UnavailableEmbeddingService() driven.EmbeddingService {
	return unavailableEmbedding{}
}

// UnavailableLLMService returns a generation service whose every call
// fails with domain.ErrGenerationUnavailable.
func UnavailableLLMService() driven.LLMService {
	return unavailableLLM{}
}

type unavailableEmbedding struct{}

func (unavailableEmbedding) Embed(context.Context, string) ([]float32, error) {
	return nil, embeddingNotConfigured()
}

func (unavailableEmbedding) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, embeddingNotConfigured()
}

func (unavailableEmbedding) Dimensions() int   { return 0 }
func (unavailableEmbedding) MaxBatchSize() int { return 1 }
func (unavailableEmbedding) ModelName() string { return "unconfigured" }

func (unavailableEmbedding) Ping(context.Context) error { return embeddingNotConfigured() }
func (unavailableEmbedding) Close() error               { return nil }

type unavailableLLM struct{}

func (unavailableLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "", generationNotConfigured()
}

func (unavailableLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "", generationNotConfigured()
}

func (unavailableLLM) ModelName() string { return "unconfigured" }

func (unavailableLLM) Ping(context.Context) error { return generationNotConfigured() }
func (unavailableLLM) Close() error               { return nil }

func embeddingNotConfigured() error {
	return fmt.Errorf("%w: %w: run 'regdoc config embedding'",
		domain.ErrEmbeddingUnavailable, domain.ErrNotConfigured)
}

func generationNotConfigured() error {
	return fmt.Errorf("%w: %w: run 'regdoc config llm'",
		domain.ErrGenerationUnavailable, domain.ErrNotConfigured)
}
