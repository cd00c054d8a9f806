package file

import (
	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyEmbeddingProvider = "embedding.provider"
	KeyEmbeddingModel    = "embedding.model"
	KeyEmbeddingBaseURL  = "embedding.base_url"
	KeyEmbeddingAPIKey   = "embedding.api_key"

	KeyLLMProvider = "llm.provider"
	KeyLLMModel    = "llm.model"
	KeyLLMBaseURL  = "llm.base_url"
	KeyLLMAPIKey   = "llm.api_key"

	KeyChunkSize    = "chunking.size"
	KeyChunkOverlap = "chunking.overlap"

	KeyRetrievalTopK         = "retrieval.top_k"
	KeyRetrievalThreshold    = "retrieval.threshold"
	KeyRetrievalHistoryTurns = "retrieval.history_turns"

	KeyRefusalText       = "answers.refusal_text"
	KeyUnavailableText   = "answers.unavailable_text"
	KeyFallbackQuestions = "answers.fallback_questions"
)

// LoadSettings reads application settings from a config store, filling
// in defaults for anything unset.
func LoadSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()

	if v := store.GetString(KeyEmbeddingProvider); v != "" {
		settings.Embedding.Provider = domain.AIProvider(v)
	}
	if v := store.GetString(KeyEmbeddingModel); v != "" {
		settings.Embedding.Model = v
	}
	if v := store.GetString(KeyEmbeddingBaseURL); v != "" {
		settings.Embedding.BaseURL = v
	}
	if v := store.GetString(KeyEmbeddingAPIKey); v != "" {
		settings.Embedding.APIKey = v
	}

	if v := store.GetString(KeyLLMProvider); v != "" {
		settings.LLM.Provider = domain.AIProvider(v)
	}
	if v := store.GetString(KeyLLMModel); v != "" {
		settings.LLM.Model = v
	}
	if v := store.GetString(KeyLLMBaseURL); v != "" {
		settings.LLM.BaseURL = v
	}
	if v := store.GetString(KeyLLMAPIKey); v != "" {
		settings.LLM.APIKey = v
	}

	if v := store.GetInt(KeyChunkSize); v > 0 {
		settings.Chunking.Size = v
	}
	if v := store.GetInt(KeyChunkOverlap); v > 0 {
		settings.Chunking.Overlap = v
	}

	if v := store.GetInt(KeyRetrievalTopK); v > 0 {
		settings.Retrieval.TopK = v
	}
	if v := store.GetFloat(KeyRetrievalThreshold); v > 0 {
		settings.Retrieval.Threshold = v
	}
	if v := store.GetInt(KeyRetrievalHistoryTurns); v > 0 {
		settings.Retrieval.HistoryTurns = v
	}

	if v := store.GetString(KeyRefusalText); v != "" {
		settings.Answers.RefusalText = v
	}
	if v := store.GetString(KeyUnavailableText); v != "" {
		settings.Answers.UnavailableText = v
	}
	if v := store.GetStringSlice(KeyFallbackQuestions); len(v) > 0 {
		settings.Answers.FallbackQuestions = v
	}

	return settings
}

// SaveSettings writes application settings to a config store.
func SaveSettings(store driven.ConfigStore, settings domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{KeyEmbeddingProvider, settings.Embedding.Provider.String()},
		{KeyEmbeddingModel, settings.Embedding.Model},
		{KeyEmbeddingBaseURL, settings.Embedding.BaseURL},
		{KeyEmbeddingAPIKey, settings.Embedding.APIKey},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMAPIKey, settings.LLM.APIKey},
		{KeyChunkSize, settings.Chunking.Size},
		{KeyChunkOverlap, settings.Chunking.Overlap},
		{KeyRetrievalTopK, settings.Retrieval.TopK},
		{KeyRetrievalThreshold, settings.Retrieval.Threshold},
		{KeyRetrievalHistoryTurns, settings.Retrieval.HistoryTurns},
		{KeyRefusalText, settings.Answers.RefusalText},
		{KeyUnavailableText, settings.Answers.UnavailableText},
		{KeyFallbackQuestions, settings.Answers.FallbackQuestions},
	}

	for _, p := range pairs {
		if err := store.Set(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}
