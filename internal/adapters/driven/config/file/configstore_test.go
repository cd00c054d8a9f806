package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

func TestNewConfigStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))

	val, ok := store.Get("llm.provider")
	require.True(t, ok)
	assert.Equal(t, "ollama", val)
}

func TestConfigStore_Get_Missing(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing.key"))
	assert.Equal(t, 0, store.GetInt("missing.key"))
	assert.Equal(t, 0.0, store.GetFloat("missing.key"))
	assert.False(t, store.GetBool("missing.key"))
	assert.Nil(t, store.GetStringSlice("missing.key"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("str", "value"))
	require.NoError(t, store.Set("num", 42))
	require.NoError(t, store.Set("flt", 0.75))
	require.NoError(t, store.Set("flag", true))
	require.NoError(t, store.Set("list", []string{"a", "b"}))

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, 42, store.GetInt("num"))
	assert.Equal(t, 0.75, store.GetFloat("flt"))
	assert.True(t, store.GetBool("flag"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))
}

func TestConfigStore_GetFloat_FromInt(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("num", 3))
	assert.Equal(t, 3.0, store.GetFloat("num"))
}

func TestConfigStore_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("str", "not a number"))

	assert.Equal(t, 0, store.GetInt("str"))
	assert.Equal(t, 0.0, store.GetFloat("str"))
	assert.False(t, store.GetBool("str"))
	assert.Nil(t, store.GetStringSlice("str"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("embedding.model", "nomic-embed-text"))
	require.NoError(t, store1.Set("retrieval.top_k", 5))

	store2, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", store2.GetString("embedding.model"))
	assert.Equal(t, 5, store2.GetInt("retrieval.top_k"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()

	content := "[llm]\nprovider = \"openai\"\nmodel = \"gpt-4o-mini\"\n"
	err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600)
	require.NoError(t, err)

	_, err = NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadSettings_Defaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings := LoadSettings(store)

	assert.Equal(t, 1000, settings.Chunking.Size)
	assert.Equal(t, 200, settings.Chunking.Overlap)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
	assert.Equal(t, domain.DefaultThreshold, settings.Retrieval.Threshold)
	assert.Equal(t, domain.DefaultRefusalText, settings.Answers.RefusalText)
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
}

func TestLoadSettings_Overrides(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyEmbeddingProvider, "ollama"))
	require.NoError(t, store.Set(KeyEmbeddingModel, "nomic-embed-text"))
	require.NoError(t, store.Set(KeyLLMProvider, "openai"))
	require.NoError(t, store.Set(KeyLLMAPIKey, "sk-test"))
	require.NoError(t, store.Set(KeyChunkSize, 500))
	require.NoError(t, store.Set(KeyRetrievalThreshold, 0.6))

	settings := LoadSettings(store)

	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.True(t, settings.Embedding.IsConfigured())
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.True(t, settings.LLM.IsConfigured())
	assert.Equal(t, 500, settings.Chunking.Size)
	assert.Equal(t, 0.6, settings.Retrieval.Threshold)
}

func TestSaveSettings_Roundtrip(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	settings := domain.DefaultAppSettings()
	settings.Embedding.Provider = domain.AIProviderOllama
	settings.Embedding.Model = "nomic-embed-text"
	settings.Embedding.BaseURL = "http://localhost:11434"
	settings.LLM.Provider = domain.AIProviderOllama
	settings.LLM.Model = "llama3.2"
	settings.Retrieval.TopK = 3

	require.NoError(t, SaveSettings(store, settings))

	// Reload from disk through a fresh store
	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	loaded := LoadSettings(reopened)

	assert.Equal(t, settings.Embedding, loaded.Embedding)
	assert.Equal(t, settings.LLM, loaded.LLM)
	assert.Equal(t, settings.Chunking, loaded.Chunking)
	assert.Equal(t, 3, loaded.Retrieval.TopK)
	assert.Equal(t, settings.Answers.RefusalText, loaded.Answers.RefusalText)
	assert.Equal(t, settings.Answers.FallbackQuestions, loaded.Answers.FallbackQuestions)
}
