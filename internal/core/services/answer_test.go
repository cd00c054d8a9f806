package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

// answerFixture bundles an answer service with its mock dependencies.
type answerFixture struct {
	service    *AnswerService
	sessions   *memory.SessionStore
	docStore   *memory.DocumentStore
	vectors    *mockVectorIndex
	embeddings *mockEmbeddingService
	llm        *mockLLMService
}

func newAnswerFixture() *answerFixture {
	f := &answerFixture{
		sessions:   memory.NewSessionStore(),
		docStore:   memory.NewDocumentStore(),
		vectors:    newMockVectorIndex(),
		embeddings: &mockEmbeddingService{embedding: []float32{0.1, 0.2}},
		llm:        &mockLLMService{response: "Yıllık izin 14 gündür."},
	}
	f.service = NewAnswerService(
		f.sessions, f.docStore, f.vectors, f.embeddings, f.llm,
		domain.DefaultRetrievalPolicy(), domain.DefaultAppSettings().Answers,
	)
	return f
}

// seedChunks stores chunks and points the vector index at them.
func (f *answerFixture) seedChunks(t *testing.T, docID, filename string, texts ...string) []domain.Chunk {
	t.Helper()

	chunks := make([]domain.Chunk, len(texts))
	hits := make([]driven.VectorHit, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("%s-chunk-%d", docID, i),
			DocumentID: docID,
			TenantID:   "tenant-1",
			Index:      i,
			Text:       text,
			Metadata:   map[string]any{"filename": filename},
			CreatedAt:  time.Now().UTC(),
		}
		hits[i] = driven.VectorHit{
			ChunkID:    chunks[i].ID,
			DocumentID: docID,
			Similarity: 0.9 - float64(i)*0.05,
		}
	}
	require.NoError(t, f.docStore.ReplaceChunks(context.Background(), docID, chunks))
	f.vectors.hits = append(f.vectors.hits, hits...)
	return chunks
}

func askRequest() driving.AskRequest {
	return driving.AskRequest{
		TenantID: "tenant-1",
		Question: "Yıllık izin hakları nedir?",
	}
}

func TestAsk_GroundedAnswer(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "izin-politikasi.pdf", "İzinler 14 gündür.", "İzin devri yapılamaz.")

	answer, err := f.service.Ask(context.Background(), askRequest())
	require.NoError(t, err)
	require.NotNil(t, answer)

	assert.Equal(t, "Yıllık izin 14 gündür.", answer.Text)
	assert.False(t, answer.Abstained)
	assert.False(t, answer.Failed)
	assert.NotEmpty(t, answer.SessionID)
	assert.NotEmpty(t, answer.MessageID)

	// One citation per document, not per chunk
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "doc-1", answer.Sources[0].DocumentID)
	assert.Equal(t, "izin-politikasi.pdf", answer.Sources[0].Filename)
	assert.InDelta(t, 0.9, answer.Sources[0].Similarity, 1e-9)
}

func TestAsk_RecordsBothTurns(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "policy.txt", "İçerik.")

	ctx := context.Background()
	answer, err := f.service.Ask(ctx, askRequest())
	require.NoError(t, err)

	messages, err := f.sessions.ListMessages(ctx, answer.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "Yıllık izin hakları nedir?", messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
	assert.Equal(t, answer.Text, messages[1].Content)
	assert.Len(t, messages[1].Sources, 1)
}

func TestAsk_AbstainsBelowThreshold(t *testing.T) {
	f := newAnswerFixture()
	// No hits: nothing cleared the similarity threshold.

	answer, err := f.service.Ask(context.Background(), askRequest())
	require.NoError(t, err)

	assert.True(t, answer.Abstained)
	assert.Equal(t, domain.DefaultRefusalText, answer.Text)
	assert.Empty(t, answer.Sources)

	// The refusal is a recorded assistant turn
	messages, err := f.sessions.ListMessages(context.Background(), answer.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.DefaultRefusalText, messages[1].Content)
	assert.False(t, messages[1].Failed)
}

func TestAsk_AbstentionTextIsStable(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()

	first, err := f.service.Ask(ctx, askRequest())
	require.NoError(t, err)
	second, err := f.service.Ask(ctx, askRequest())
	require.NoError(t, err)

	// Byte-identical refusals so clients can detect abstention
	assert.Equal(t, first.Text, second.Text)
}

func TestAsk_GenerationUnavailable(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "policy.txt", "İçerik.")
	f.llm.chatErr = fmt.Errorf("%w: connection refused", domain.ErrGenerationUnavailable)

	answer, err := f.service.Ask(context.Background(), askRequest())
	require.NoError(t, err)

	assert.True(t, answer.Failed)
	assert.Equal(t, domain.DefaultUnavailableText, answer.Text)
	assert.Empty(t, answer.Sources)

	// The failed turn stays in history, flagged
	messages, err := f.sessions.ListMessages(context.Background(), answer.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.True(t, messages[1].Failed)
}

func TestAsk_EmbeddingUnavailable(t *testing.T) {
	f := newAnswerFixture()
	f.embeddings.embedErr = fmt.Errorf("%w: timeout", domain.ErrEmbeddingUnavailable)

	answer, err := f.service.Ask(context.Background(), askRequest())
	require.NoError(t, err)

	assert.True(t, answer.Failed)
	assert.Equal(t, domain.DefaultUnavailableText, answer.Text)
}

func TestAsk_ContextContainsRetrievedChunks(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "el-kitabi.docx", "Birinci bölüm.", "İkinci bölüm.")

	_, err := f.service.Ask(context.Background(), askRequest())
	require.NoError(t, err)

	call := f.llm.lastCall()
	require.NotEmpty(t, call)

	assert.Equal(t, "system", call[0].Role)
	assert.Contains(t, call[0].Content, "SADECE sağlanan bağlam")

	last := call[len(call)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "[Kaynak 1: el-kitabi.docx]")
	assert.Contains(t, last.Content, "[Kaynak 2: el-kitabi.docx]")
	assert.Contains(t, last.Content, "Birinci bölüm.")
	assert.Contains(t, last.Content, "SORU:\nYıllık izin hakları nedir?")
}

func TestAsk_HistoryIsBounded(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "policy.txt", "İçerik.")
	ctx := context.Background()

	// Build up a long conversation
	first, err := f.service.Ask(ctx, askRequest())
	require.NoError(t, err)

	req := askRequest()
	req.SessionID = first.SessionID
	for i := 0; i < 5; i++ {
		req.Question = fmt.Sprintf("Takip sorusu %d?", i)
		_, err := f.service.Ask(ctx, req)
		require.NoError(t, err)
	}

	// system + at most HistoryTurns prior messages + current question
	call := f.llm.lastCall()
	assert.LessOrEqual(t, len(call), domain.DefaultHistoryTurns+2)

	// History excludes the current question; it arrives with the context
	for _, msg := range call[1 : len(call)-1] {
		assert.NotContains(t, msg.Content, "BAĞLAM")
	}
}

func TestAsk_CreatesSessionTitledByQuestion(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "policy.txt", "İçerik.")
	ctx := context.Background()

	answer, err := f.service.Ask(ctx, askRequest())
	require.NoError(t, err)

	session, err := f.sessions.GetSession(ctx, answer.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Yıllık izin hakları nedir?", session.Title)
	assert.Equal(t, "tenant-1", session.TenantID)
}

func TestAsk_LongQuestionTitleTruncated(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "policy.txt", "İçerik.")
	ctx := context.Background()

	req := askRequest()
	req.Question = strings.Repeat("ç", 120)

	answer, err := f.service.Ask(ctx, req)
	require.NoError(t, err)

	session, err := f.sessions.GetSession(ctx, answer.SessionID)
	require.NoError(t, err)
	assert.Equal(t, maxTitleLength, len([]rune(session.Title)))
}

func TestAsk_ReusesSession(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "policy.txt", "İçerik.")
	ctx := context.Background()

	first, err := f.service.Ask(ctx, askRequest())
	require.NoError(t, err)

	req := askRequest()
	req.SessionID = first.SessionID
	second, err := f.service.Ask(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)

	messages, err := f.sessions.ListMessages(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Len(t, messages, 4)
}

func TestAsk_SessionTenantMismatch(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()

	require.NoError(t, f.sessions.CreateSession(ctx, &domain.Session{
		ID:       "sess-other",
		TenantID: "tenant-2",
	}))

	req := askRequest()
	req.SessionID = "sess-other"
	_, err := f.service.Ask(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAsk_Validation(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()

	_, err := f.service.Ask(ctx, driving.AskRequest{TenantID: "tenant-1", Question: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.service.Ask(ctx, driving.AskRequest{TenantID: "", Question: "Soru?"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_SourcesInRankOrder(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-a", "birinci.pdf", "A içeriği.")
	f.seedChunks(t, "doc-b", "ikinci.pdf", "B içeriği.")

	answer, err := f.service.Ask(context.Background(), askRequest())
	require.NoError(t, err)

	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "doc-a", answer.Sources[0].DocumentID)
	assert.Equal(t, "doc-b", answer.Sources[1].DocumentID)
	assert.GreaterOrEqual(t, answer.Sources[0].Similarity, answer.Sources[1].Similarity)
}

func TestAsk_ExcerptBounded(t *testing.T) {
	f := newAnswerFixture()
	long := strings.Repeat("ğ", 300)
	f.seedChunks(t, "doc-1", "uzun.txt", long)

	answer, err := f.service.Ask(context.Background(), askRequest())
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	excerpt := []rune(answer.Sources[0].Excerpt)
	assert.LessOrEqual(t, len(excerpt), domain.DefaultExcerptLength+3)
	assert.True(t, strings.HasSuffix(answer.Sources[0].Excerpt, "..."))
}

func TestSuggestedQuestions_FallbackWhenNoHistory(t *testing.T) {
	f := newAnswerFixture()

	questions, err := f.service.SuggestedQuestions(context.Background(), "tenant-1")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings().Answers.FallbackQuestions, questions)
}

func TestSuggestedQuestions_RecentQuestionsPreferred(t *testing.T) {
	f := newAnswerFixture()
	f.seedChunks(t, "doc-1", "policy.txt", "İçerik.")
	ctx := context.Background()

	req := askRequest()
	req.Question = "Mesai saatleri nedir?"
	_, err := f.service.Ask(ctx, req)
	require.NoError(t, err)

	questions, err := f.service.SuggestedQuestions(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mesai saatleri nedir?"}, questions)
}

func TestSuggestedQuestions_Validation(t *testing.T) {
	f := newAnswerFixture()

	_, err := f.service.SuggestedQuestions(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
