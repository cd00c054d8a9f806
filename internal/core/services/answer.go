package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/regdoc-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// systemPrompt instructs the model to answer strictly from the supplied
// context, in Turkish, with citations.
const systemPrompt = `Sen şirket dokümanlarından bilgi sağlayan yardımcı bir asistansın.

KURALLAR:
1. SADECE sağlanan bağlam (context) içindeki bilgilere dayanarak yanıt ver.
2. Eğer bağlamda yeterli bilgi YOKSA, açıkça "Bu bilgiyi yüklenen dokümanlarda bulamadım." de.
3. ASLA bağlamda olmayan bilgileri uydurma veya tahmin etme.
4. Her yanıtta kaynak göster (hangi doküman, hangi bölüm).
5. Yanıtlarını Türkçe ver.
6. Bilgiyi net ve düzenli bir şekilde sun.

FORMAT:
- Önemli bilgileri **kalın** yap
- Listeleme için madde işaretleri kullan
- Uzun yanıtları bölümlere ayır`

// maxTitleLength bounds session titles derived from the first question.
const maxTitleLength = 80

// maxSuggestedQuestions caps the suggestion list.
const maxSuggestedQuestions = 4

// AnswerService answers questions grounded in indexed documents.
type AnswerService struct {
	sessionStore     driven.SessionStore
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	policy           domain.RetrievalPolicy
	answers          domain.AnswerSettings
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	sessionStore driven.SessionStore,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
	policy domain.RetrievalPolicy,
	answers domain.AnswerSettings,
) *AnswerService {
	if answers.RefusalText == "" {
		answers.RefusalText = domain.DefaultRefusalText
	}
	if answers.UnavailableText == "" {
		answers.UnavailableText = domain.DefaultUnavailableText
	}
	return &AnswerService{
		sessionStore:     sessionStore,
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		llmService:       llmService,
		policy:           policy.Normalise(),
		answers:          answers,
	}
}

// Ask answers a question within a session. Every call records both the
// question and an assistant turn, including refusals and failures.
func (s *AnswerService) Ask(ctx context.Context, req driving.AskRequest) (*domain.Answer, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrInvalidInput)
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	session, err := s.resolveSession(ctx, req.TenantID, req.SessionID, question)
	if err != nil {
		return nil, err
	}

	// History is captured before the new question is appended.
	history, err := s.sessionStore.RecentMessages(ctx, session.ID, s.policy.HistoryTurns)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	if err := s.appendMessage(ctx, session.ID, domain.RoleUser, question, nil, false); err != nil {
		return nil, err
	}

	retrieved, err := s.retrieve(ctx, req.TenantID, question)
	if err != nil {
		if isProviderFailure(err) {
			logger.Warn("Retrieval unavailable: %v", err)
			return s.recordUnavailable(ctx, session.ID)
		}
		return nil, err
	}

	// Abstain when nothing clears the threshold. The refusal text is
	// fixed so clients can detect it.
	if len(retrieved) == 0 {
		logger.Info("No chunk cleared threshold %.2f, abstaining", s.policy.Threshold)
		msgID, err := s.appendAssistant(ctx, session.ID, s.answers.RefusalText, nil, false)
		if err != nil {
			return nil, err
		}
		return &domain.Answer{
			SessionID: session.ID,
			MessageID: msgID,
			Text:      s.answers.RefusalText,
			Abstained: true,
		}, nil
	}

	logger.Debug("Retrieved %d chunks", len(retrieved))

	answerText, err := s.generate(ctx, question, retrieved, history)
	if err != nil {
		if isProviderFailure(err) {
			logger.Warn("Generation unavailable: %v", err)
			return s.recordUnavailable(ctx, session.ID)
		}
		return nil, err
	}

	sources := buildSources(retrieved)

	msgID, err := s.appendAssistant(ctx, session.ID, answerText, sources, false)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		SessionID: session.ID,
		MessageID: msgID,
		Text:      answerText,
		Sources:   sources,
	}, nil
}

// SuggestedQuestions returns recent real questions, or the configured
// fallback list for tenants with no history.
func (s *AnswerService) SuggestedQuestions(ctx context.Context, tenantID string) ([]string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrInvalidInput)
	}

	recent, err := s.sessionStore.RecentUserQuestions(ctx, tenantID, maxSuggestedQuestions)
	if err != nil {
		return nil, fmt.Errorf("loading recent questions: %w", err)
	}
	if len(recent) > 0 {
		return recent, nil
	}

	fallback := s.answers.FallbackQuestions
	if len(fallback) > maxSuggestedQuestions {
		fallback = fallback[:maxSuggestedQuestions]
	}
	return fallback, nil
}

// resolveSession loads an existing session or opens a new one titled
// after the first question.
func (s *AnswerService) resolveSession(ctx context.Context, tenantID, sessionID, question string) (*domain.Session, error) {
	if sessionID != "" {
		session, err := s.sessionStore.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session.TenantID != tenantID {
			return nil, domain.ErrNotFound
		}
		return session, nil
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Title:     truncateRunes(question, maxTitleLength),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionStore.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	logger.Debug("Opened session %s", session.ID)
	return session, nil
}

// retrieve embeds the question and returns hydrated chunks above the
// similarity threshold, in rank order.
func (s *AnswerService) retrieve(ctx context.Context, tenantID, question string) ([]domain.RetrievedChunk, error) {
	embedding, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, tenantID, embedding, s.policy.TopK, s.policy.Threshold)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	similarity := make(map[string]float64, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ChunkID
		similarity[hit.ChunkID] = hit.Similarity
	}

	chunks, err := s.docStore.GetChunksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrating chunks: %w", err)
	}

	retrieved := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		retrieved = append(retrieved, domain.RetrievedChunk{
			Chunk:      chunk,
			Similarity: similarity[chunk.ID],
		})
	}
	return retrieved, nil
}

// generate invokes the LLM with the grounded context and bounded
// history.
func (s *AnswerService) generate(ctx context.Context, question string, retrieved []domain.RetrievedChunk, history []domain.Message) (string, error) {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: systemPrompt})

	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	userMessage := fmt.Sprintf("BAĞLAM (Context):\n%s\n\nSORU:\n%s", buildContext(retrieved), question)
	messages = append(messages, driven.ChatMessage{Role: "user", Content: userMessage})

	answer, err := s.llmService.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// recordUnavailable records a failed assistant turn with the fixed
// unavailable text. The turn stays in history.
func (s *AnswerService) recordUnavailable(ctx context.Context, sessionID string) (*domain.Answer, error) {
	msgID, err := s.appendAssistant(ctx, sessionID, s.answers.UnavailableText, nil, true)
	if err != nil {
		return nil, err
	}
	return &domain.Answer{
		SessionID: sessionID,
		MessageID: msgID,
		Text:      s.answers.UnavailableText,
		Failed:    true,
	}, nil
}

func (s *AnswerService) appendAssistant(ctx context.Context, sessionID, content string, sources []domain.SourceRef, failed bool) (string, error) {
	msg := &domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   content,
		Sources:   sources,
		Failed:    failed,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionStore.AppendMessage(ctx, msg); err != nil {
		return "", fmt.Errorf("recording assistant message: %w", err)
	}
	return msg.ID, nil
}

func (s *AnswerService) appendMessage(ctx context.Context, sessionID string, role domain.MessageRole, content string, sources []domain.SourceRef, failed bool) error {
	msg := &domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Sources:   sources,
		Failed:    failed,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionStore.AppendMessage(ctx, msg); err != nil {
		return fmt.Errorf("recording %s message: %w", role, err)
	}
	return nil
}

// buildContext renders retrieved chunks as numbered, named sources.
func buildContext(retrieved []domain.RetrievedChunk) string {
	parts := make([]string, len(retrieved))
	for i, rc := range retrieved {
		parts[i] = fmt.Sprintf("[Kaynak %d: %s]\n%s\n---", i+1, chunkFilename(rc.Chunk), rc.Chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}

// buildSources converts retrieved chunks to citations, deduplicated by
// document so one document is cited once no matter how many of its
// chunks matched.
func buildSources(retrieved []domain.RetrievedChunk) []domain.SourceRef {
	sources := make([]domain.SourceRef, 0, len(retrieved))
	seen := make(map[string]bool, len(retrieved))

	for _, rc := range retrieved {
		if seen[rc.Chunk.DocumentID] {
			continue
		}
		seen[rc.Chunk.DocumentID] = true

		sources = append(sources, domain.SourceRef{
			DocumentID: rc.Chunk.DocumentID,
			Filename:   chunkFilename(rc.Chunk),
			ChunkIndex: rc.Chunk.Index,
			Excerpt:    rc.Chunk.Excerpt(domain.DefaultExcerptLength),
			Similarity: rc.Similarity,
		})
	}
	return sources
}

// chunkFilename reads the source filename stashed in chunk metadata.
func chunkFilename(chunk domain.Chunk) string {
	if name, ok := chunk.Metadata["filename"].(string); ok && name != "" {
		return name
	}
	return "Bilinmeyen"
}

// isProviderFailure reports whether an error came from an unreachable
// or exhausted AI provider rather than bad input.
func isProviderFailure(err error) bool {
	return errors.Is(err, domain.ErrEmbeddingUnavailable) ||
		errors.Is(err, domain.ErrEmbeddingFailed) ||
		errors.Is(err, domain.ErrGenerationUnavailable)
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
