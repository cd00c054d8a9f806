package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	document *domain.Document
	err      error
	lastReq  driving.UploadRequest
}

func (m *mockIngestService) Upload(_ context.Context, req driving.UploadRequest) (*domain.Document, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.document != nil {
		return m.document, nil
	}
	return &domain.Document{
		ID:         "doc-1",
		TenantID:   req.TenantID,
		Filename:   req.Filename,
		Status:     domain.StatusIndexed,
		ChunkCount: 3,
	}, nil
}

func (m *mockIngestService) Ingest(_ context.Context, _ string) error {
	return m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer    *domain.Answer
	questions []string
	err       error
	lastReq   driving.AskRequest
}

func (m *mockAnswerService) Ask(_ context.Context, req driving.AskRequest) (*domain.Answer, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{
		SessionID: "sess-1",
		MessageID: "msg-2",
		Text:      "Yıllık izin 14 gündür.",
		Sources: []domain.SourceRef{
			{DocumentID: "doc-1", Filename: "izin-politikasi.pdf", Similarity: 0.9, Excerpt: "İzinler 14 gündür."},
		},
	}, nil
}

func (m *mockAnswerService) SuggestedQuestions(_ context.Context, _ string) ([]string, error) {
	return m.questions, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockFeedbackService is a mock implementation of driving.FeedbackService.
type mockFeedbackService struct {
	feedback *domain.Feedback
	err      error
	lastReq  driving.FeedbackRequest
}

func (m *mockFeedbackService) Submit(_ context.Context, req driving.FeedbackRequest) (*domain.Feedback, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.feedback != nil {
		return m.feedback, nil
	}
	return &domain.Feedback{
		ID:        "fb-1",
		SessionID: req.SessionID,
		MessageID: req.MessageID,
		Score:     req.Score,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats *domain.UsageStats
	err   error
}

func (m *mockStatsService) Usage(_ context.Context, _ string) (*domain.UsageStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stats != nil {
		return m.stats, nil
	}
	return &domain.UsageStats{
		Documents:        2,
		IndexedDocuments: 2,
		Chunks:           10,
		Sessions:         1,
		Messages:         4,
		FeedbackCount:    1,
		MeanScore:        4,
		AccuracyPercent:  80,
	}, nil
}

// setupTestServices installs fresh mocks and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAnswer := answerService
	oldDocument := documentService
	oldFeedback := feedbackService
	oldStats := statsService

	ingestService = &mockIngestService{}
	answerService = &mockAnswerService{}
	documentService = &mockDocumentService{}
	feedbackService = &mockFeedbackService{}
	statsService = &mockStatsService{}

	return func() {
		ingestService = oldIngest
		answerService = oldAnswer
		documentService = oldDocument
		feedbackService = oldFeedback
		statsService = oldStats
	}
}
