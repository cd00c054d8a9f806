package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

// Ensure FeedbackService implements the interface.
var _ driving.FeedbackService = (*FeedbackService)(nil)

// FeedbackService records user ratings of sessions and answers.
type FeedbackService struct {
	sessionStore driven.SessionStore
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(sessionStore driven.SessionStore) *FeedbackService {
	return &FeedbackService{sessionStore: sessionStore}
}

// Submit records a rating against a session, and optionally against
// one of its messages.
func (s *FeedbackService) Submit(ctx context.Context, req driving.FeedbackRequest) (*domain.Feedback, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if !domain.ValidScore(req.Score) {
		return nil, fmt.Errorf("%w: score %d is outside %d..%d",
			domain.ErrInvalidFeedback, req.Score, domain.MinFeedbackScore, domain.MaxFeedbackScore)
	}

	if _, err := s.sessionStore.GetSession(ctx, req.SessionID); err != nil {
		return nil, err
	}

	messageID := strings.TrimSpace(req.MessageID)
	if messageID != "" {
		msg, err := s.sessionStore.GetMessage(ctx, messageID)
		if err != nil {
			return nil, err
		}
		if msg.SessionID != req.SessionID {
			return nil, fmt.Errorf("%w: message %s does not belong to session %s",
				domain.ErrInvalidInput, messageID, req.SessionID)
		}
	}

	fb := domain.Feedback{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		MessageID: messageID,
		Score:     req.Score,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionStore.SaveFeedback(ctx, &fb); err != nil {
		return nil, fmt.Errorf("saving feedback: %w", err)
	}
	return &fb, nil
}
