package driving

import (
	"context"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// FeedbackService records user ratings of assistant answers.
type FeedbackService interface {
	// Submit records a rating. Returns domain.ErrInvalidFeedback for
	// scores outside 1..5.
	Submit(ctx context.Context, req FeedbackRequest) (*domain.Feedback, error)
}

// FeedbackRequest carries one rating.
type FeedbackRequest struct {
	// SessionID is the rated conversation. Required.
	SessionID string

	// MessageID is the rated assistant message. Optional: when empty
	// the rating applies to the session as a whole.
	MessageID string

	// Score is the rating, 1 to 5.
	Score int

	// Comment is optional free text.
	Comment string
}
