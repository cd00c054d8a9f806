package driving

import (
	"context"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// AnswerService answers questions grounded in indexed documents.
type AnswerService interface {
	// Ask answers a question within a session, creating the session
	// when SessionID is empty. Both the question and the answer are
	// recorded as session messages.
	Ask(ctx context.Context, req AskRequest) (*domain.Answer, error)

	// SuggestedQuestions returns questions a tenant might ask next:
	// recent real questions when history exists, a configured fallback
	// list otherwise.
	SuggestedQuestions(ctx context.Context, tenantID string) ([]string, error)
}

// AskRequest carries one question.
type AskRequest struct {
	// TenantID is the asking tenant. Required.
	TenantID string

	// SessionID continues an existing conversation when set.
	SessionID string

	// Question is the user's question. Required.
	Question string
}
