package driven

import (
	"context"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// SessionStore persists conversations, messages, and feedback.
// Messages and feedback are append-only.
type SessionStore interface {
	// CreateSession opens a new session.
	CreateSession(ctx context.Context, session *domain.Session) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// ListSessions returns a tenant's sessions, newest first.
	ListSessions(ctx context.Context, tenantID string) ([]domain.Session, error)

	// SetSessionTitle updates a session's title.
	SetSessionTitle(ctx context.Context, id, title string) error

	// AppendMessage appends a message to a session. The store assigns
	// the next sequence number.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// GetMessage retrieves a message by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetMessage(ctx context.Context, id string) (*domain.Message, error)

	// ListMessages returns a session's messages in append order.
	ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// RecentMessages returns the last n messages of a session in
	// append order.
	RecentMessages(ctx context.Context, sessionID string, n int) ([]domain.Message, error)

	// SaveFeedback records a rating for a message.
	SaveFeedback(ctx context.Context, fb *domain.Feedback) error

	// RecentUserQuestions returns a tenant's latest distinct user
	// message contents, newest first.
	RecentUserQuestions(ctx context.Context, tenantID string, n int) ([]string, error)

	// Stats aggregates a tenant's session, message, and feedback counts
	// plus the mean feedback score.
	Stats(ctx context.Context, tenantID string) (sessions, messages, feedback int, meanScore float64, err error)
}
