package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	messages map[string][]domain.Message // keyed by session ID, append order
	feedback []domain.Feedback
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		messages: make(map[string][]domain.Message),
	}
}

// CreateSession opens a new session.
func (s *SessionStore) CreateSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// ListSessions returns a tenant's sessions, newest first.
func (s *SessionStore) ListSessions(_ context.Context, tenantID string) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Session
	for id := range s.sessions {
		if s.sessions[id].TenantID == tenantID {
			result = append(result, s.sessions[id])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// SetSessionTitle updates a session's title.
func (s *SessionStore) SetSessionTitle(_ context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	session.Title = title
	session.UpdatedAt = time.Now().UTC()
	s.sessions[id] = session
	return nil
}

// AppendMessage appends a message, assigning the next sequence number.
func (s *SessionStore) AppendMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[msg.SessionID]
	if !ok {
		return domain.ErrNotFound
	}

	msg.Seq = len(s.messages[msg.SessionID]) + 1
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], *msg)

	session.UpdatedAt = msg.CreatedAt
	s.sessions[msg.SessionID] = session
	return nil
}

// GetMessage retrieves a message by ID.
func (s *SessionStore) GetMessage(_ context.Context, id string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, msgs := range s.messages {
		for _, msg := range msgs {
			if msg.ID == id {
				return &msg, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// ListMessages returns a session's messages in append order.
func (s *SessionStore) ListMessages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]domain.Message, len(s.messages[sessionID]))
	copy(msgs, s.messages[sessionID])
	return msgs, nil
}

// RecentMessages returns the last n messages in append order.
func (s *SessionStore) RecentMessages(_ context.Context, sessionID string, n int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	if n <= 0 || len(msgs) == 0 {
		return nil, nil
	}
	if n > len(msgs) {
		n = len(msgs)
	}

	result := make([]domain.Message, n)
	copy(result, msgs[len(msgs)-n:])
	return result, nil
}

// SaveFeedback records a rating.
func (s *SessionStore) SaveFeedback(_ context.Context, fb *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *fb)
	return nil
}

// RecentUserQuestions returns a tenant's latest distinct user message
// contents, newest first.
func (s *SessionStore) RecentUserQuestions(_ context.Context, tenantID string, n int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return nil, nil
	}

	type entry struct {
		content string
		latest  time.Time
	}
	latest := make(map[string]time.Time)

	for sessionID, msgs := range s.messages {
		session, ok := s.sessions[sessionID]
		if !ok || session.TenantID != tenantID {
			continue
		}
		for _, msg := range msgs {
			if msg.Role != domain.RoleUser {
				continue
			}
			if t, ok := latest[msg.Content]; !ok || msg.CreatedAt.After(t) {
				latest[msg.Content] = msg.CreatedAt
			}
		}
	}

	entries := make([]entry, 0, len(latest))
	for content, t := range latest {
		entries = append(entries, entry{content: content, latest: t})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].latest.Equal(entries[j].latest) {
			return entries[i].latest.After(entries[j].latest)
		}
		return entries[i].content < entries[j].content
	})

	if n > len(entries) {
		n = len(entries)
	}
	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = entries[i].content
	}
	return result, nil
}

// Stats aggregates a tenant's session, message, and feedback figures.
func (s *SessionStore) Stats(_ context.Context, tenantID string) (sessions, messages, feedback int, meanScore float64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantSessions := make(map[string]bool)
	for id := range s.sessions {
		if s.sessions[id].TenantID == tenantID {
			tenantSessions[id] = true
			sessions++
		}
	}

	for sessionID, msgs := range s.messages {
		if tenantSessions[sessionID] {
			messages += len(msgs)
		}
	}

	total := 0
	for _, fb := range s.feedback {
		if tenantSessions[fb.SessionID] {
			feedback++
			total += fb.Score
		}
	}
	if feedback > 0 {
		meanScore = float64(total) / float64(feedback)
	}

	return sessions, messages, feedback, meanScore, nil
}
