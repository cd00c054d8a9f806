package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// CreateSession opens a new session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, tenant_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.TenantID, session.Title, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, title, created_at, updated_at
		FROM chat_sessions WHERE id = ?
	`, id)

	var session domain.Session
	if err := row.Scan(&session.ID, &session.TenantID, &session.Title,
		&session.CreatedAt, &session.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &session, nil
}

// ListSessions returns a tenant's sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, tenantID string) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, title, created_at, updated_at
		FROM chat_sessions WHERE tenant_id = ?
		ORDER BY updated_at DESC, id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.ID, &session.TenantID, &session.Title,
			&session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// SetSessionTitle updates a session's title.
func (s *Store) SetSessionTitle(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE chat_sessions SET title = ?, updated_at = ? WHERE id = ?
	`, title, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating session title: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating session title: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AppendMessage appends a message to a session, assigning the next
// sequence number in the same transaction.
func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM chat_sessions WHERE id = ?", msg.SessionID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}

	var seq int
	row = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM chat_messages WHERE session_id = ?", msg.SessionID)
	if err := row.Scan(&seq); err != nil {
		return fmt.Errorf("assigning sequence: %w", err)
	}

	sourcesJSON, err := json.Marshal(msg.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, seq, role, content, sources, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, seq, string(msg.Role), msg.Content,
		string(sourcesJSON), msg.Failed, msg.CreatedAt); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE chat_sessions SET updated_at = ? WHERE id = ?",
		msg.CreatedAt, msg.SessionID); err != nil {
		return fmt.Errorf("touching session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	msg.Seq = seq
	return nil
}

// GetMessage retrieves a message by ID.
func (s *Store) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, seq, role, content, sources, failed, created_at
		FROM chat_messages WHERE id = ?
	`, id)

	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return msg, err
}

// ListMessages returns a session's messages in append order.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, role, content, sources, failed, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// RecentMessages returns the last n messages in append order.
func (s *Store) RecentMessages(ctx context.Context, sessionID string, n int) ([]domain.Message, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, role, content, sources, failed, created_at
		FROM (
			SELECT * FROM chat_messages WHERE session_id = ?
			ORDER BY seq DESC LIMIT ?
		) ORDER BY seq
	`, sessionID, n)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// SaveFeedback records a rating. A feedback row without a message ID
// stores NULL so the message foreign key stays satisfiable.
func (s *Store) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	messageID := sql.NullString{String: fb.MessageID, Valid: fb.MessageID != ""}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, session_id, message_id, score, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, fb.ID, fb.SessionID, messageID, fb.Score, fb.Comment, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}
	return nil
}

// RecentUserQuestions returns a tenant's latest distinct user message
// contents, newest first.
func (s *Store) RecentUserQuestions(ctx context.Context, tenantID string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.content, MAX(m.created_at) AS latest
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE s.tenant_id = ? AND m.role = ?
		GROUP BY m.content
		ORDER BY latest DESC
		LIMIT ?
	`, tenantID, string(domain.RoleUser), n)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var questions []string
	for rows.Next() {
		var content string
		var latest time.Time
		if err := rows.Scan(&content, &latest); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		questions = append(questions, content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}
	return questions, nil
}

// Stats aggregates a tenant's session, message, and feedback figures.
func (s *Store) Stats(ctx context.Context, tenantID string) (sessions, messages, feedback int, meanScore float64, err error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chat_sessions WHERE tenant_id = ?", tenantID)
	if err = row.Scan(&sessions); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("counting sessions: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE s.tenant_id = ?
	`, tenantID)
	if err = row.Scan(&messages); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("counting messages: %w", err)
	}

	var mean sql.NullFloat64
	row = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(score) FROM feedback f
		JOIN chat_sessions s ON s.id = f.session_id
		WHERE s.tenant_id = ?
	`, tenantID)
	if err = row.Scan(&feedback, &mean); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("aggregating feedback: %w", err)
	}
	if mean.Valid {
		meanScore = mean.Float64
	}

	return sessions, messages, feedback, meanScore, nil
}

// scanMessage scans a single message row.
func scanMessage(row scanner) (*domain.Message, error) {
	var msg domain.Message
	var role, sourcesJSON string

	if err := row.Scan(&msg.ID, &msg.SessionID, &msg.Seq, &role,
		&msg.Content, &sourcesJSON, &msg.Failed, &msg.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning message: %w", err)
	}

	msg.Role = domain.MessageRole(role)
	if sourcesJSON != "" && sourcesJSON != "null" {
		if err := json.Unmarshal([]byte(sourcesJSON), &msg.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
	}
	return &msg, nil
}

// collectMessages scans all message rows.
func collectMessages(rows *sql.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}
