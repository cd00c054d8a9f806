package domain

import "time"

// MessageRole identifies who produced a chat message.
type MessageRole string

// Message roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// IsValid returns true if the role is recognised.
func (r MessageRole) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r MessageRole) String() string {
	return string(r)
}

// Session is a tenant-scoped conversation.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// TenantID scopes the session to one tenant.
	TenantID string

	// Title defaults to the first user question.
	Title string

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	// UpdatedAt is when the last message was appended.
	UpdatedAt time.Time
}

// Message is one immutable turn in a session.
type Message struct {
	// ID is the unique message identifier.
	ID string

	// SessionID links to the parent session.
	SessionID string

	// Seq is the append position within the session, starting at 1.
	Seq int

	// Role identifies the author.
	Role MessageRole

	// Content is the message text.
	Content string

	// Sources are the citations attached to an assistant answer,
	// in rank order. Empty for user messages and abstentions.
	Sources []SourceRef

	// Failed marks an assistant turn where the generation provider
	// was unavailable.
	Failed bool

	// CreatedAt is the append time.
	CreatedAt time.Time
}

// SourceRef is a citation pointing back at an indexed chunk.
type SourceRef struct {
	// DocumentID identifies the cited document.
	DocumentID string `json:"document_id"`

	// Filename is the document's upload name.
	Filename string `json:"filename"`

	// ChunkIndex is the cited chunk's position within the document.
	ChunkIndex int `json:"chunk_index"`

	// Excerpt is the chunk text truncated for display.
	Excerpt string `json:"excerpt"`

	// Similarity is the cosine similarity that ranked this source.
	Similarity float64 `json:"similarity"`
}

// Feedback score bounds.
const (
	MinFeedbackScore = 1
	MaxFeedbackScore = 5
)

// Feedback is a user rating of one assistant message.
type Feedback struct {
	// ID is the unique feedback identifier.
	ID string

	// SessionID links to the session.
	SessionID string

	// MessageID links to the rated assistant message. Empty for
	// session-level feedback.
	MessageID string

	// Score is the rating, 1 (worst) to 5 (best).
	Score int

	// Comment is optional free text.
	Comment string

	// CreatedAt is the submission time.
	CreatedAt time.Time
}

// ValidScore returns true if the score lies within bounds.
func ValidScore(score int) bool {
	return score >= MinFeedbackScore && score <= MaxFeedbackScore
}
