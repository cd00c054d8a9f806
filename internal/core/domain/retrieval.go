package domain

// Retrieval defaults. Tuned for 1000-char chunks with 1536-dim embeddings.
const (
	DefaultTopK          = 5
	DefaultThreshold     = 0.75
	DefaultHistoryTurns  = 6
	DefaultExcerptLength = 200
)

// RetrievalPolicy controls how the answerer selects supporting chunks.
type RetrievalPolicy struct {
	// TopK is the maximum number of chunks retrieved per question.
	TopK int

	// Threshold is the cosine similarity a chunk must strictly exceed
	// to count as supporting evidence. When nothing exceeds it the
	// answerer abstains.
	Threshold float64

	// HistoryTurns is how many prior messages accompany the question.
	HistoryTurns int
}

// DefaultRetrievalPolicy returns the standard policy.
func DefaultRetrievalPolicy() RetrievalPolicy {
	return RetrievalPolicy{
		TopK:         DefaultTopK,
		Threshold:    DefaultThreshold,
		HistoryTurns: DefaultHistoryTurns,
	}
}

// Normalise fills zero fields with defaults.
func (p RetrievalPolicy) Normalise() RetrievalPolicy {
	if p.TopK <= 0 {
		p.TopK = DefaultTopK
	}
	if p.Threshold <= 0 {
		p.Threshold = DefaultThreshold
	}
	if p.HistoryTurns <= 0 {
		p.HistoryTurns = DefaultHistoryTurns
	}
	return p
}

// RetrievedChunk is a chunk paired with its similarity to the question.
type RetrievedChunk struct {
	// Chunk is the matched chunk, hydrated from the store.
	Chunk Chunk

	// Similarity is the cosine similarity in [-1, 1].
	Similarity float64
}

// Answer is the answerer's complete response to one question.
type Answer struct {
	// SessionID is the session the turn was recorded in.
	SessionID string

	// MessageID is the recorded assistant message.
	MessageID string

	// Text is the answer content.
	Text string

	// Sources are citations in rank order. Empty when abstaining.
	Sources []SourceRef

	// Abstained is true when no chunk cleared the threshold.
	Abstained bool

	// Failed is true when the generation provider was unavailable.
	Failed bool
}

// UsageStats summarises a tenant's activity.
type UsageStats struct {
	// Documents is the number of stored documents.
	Documents int

	// IndexedDocuments is the number with status indexed.
	IndexedDocuments int

	// Chunks is the total indexed chunk count.
	Chunks int

	// Sessions is the number of conversations.
	Sessions int

	// Messages is the total message count across sessions.
	Messages int

	// FeedbackCount is the number of submitted ratings.
	FeedbackCount int

	// MeanScore is the average feedback score, 0 when no feedback exists.
	MeanScore float64

	// AccuracyPercent maps the mean score onto a 0-100 scale.
	AccuracyPercent float64
}
