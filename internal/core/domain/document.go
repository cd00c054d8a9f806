package domain

import "time"

// DocumentStatus tracks where a document is in the ingestion lifecycle.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusUploaded means the raw payload is stored but not yet processed.
	StatusUploaded DocumentStatus = "uploaded"

	// StatusProcessing means an ingestion worker holds the document.
	StatusProcessing DocumentStatus = "processing"

	// StatusIndexed means chunks and vectors are queryable.
	StatusIndexed DocumentStatus = "indexed"

	// StatusFailed means ingestion aborted; ErrorMessage explains why.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusIndexed, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no ingestion worker holds the document.
func (s DocumentStatus) IsTerminal() bool {
	return s != StatusProcessing
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Document is an uploaded file owned by a single tenant.
type Document struct {
	// ID is the unique document identifier.
	ID string

	// TenantID scopes the document to one tenant. Never empty.
	TenantID string

	// Filename is the original upload name, shown in citations.
	Filename string

	// MIMEType is the detected content type of the raw payload.
	MIMEType string

	// SizeBytes is the raw payload size.
	SizeBytes int64

	// Status is the current lifecycle state.
	Status DocumentStatus

	// ErrorMessage holds the failure reason when Status is failed.
	ErrorMessage string

	// ChunkCount is the number of indexed chunks (0 until indexed).
	ChunkCount int

	// CreatedAt is the upload time.
	CreatedAt time.Time

	// UpdatedAt is the last lifecycle transition time.
	UpdatedAt time.Time
}

// Chunk is a contiguous slice of a document's extracted text.
type Chunk struct {
	// ID is the unique chunk identifier.
	ID string

	// DocumentID links to the parent document.
	DocumentID string

	// TenantID mirrors the parent document's tenant.
	TenantID string

	// Index is the zero-based position within the document.
	Index int

	// Text is the chunk content.
	Text string

	// CharStart is the rune offset of the chunk start in the extracted text.
	CharStart int

	// CharEnd is the rune offset one past the chunk end.
	CharEnd int

	// Embedding is the chunk's vector, empty until embedded.
	Embedding []float32

	// Metadata carries extractor hints (page, section title).
	Metadata map[string]any

	// CreatedAt is when the chunk was persisted.
	CreatedAt time.Time
}

// Excerpt returns the chunk text truncated for display in citations.
func (c *Chunk) Excerpt(maxLen int) string {
	runes := []rune(c.Text)
	if len(runes) <= maxLen {
		return c.Text
	}
	return string(runes[:maxLen]) + "..."
}
