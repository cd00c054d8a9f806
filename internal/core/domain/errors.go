package domain

import "errors"

// Domain errors returned by services and adapters.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or missing input data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates extraction produced no usable text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrUnsupportedFormat indicates no extractor handles the MIME type.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptFile indicates the payload could not be parsed as its
	// declared format.
	ErrCorruptFile = errors.New("corrupt or unreadable file")

	// ErrAlreadyProcessing indicates another worker holds the document.
	ErrAlreadyProcessing = errors.New("document is already being processed")

	// ErrEmbeddingFailed indicates the embedding provider gave up after
	// retries.
	ErrEmbeddingFailed = errors.New("embedding request failed")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the LLM provider failed while
	// producing an answer.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrInvalidFeedback indicates a feedback score outside 1..5.
	ErrInvalidFeedback = errors.New("feedback score must be between 1 and 5")

	// ErrDimensionMismatch indicates a vector of unexpected length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotConfigured indicates a required provider is missing from
	// settings.
	ErrNotConfigured = errors.New("service not configured")
)
