package driven

import "context"

// Extractor converts a raw document payload to plain text.
//
// Implementations are keyed by MIME type; the extractor registry picks
// the right one per upload.
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract returns the plain text content of the payload.
	// Returns domain.ErrCorruptFile when the payload cannot be parsed
	// as its declared format.
	Extract(ctx context.Context, filename string, payload []byte) (string, error)
}

// ExtractorRegistry selects an extractor for a MIME type.
type ExtractorRegistry interface {
	// ForMIMEType returns the extractor for the given MIME type.
	// Returns domain.ErrUnsupportedFormat when none handles it.
	ForMIMEType(mimeType string) (Extractor, error)

	// SupportedMIMETypes returns all MIME types with a registered
	// extractor.
	SupportedMIMETypes() []string
}
