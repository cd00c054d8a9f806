// Package plaintext extracts text from plain text uploads.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
	}
}

// Extract returns the payload as text.
func (e *Extractor) Extract(_ context.Context, _ string, payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", domain.ErrCorruptFile
	}
	return strings.TrimSpace(string(payload)), nil
}
