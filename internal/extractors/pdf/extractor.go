// Package pdf extracts text from PDF uploads.
package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Extract returns the concatenated plain text of all pages.
func (e *Extractor) Extract(_ context.Context, _ string, payload []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", domain.ErrCorruptFile
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", domain.ErrCorruptFile
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", domain.ErrCorruptFile
	}

	return strings.TrimSpace(b.String()), nil
}
