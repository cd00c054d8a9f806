// Package extractors selects and runs text extraction for uploaded
// documents based on MIME type.
package extractors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/extractors/docx"
	"github.com/custodia-labs/regdoc-cli/internal/extractors/html"
	"github.com/custodia-labs/regdoc-cli/internal/extractors/markdown"
	"github.com/custodia-labs/regdoc-cli/internal/extractors/pdf"
	"github.com/custodia-labs/regdoc-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps MIME types to extractors.
type Registry struct {
	byMIME map[string]driven.Extractor
}

// New creates a registry from the given extractors. Later extractors
// win when MIME types collide.
func New(extractors ...driven.Extractor) *Registry {
	r := &Registry{byMIME: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, mt := range e.SupportedMIMETypes() {
			r.byMIME[mt] = e
		}
	}
	return r
}

// Default returns a registry with all built-in extractors.
func Default() *Registry {
	return New(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		pdf.New(),
	)
}

// ForMIMEType returns the extractor for the given MIME type.
func (r *Registry) ForMIMEType(mimeType string) (driven.Extractor, error) {
	e, ok := r.byMIME[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, mimeType)
	}
	return e, nil
}

// SupportedMIMETypes returns all MIME types with a registered extractor.
func (r *Registry) SupportedMIMETypes() []string {
	types := make([]string, 0, len(r.byMIME))
	for mt := range r.byMIME {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}
