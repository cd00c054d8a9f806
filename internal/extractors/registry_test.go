package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

func TestRegistry_ForMIMEType(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		mimeType string
		wantErr  error
	}{
		{name: "plain text supported", mimeType: "text/plain"},
		{name: "markdown supported", mimeType: "text/markdown"},
		{name: "html supported", mimeType: "text/html"},
		{name: "docx supported", mimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "pdf supported", mimeType: "application/pdf"},
		{name: "image rejected", mimeType: "image/png", wantErr: domain.ErrUnsupportedFormat},
		{name: "empty rejected", mimeType: "", wantErr: domain.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.ForMIMEType(tt.mimeType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, e)
		})
	}
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := Default()
	types := r.SupportedMIMETypes()

	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "application/pdf")
	assert.NotContains(t, types, "image/png")
}
