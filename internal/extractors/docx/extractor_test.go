package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// buildDocx creates a minimal DOCX archive with the given document XML.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtract_Paragraphs(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Birinci paragraf.</t></r></p>
    <p><r><t>İkinci </t></r><r><t>paragraf.</t></r></p>
  </body>
</document>`

	e := New()
	text, err := e.Extract(context.Background(), "policy.docx", buildDocx(t, docXML))
	require.NoError(t, err)

	assert.Equal(t, "Birinci paragraf.\n\nİkinci paragraf.", text)
}

func TestExtract_NotAZip(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), "broken.docx", []byte("not a zip archive"))
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_ZipWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("other.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("irrelevant"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := New()
	_, extractErr := e.Extract(context.Background(), "odd.docx", buf.Bytes())
	assert.ErrorIs(t, extractErr, domain.ErrCorruptFile)
}
