package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// buildDocx assembles a minimal DOCX container holding the given
// word/document.xml content.
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

func TestExtract_ParagraphsJoinedByNewline(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second, </w:t></w:r><w:r><w:t>split across runs.</w:t></w:r></w:p>
    <w:p/>
  </w:body>
</w:document>`)

	pages, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, "First paragraph.\nSecond, split across runs.\n", pages[0].Text)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 0, pages[0].GlobalStart)
}

func TestExtract_NotAZip(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("definitely not a zip"))
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestExtract_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = New().Extract(context.Background(), buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestExtract_MalformedXML(t *testing.T) {
	data := buildDocx(t, "<w:document><w:body><unclosed")

	_, err := New().Extract(context.Background(), data)
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}
