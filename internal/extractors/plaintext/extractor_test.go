package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func TestExtract_SinglePageVerbatim(t *testing.T) {
	data := []byte("line one\nline two\n")

	pages, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, string(data), pages[0].Text)
	assert.Equal(t, 0, pages[0].GlobalStart)
	assert.Equal(t, len(data), pages[0].GlobalEnd())
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte{0xff, 0xfe, 0x00})
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}
