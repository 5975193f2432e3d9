package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCitation_ShortTextKeptVerbatim(t *testing.T) {
	chunk := Chunk{
		ID:         "doc1_chunk_0",
		DocumentID: "doc1",
		Text:       "short passage",
		PageNumber: 3,
		CharStart:  100,
		CharEnd:    113,
	}

	c := NewCitation(chunk, 0.87)

	assert.Equal(t, "doc1_chunk_0", c.ChunkID)
	assert.Equal(t, "short passage", c.Text)
	assert.Equal(t, 3, c.PageNumber)
	assert.Equal(t, 100, c.CharStart)
	assert.Equal(t, 113, c.CharEnd)
	assert.InDelta(t, 0.87, c.RelevanceScore, 1e-9)
}

func TestNewCitation_LongTextTrimmedButSpanKept(t *testing.T) {
	text := strings.Repeat("a", 500)
	chunk := Chunk{
		ID:        "doc1_chunk_4",
		Text:      text,
		CharStart: 2000,
		CharEnd:   2500,
	}

	c := NewCitation(chunk, 0.5)

	assert.Len(t, c.Text, 203)
	assert.True(t, strings.HasSuffix(c.Text, "..."))
	assert.Equal(t, text[:200], strings.TrimSuffix(c.Text, "..."))

	// Offsets always name the full chunk span, not the trimmed text.
	assert.Equal(t, 2000, c.CharStart)
	assert.Equal(t, 2500, c.CharEnd)
}

func TestNewCitation_MultibyteTrimStaysValidUTF8(t *testing.T) {
	// 100 three-byte runes: byte 200 falls mid-rune, so the trim must
	// step back to byte 198 instead of cutting the rune in half.
	text := strings.Repeat("界", 100)
	chunk := Chunk{ID: "doc1_chunk_0", Text: text, CharStart: 0, CharEnd: 300}

	c := NewCitation(chunk, 0.9)

	assert.True(t, utf8.ValidString(c.Text))
	assert.Equal(t, text[:198]+"...", c.Text)

	// The quoted text must survive the JSON boundary byte for byte.
	data, err := json.Marshal(c)
	require.NoError(t, err)
	var decoded Citation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c.Text, decoded.Text)
}
