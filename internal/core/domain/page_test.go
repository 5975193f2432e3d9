package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageMap_PageFor(t *testing.T) {
	m := NewPageMap([]PageText{
		{Number: 1, Text: "aaaaaaaaaa", GlobalStart: 0},  // [0, 10)
		{Number: 2, Text: "bbbbb", GlobalStart: 10},      // [10, 15)
		{Number: 3, Text: "cccccccccc", GlobalStart: 15}, // [15, 25)
	})

	assert.Equal(t, 1, m.PageFor(0))
	assert.Equal(t, 1, m.PageFor(9))
	assert.Equal(t, 2, m.PageFor(10))
	assert.Equal(t, 2, m.PageFor(14))
	assert.Equal(t, 3, m.PageFor(15))
	assert.Equal(t, 3, m.PageFor(24))
}

func TestPageMap_PageFor_SkipsEmptyPages(t *testing.T) {
	// Page 2 produced no text, so its range is empty and offset 10
	// belongs to page 3.
	m := NewPageMap([]PageText{
		{Number: 1, Text: "aaaaaaaaaa", GlobalStart: 0},
		{Number: 2, Text: "", GlobalStart: 10},
		{Number: 3, Text: "ccccc", GlobalStart: 10},
	})

	assert.Equal(t, 3, m.PageFor(10))
}

func TestPageMap_PageFor_PastEnd(t *testing.T) {
	m := NewPageMap([]PageText{
		{Number: 1, Text: "aaaaa", GlobalStart: 0},
		{Number: 2, Text: "", GlobalStart: 5},
	})

	// Past-the-end offsets resolve to the last page that had text.
	assert.Equal(t, 1, m.PageFor(5))
	assert.Equal(t, 1, m.PageFor(100))
}

func TestPageMap_TotalLen(t *testing.T) {
	assert.Equal(t, 0, NewPageMap(nil).TotalLen())

	m := NewPageMap([]PageText{
		{Number: 1, Text: "aaaaa", GlobalStart: 0},
		{Number: 2, Text: "bbb", GlobalStart: 5},
	})
	assert.Equal(t, 8, m.TotalLen())
}

func TestPageText_GlobalEnd(t *testing.T) {
	p := PageText{Number: 2, Text: "hello", GlobalStart: 42}
	assert.Equal(t, 47, p.GlobalEnd())
}
