package nomendex_test

import (
	"html/template"
	"testing"

	"github.com/firstloop/nomendex"
	"github.com/firstloop/nomendex/internal/assert"
)

func TestHighlight(t *testing.T) {
	t.Parallel()

	text := "Milk, then more milk"
	segments := nomendex.Highlight(text, nomendex.FindSpans("milk", text))
	assert.Equal(t, segments, []nomendex.Segment{
		{Text: "Milk", Match: true},
		{Text: ", then more "},
		{Text: "milk", Match: true},
	})
}

func TestHighlight_NoSpans(t *testing.T) {
	t.Parallel()

	assert.Equal(t, nomendex.Highlight("plain", nil), []nomendex.Segment{{Text: "plain"}})
	assert.Equal(t, len(nomendex.Highlight("", nil)), 0)
}

func TestHighlight_SkipsBadSpans(t *testing.T) {
	t.Parallel()

	spans := []nomendex.Span{
		{Start: 0, End: 2},
		{Start: 1, End: 3},  // overlaps
		{Start: 4, End: 4},  // empty
		{Start: 5, End: 99}, // out of range
	}

	assert.Equal(t, nomendex.Highlight("abcdef", spans), []nomendex.Segment{
		{Text: "ab", Match: true},
		{Text: "cdef"},
	})
}

func TestHighlightHTML(t *testing.T) {
	t.Parallel()

	text := "buy milk"
	got := nomendex.HighlightHTML(text, nomendex.FindSpans("milk", text))
	assert.Equal(t, got, template.HTML(`buy <mark class="search-highlight">milk</mark>`))
}

func TestHighlightHTML_EscapesText(t *testing.T) {
	t.Parallel()

	text := "<script>alert(1)</script> milk"
	got := nomendex.HighlightHTML(text, nomendex.FindSpans("milk", text))
	assert.Equal(t, got, template.HTML(`&lt;script&gt;alert(1)&lt;/script&gt; <mark class="search-highlight">milk</mark>`))
}
