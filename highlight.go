package nomendex

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Segment is a piece of highlighted text.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text into plain and matched segments using spans as returned by FindSpans.
// Spans that are out of range, empty, or overlap an earlier span are ignored.
func Highlight(text string, spans []Span) []Segment {
	var segments []Segment
	last := 0

	for _, span := range spans {
		if span.Start < last || span.End <= span.Start || span.End > len(text) {
			continue
		}

		if span.Start > last {
			segments = append(segments, Segment{Text: text[last:span.Start]})
		}
		segments = append(segments, Segment{Text: text[span.Start:span.End], Match: true})
		last = span.End
	}

	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

// highlightPolicy only lets the highlight markup through.
var highlightPolicy = createHighlightPolicy()

func createHighlightPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("mark")
	return policy
}

// HighlightHTML renders text as HTML with each span wrapped in a mark element.
func HighlightHTML(text string, spans []Span) template.HTML {
	var b strings.Builder
	for _, segment := range Highlight(text, spans) {
		escaped := template.HTMLEscapeString(segment.Text)
		if segment.Match {
			b.WriteString(`<mark class="search-highlight">`)
			b.WriteString(escaped)
			b.WriteString(`</mark>`)
			continue
		}
		b.WriteString(escaped)
	}

	return template.HTML(highlightPolicy.Sanitize(b.String()))
}
