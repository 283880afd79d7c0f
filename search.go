package nomendex

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TitleLine is the line number used for matches against a unit's identifier.
const TitleLine = 0

// Line is a single line of searchable content. Numbers start at 1.
type Line struct {
	Number int
	Text   string
}

// SearchableUnit is anything that can be searched: an identifier (usually a file name),
// an optional folder used for grouping, and the content lines.
type SearchableUnit struct {
	ID         string
	FolderPath string
	Lines      []Line
}

// NewSearchableUnit builds a unit from raw content. Line endings are normalized,
// the text is put into Unicode NFC form and lines are numbered from 1.
func NewSearchableUnit(id, folderPath, content string) SearchableUnit {
	unit := SearchableUnit{
		ID:         norm.NFC.String(id),
		FolderPath: folderPath,
	}

	if content == "" {
		return unit
	}

	lines := SplitLines(norm.NFC.String(content))
	unit.Lines = make([]Line, len(lines))
	for i, line := range lines {
		unit.Lines[i] = Line{Number: i + 1, Text: line}
	}

	return unit
}

// MatchSpan is a single match location. Text holds the line the offsets refer to;
// for title matches (Line == TitleLine) it is the unit's identifier.
type MatchSpan struct {
	Line  int
	Start int
	End   int
	Text  string
}

// Span returns the offsets of the match.
func (m MatchSpan) Span() Span {
	return Span{Start: m.Start, End: m.End}
}

// IsTitle reports whether the match is against the unit's identifier.
func (m MatchSpan) IsTitle() bool {
	return m.Line == TitleLine
}

// SearchResult holds every match found in a single unit, title matches first
// and then content matches top to bottom.
type SearchResult struct {
	ID         string
	FolderPath string
	Matches    []MatchSpan
}

// TitleMatches returns the matches against the identifier.
func (r SearchResult) TitleMatches() []MatchSpan {
	var matches []MatchSpan
	for _, m := range r.Matches {
		if m.IsTitle() {
			matches = append(matches, m)
		}
	}
	return matches
}

// ContentMatches returns the matches against content lines.
func (r SearchResult) ContentMatches() []MatchSpan {
	var matches []MatchSpan
	for _, m := range r.Matches {
		if !m.IsTitle() {
			matches = append(matches, m)
		}
	}
	return matches
}

// Preview returns at most limit content matches and the number left out.
func (r SearchResult) Preview(limit int) ([]MatchSpan, int) {
	content := r.ContentMatches()
	if limit < 0 || len(content) <= limit {
		return content, 0
	}
	return content[:limit], len(content) - limit
}

// Search finds query in every unit and returns one result per unit with at least one match,
// in the same order as units. An empty or blank query returns nothing. The query is put into
// NFC form, the same as units built by NewSearchableUnit.
func Search(query string, units []SearchableUnit) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	query = norm.NFC.String(query)

	var results []SearchResult
	for _, unit := range units {
		if matches := searchUnit(query, unit); len(matches) > 0 {
			results = append(results, SearchResult{
				ID:         unit.ID,
				FolderPath: unit.FolderPath,
				Matches:    matches,
			})
		}
	}

	return results
}

func searchUnit(query string, unit SearchableUnit) []MatchSpan {
	var matches []MatchSpan
	for _, span := range FindSpans(query, unit.ID) {
		matches = append(matches, MatchSpan{
			Line:  TitleLine,
			Start: span.Start,
			End:   span.End,
			Text:  unit.ID,
		})
	}

	lines := unit.Lines
	if !slices.IsSortedFunc(lines, compareLines) {
		lines = slices.Clone(lines)
		slices.SortStableFunc(lines, compareLines)
	}

	for _, line := range lines {
		if line.Number <= TitleLine {
			continue
		}
		for _, span := range FindSpans(query, line.Text) {
			matches = append(matches, MatchSpan{
				Line:  line.Number,
				Start: span.Start,
				End:   span.End,
				Text:  line.Text,
			})
		}
	}

	return matches
}

func compareLines(a, b Line) int {
	return a.Number - b.Number
}
