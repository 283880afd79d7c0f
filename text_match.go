package nomendex

import (
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) within a line of text.
type Span struct {
	Start int
	End   int
}

// foldRune maps r to the smallest rune in its simple case folding orbit.
// The mapping is one rune to one rune and does not depend on locale.
func foldRune(r rune) rune {
	folded := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < folded {
			folded = f
		}
	}
	return folded
}

// foldAt folds r, the rune decoded at byte i of s. A byte that is not valid UTF-8 maps to a
// negative value unique to that byte, so it only ever matches the same raw byte.
func foldAt(s string, i int, r rune) rune {
	if r == utf8.RuneError {
		if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
			return -1 - rune(s[i])
		}
	}
	return foldRune(r)
}

// foldRunes decodes s into case-folded runes. If offsets is true it also returns
// the byte offset of each rune in s, with a trailing entry equal to len(s).
func foldRunes(s string, offsets bool) ([]rune, []int) {
	runes := make([]rune, 0, utf8.RuneCountInString(s))
	var pos []int
	if offsets {
		pos = make([]int, 0, cap(runes)+1)
	}

	for i, r := range s {
		runes = append(runes, foldAt(s, i, r))
		if offsets {
			pos = append(pos, i)
		}
	}

	if offsets {
		pos = append(pos, len(s))
	}

	return runes, pos
}

// FindSpans returns every non-overlapping, case-insensitive occurrence of query in text,
// scanning left to right. Matching compares whole runes, and the returned offsets are byte
// offsets into text that always fall on rune boundaries. An empty query never matches.
func FindSpans(query, text string) []Span {
	if query == "" || text == "" {
		return nil
	}

	q, _ := foldRunes(query, false)
	t, pos := foldRunes(text, true)
	if len(q) > len(t) {
		return nil
	}

	var spans []Span
	for i := 0; i <= len(t)-len(q); {
		if hasRunePrefix(t[i:], q) {
			spans = append(spans, Span{Start: pos[i], End: pos[i+len(q)]})
			i += len(q)
			continue
		}
		i++
	}

	return spans
}

func hasRunePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

// IsSubsequence reports whether the runes of query appear in text in the same order,
// ignoring case. An empty query is a subsequence of every text.
func IsSubsequence(query, text string) bool {
	if query == "" {
		return true
	}

	q, _ := foldRunes(query, false)
	qi := 0
	for i, r := range text {
		if foldAt(text, i, r) == q[qi] {
			qi++
			if qi == len(q) {
				return true
			}
		}
	}

	return false
}
