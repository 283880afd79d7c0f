package nomendex

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase turns a file or folder name into a display title, e.g. "work-notes" -> "Work Notes".
func TitleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// normalizeLineEndings normalizes line endings in a string.
func normalizeLineEndings(content string) string {
	// Replace Windows CRLF
	content = strings.ReplaceAll(content, "\r\n", "\n")

	// Replace legacy Mac CR
	content = strings.ReplaceAll(content, "\r", "\n")
	return content
}

// SplitLines splits a string into lines, normalizing line endings.
func SplitLines(content string) []string {
	return strings.Split(normalizeLineEndings(content), "\n")
}
