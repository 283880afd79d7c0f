package nomendex

import "strings"

const frontmatterDelimiter = "---"

type FrontmatterBounds struct {
	Start int
	End   int
	Found bool
}

// findFrontmatter finds the bounds of the frontmatter section in the given lines.
// End is the index of the first line after the closing delimiter.
func findFrontmatter(lines []string) FrontmatterBounds {
	// Skip any blank lines at the start
	startIdx := 0
	for startIdx < len(lines) && strings.TrimSpace(lines[startIdx]) == "" {
		startIdx++
	}

	if startIdx >= len(lines) || strings.TrimSpace(lines[startIdx]) != frontmatterDelimiter {
		return FrontmatterBounds{}
	}

	for i := startIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			return FrontmatterBounds{
				Start: startIdx,
				End:   i + 1,
				Found: true,
			}
		}
	}

	// No closing delimiter, so there is no frontmatter
	return FrontmatterBounds{}
}

// splitFrontmatter returns the frontmatter block (delimiters included) and the body that follows it.
// Leading blank lines of the body are dropped.
func splitFrontmatter(content string) (frontmatter, body string) {
	lines := SplitLines(content)
	bounds := findFrontmatter(lines)
	if !bounds.Found {
		return "", content
	}

	frontmatter = strings.Join(lines[bounds.Start:bounds.End], "\n")
	rest := lines[bounds.End:]
	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}

	return frontmatter, strings.Join(rest, "\n")
}
