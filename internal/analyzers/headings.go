package analyzers

import "strings"

// MaxHeadings bounds the number of headings kept per document.
const MaxHeadings = 10

// ExtractHeadings detects section headers in prose by layout
// heuristics: short title-cased or upper-cased lines that do not end
// with a full stop.
func ExtractHeadings(text string) []string {
	var headings []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !isHeadingLine(line) {
			continue
		}
		headings = append(headings, line)
		if len(headings) >= MaxHeadings {
			break
		}
	}
	return headings
}

func isHeadingLine(line string) bool {
	if len(line) <= 5 || len(line) >= 100 {
		return false
	}
	if strings.HasSuffix(line, ".") {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 10 {
		return false
	}
	return isUpper(line) || isTitle(words)
}

func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func isTitle(words []string) bool {
	for _, w := range words {
		r := rune(w[0])
		if r >= 'a' && r <= 'z' {
			return false
		}
	}
	return true
}

// DetectLayoutMarkers scans text for table, figure and reference
// markers by keyword and layout heuristics.
func DetectLayoutMarkers(text string) (hasTables, hasFigures, hasReferences bool) {
	lower := strings.ToLower(text)
	hasTables = strings.Contains(lower, "table") || strings.Contains(text, "|")
	hasFigures = strings.Contains(lower, "figure") || strings.Contains(lower, "fig.")
	hasReferences = strings.Contains(lower, "references") || strings.Contains(lower, "bibliography")
	return hasTables, hasFigures, hasReferences
}

// CountParagraphs counts substantial paragraphs in prose.
func CountParagraphs(text string) int {
	count := 0
	for _, p := range strings.Split(text, "\n\n") {
		if len(strings.TrimSpace(p)) > 50 {
			count++
		}
	}
	return count
}
