package analyzers

import (
	"fmt"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Summary length limits.
const (
	maxSummaryLength  = 2000
	longDocumentLimit = 10000
	maxKeySections    = 5
	minSectionLength  = 100
)

// BuildSummary produces the document-level synopsis: the leading
// sections of the text, followed by detected headings and type-specific
// highlights. The synopsis is what gets the document-level embedding.
func BuildSummary(fullText string, structure domain.Structure) string {
	var b strings.Builder
	b.WriteString(summariseText(fullText))

	if len(structure.Headings) > 0 {
		b.WriteString("\n\nHeadings: ")
		b.WriteString(strings.Join(structure.Headings, "; "))
	}
	if highlights := structureHighlights(structure); highlights != "" {
		b.WriteString("\n")
		b.WriteString(highlights)
	}
	return b.String()
}

// summariseText keeps the leading sections of long documents and the
// whole text of short ones, capped at maxSummaryLength.
func summariseText(fullText string) string {
	text := fullText
	if len(text) > longDocumentLimit {
		sections := splitSections(text)
		if len(sections) > maxKeySections {
			sections = sections[:maxKeySections]
		}
		text = strings.Join(sections, "\n")
	}
	if len(text) > maxSummaryLength {
		text = text[:maxSummaryLength] + "..."
	}
	return text
}

// splitSections breaks text at paragraph boundaries, dropping very
// short fragments.
func splitSections(text string) []string {
	var sections []string
	for _, s := range strings.Split(text, "\n\n") {
		s = strings.TrimSpace(s)
		if len(s) > minSectionLength {
			sections = append(sections, s)
		}
	}
	return sections
}

// structureHighlights renders type-specific stats as a summary line.
func structureHighlights(s domain.Structure) string {
	var parts []string
	if s.RowCount > 0 {
		parts = append(parts, fmt.Sprintf("%d rows, %d columns", s.RowCount, len(s.Columns)))
	}
	for _, col := range s.Columns {
		if col.Kind == "numeric" {
			parts = append(parts, fmt.Sprintf("%s: min %.4g, max %.4g, mean %.4g", col.Name, col.Min, col.Max, col.Mean))
		}
	}
	if s.KeyCount > 0 {
		parts = append(parts, fmt.Sprintf("%d top-level keys, nesting depth %d", s.KeyCount, s.NestingDepth))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Stats: " + strings.Join(parts, "; ")
}
