package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHeadings(t *testing.T) {
	text := "Quarterly Report\n" +
		"This paragraph describes the quarter in ordinary prose and ends with a period.\n" +
		"METHODS AND DATA\n" +
		"more lowercase prose here that is clearly not a heading at all.\n" +
		"Results Overview\n"

	headings := ExtractHeadings(text)
	assert.Equal(t, []string{"Quarterly Report", "METHODS AND DATA", "Results Overview"}, headings)
}

func TestExtractHeadingsRejectsSentences(t *testing.T) {
	assert.Empty(t, ExtractHeadings("This Line Ends With A Period."))
	assert.Empty(t, ExtractHeadings("tiny"))
	assert.Empty(t, ExtractHeadings("One Two Three Four Five Six Seven Eight Nine Ten Eleven"))
}

func TestExtractHeadingsCapped(t *testing.T) {
	text := ""
	for i := 0; i < 20; i++ {
		text += "Section Heading Here\n"
	}
	assert.Len(t, ExtractHeadings(text), MaxHeadings)
}

func TestDetectLayoutMarkers(t *testing.T) {
	tables, figures, refs := DetectLayoutMarkers("See Table 1 and Figure 2. References follow.")
	assert.True(t, tables)
	assert.True(t, figures)
	assert.True(t, refs)

	tables, figures, refs = DetectLayoutMarkers("plain prose only")
	assert.False(t, tables)
	assert.False(t, figures)
	assert.False(t, refs)
}

func TestCountParagraphs(t *testing.T) {
	text := "This first paragraph is long enough to count as substantial prose.\n\n" +
		"short\n\n" +
		"This second paragraph is also long enough to count as substantial."
	assert.Equal(t, 2, CountParagraphs(text))
}
