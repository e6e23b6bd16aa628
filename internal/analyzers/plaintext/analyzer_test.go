package plaintext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestAnalyzeExtractsStructureAndChunks(t *testing.T) {
	content := strings.Join([]string{
		"Annual Review",
		"",
		"The first section covers revenue and is long enough to count as a paragraph in the statistics.",
		"",
		"Table 1: revenue by region.",
		"",
		"See Figure 2 for the trend line over the last four quarters of trading.",
	}, "\n")

	extraction, err := New().Analyze(context.Background(), "review.txt", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, 1, extraction.Structure.Pages)
	assert.Contains(t, extraction.Structure.Headings, "Annual Review")
	assert.True(t, extraction.Structure.HasTables)
	assert.True(t, extraction.Structure.HasFigures)
	assert.False(t, extraction.Structure.HasReferences)
	assert.Equal(t, len(strings.Fields(strings.TrimSpace(content))), extraction.Structure.WordCount)

	require.NotEmpty(t, extraction.Chunks)
	for _, chunk := range extraction.Chunks {
		assert.NotEmpty(t, chunk.Text)
	}
	assert.Equal(t, strings.TrimSpace(content), extraction.FullText)
}

func TestAnalyzeRejectsInvalidUTF8(t *testing.T) {
	_, err := New().Analyze(context.Background(), "broken.txt", []byte{0xff, 0xfe, 0x41})
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeSplitsLongText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("Every sentence in this file describes one aspect of the quarterly budget. ")
	}

	extraction, err := New().Analyze(context.Background(), "budget.txt", []byte(b.String()))
	require.NoError(t, err)
	assert.Greater(t, len(extraction.Chunks), 1)
}

func TestExtensions(t *testing.T) {
	a := New()
	assert.Equal(t, domain.FileTypeText, a.FileType())
	assert.ElementsMatch(t, []string{".txt", ".md", ".log"}, a.Extensions())
}
