package record

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestAnalyzeFlattensNestedRecord(t *testing.T) {
	doc := `{
		"server": {"host": "localhost", "port": 8080},
		"debug": true,
		"tags": ["alpha", "beta"]
	}`

	extraction, err := New().Analyze(context.Background(), "config.json", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 3, extraction.Structure.KeyCount)
	assert.Equal(t, 2, extraction.Structure.NestingDepth)

	assert.Contains(t, extraction.FullText, "server.host = localhost")
	assert.Contains(t, extraction.FullText, "server.port = 8080")
	assert.Contains(t, extraction.FullText, "debug = true")
	assert.Contains(t, extraction.FullText, "tags[0] = alpha")
	assert.Contains(t, extraction.FullText, "tags[1] = beta")
}

func TestAnalyzeTopLevelKeysSorted(t *testing.T) {
	doc := `{"zebra": 1, "apple": 2, "mango": 3}`

	extraction, err := New().Analyze(context.Background(), "keys.json", []byte(doc))
	require.NoError(t, err)

	lines := strings.Split(extraction.FullText, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "apple = 2", lines[0])
	assert.Equal(t, "mango = 3", lines[1])
	assert.Equal(t, "zebra = 1", lines[2])
}

func TestAnalyzeGroupsSubtreesUnderBudget(t *testing.T) {
	// Each subtree serialises to roughly 620 characters, so a 1500
	// character budget fits two subtrees per chunk.
	var doc strings.Builder
	doc.WriteString("{")
	for i := 0; i < 6; i++ {
		if i > 0 {
			doc.WriteString(",")
		}
		fmt.Fprintf(&doc, "%q: %q", fmt.Sprintf("entry%d", i), strings.Repeat("x", 600))
	}
	doc.WriteString("}")

	extraction, err := New().Analyze(context.Background(), "big.json", []byte(doc.String()))
	require.NoError(t, err)

	require.Len(t, extraction.Chunks, 3)
	assert.Equal(t, "entry0,entry1", extraction.Chunks[0].Metadata["keys"])
	assert.Equal(t, "entry2,entry3", extraction.Chunks[1].Metadata["keys"])
	assert.Equal(t, "entry4,entry5", extraction.Chunks[2].Metadata["keys"])
}

func TestAnalyzeOversizedSubtreeBecomesOneChunk(t *testing.T) {
	doc := fmt.Sprintf(`{"small": 1, "huge": %q, "tiny": 2}`, strings.Repeat("y", 4000))

	extraction, err := New().Analyze(context.Background(), "huge.json", []byte(doc))
	require.NoError(t, err)

	require.Len(t, extraction.Chunks, 2)
	assert.Equal(t, "huge", extraction.Chunks[0].Metadata["keys"])
	assert.Equal(t, "small,tiny", extraction.Chunks[1].Metadata["keys"])
}

func TestAnalyzeArrayRoot(t *testing.T) {
	doc := `[{"name": "first"}, {"name": "second"}]`

	extraction, err := New().Analyze(context.Background(), "list.json", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 2, extraction.Structure.KeyCount)
	assert.Contains(t, extraction.FullText, "[0].name = first")
	assert.Contains(t, extraction.FullText, "[1].name = second")
}

func TestAnalyzeScalarRoot(t *testing.T) {
	extraction, err := New().Analyze(context.Background(), "scalar.json", []byte(`42`))
	require.NoError(t, err)
	assert.Equal(t, "value = 42", extraction.FullText)
}

func TestAnalyzeEmptyContainers(t *testing.T) {
	doc := `{"empty_map": {}, "empty_list": []}`

	extraction, err := New().Analyze(context.Background(), "empty.json", []byte(doc))
	require.NoError(t, err)
	assert.Contains(t, extraction.FullText, "empty_map = {}")
	assert.Contains(t, extraction.FullText, "empty_list = []")
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	_, err := New().Analyze(context.Background(), "bad.json", []byte(`{"unterminated`))
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeRejectsEmptyObject(t *testing.T) {
	_, err := New().Analyze(context.Background(), "empty.json", []byte(`{}`))
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestNestingDepth(t *testing.T) {
	doc := `{"a": {"b": {"c": {"d": 1}}}}`
	extraction, err := New().Analyze(context.Background(), "deep.json", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 4, extraction.Structure.NestingDepth)
}
