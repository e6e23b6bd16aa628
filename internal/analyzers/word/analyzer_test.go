package word

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// buildDocx wraps a document.xml body in a minimal DOCX archive.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0"?><document><body>` + body + `</body></document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func para(text string) string {
	return fmt.Sprintf(`<p><r><t>%s</t></r></p>`, text)
}

func headingPara(text string) string {
	return fmt.Sprintf(`<p><pPr><pStyle val="Heading1"/></pPr><r><t>%s</t></r></p>`, text)
}

func listPara(text string) string {
	return fmt.Sprintf(`<p><pPr><numPr/></pPr><r><t>%s</t></r></p>`, text)
}

func TestAnalyzeChunksByHeadingSections(t *testing.T) {
	content := buildDocx(t,
		headingPara("Introduction")+
			para("Opening remarks.")+
			para("Scope of the study.")+
			headingPara("Methods")+
			para("Sampling procedure."),
	)

	extraction, err := New().Analyze(context.Background(), "study.docx", content)
	require.NoError(t, err)

	assert.Equal(t, []string{"Introduction", "Methods"}, extraction.Structure.Headings)

	require.Len(t, extraction.Chunks, 2)
	assert.Equal(t, "Introduction\nOpening remarks.\nScope of the study.", extraction.Chunks[0].Text)
	assert.Equal(t, "Introduction", extraction.Chunks[0].Metadata["section"])
	assert.Equal(t, "Methods\nSampling procedure.", extraction.Chunks[1].Text)
	assert.Equal(t, "Methods", extraction.Chunks[1].Metadata["section"])
}

func TestAnalyzePreambleBeforeFirstHeading(t *testing.T) {
	content := buildDocx(t,
		para("Abstract text before any heading.")+
			headingPara("Findings")+
			para("Detail."),
	)

	extraction, err := New().Analyze(context.Background(), "paper.docx", content)
	require.NoError(t, err)

	require.Len(t, extraction.Chunks, 2)
	assert.Equal(t, "Abstract text before any heading.", extraction.Chunks[0].Text)
	assert.Equal(t, "", extraction.Chunks[0].Metadata["section"])
	assert.Equal(t, "Findings\nDetail.", extraction.Chunks[1].Text)
}

func TestAnalyzeFallsBackToParagraphWindows(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 7; i++ {
		body.WriteString(para(fmt.Sprintf("Paragraph number %d.", i)))
	}

	content := buildDocx(t, body.String())
	extraction, err := New(WithParagraphWindow(3)).Analyze(context.Background(), "notes.docx", content)
	require.NoError(t, err)

	assert.Empty(t, extraction.Structure.Headings)
	require.Len(t, extraction.Chunks, 3)
	assert.Equal(t, "Paragraph number 0.\nParagraph number 1.\nParagraph number 2.", extraction.Chunks[0].Text)
	assert.Equal(t, "Paragraph number 6.", extraction.Chunks[2].Text)
}

func TestAnalyzeDetectsLists(t *testing.T) {
	content := buildDocx(t, para("Intro.")+listPara("first item")+listPara("second item"))

	extraction, err := New().Analyze(context.Background(), "list.docx", content)
	require.NoError(t, err)
	assert.True(t, extraction.Structure.HasTables)
}

func TestAnalyzeJoinsRunsWithinParagraph(t *testing.T) {
	content := buildDocx(t, `<p><r><t>split </t></r><r><t>across </t></r><r><t>runs</t></r></p>`)

	extraction, err := New().Analyze(context.Background(), "runs.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "split across runs", extraction.FullText)
	assert.Equal(t, 3, extraction.Structure.WordCount)
}

func TestAnalyzeSkipsEmptyParagraphs(t *testing.T) {
	content := buildDocx(t, para("Kept.")+`<p><r><t>   </t></r></p>`+para("Also kept."))

	extraction, err := New().Analyze(context.Background(), "gaps.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "Kept.\nAlso kept.", extraction.FullText)
}

func TestAnalyzeRejectsNonZip(t *testing.T) {
	_, err := New().Analyze(context.Background(), "fake.docx", []byte("not an archive"))
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeRejectsMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<styles/>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = New().Analyze(context.Background(), "hollow.docx", buf.Bytes())
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeRejectsEmptyDocument(t *testing.T) {
	content := buildDocx(t, "")
	_, err := New().Analyze(context.Background(), "blank.docx", content)
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}
