package spreadsheet

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// buildWorkbook assembles a minimal XLSX archive from raw XML parts.
func buildWorkbook(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sharedStringsXML = `<?xml version="1.0"?>
<sst><si><t>city</t></si><si><t>population</t></si><si><t>lyon</t></si><si><r><t>par</t></r><r><t>is</t></r></si></sst>`

const sheetXML = `<?xml version="1.0"?>
<worksheet><sheetData>
<row><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
<row><c r="A2" t="s"><v>2</v></c><c r="B2"><v>513000</v></c></row>
<row><c r="A3" t="s"><v>3</v></c><c r="B3"><v>2161000</v></c></row>
</sheetData></worksheet>`

func TestAnalyzeReadsFirstWorksheet(t *testing.T) {
	content := buildWorkbook(t, map[string]string{
		"xl/sharedStrings.xml":     sharedStringsXML,
		"xl/worksheets/sheet1.xml": sheetXML,
	})

	extraction, err := New().Analyze(context.Background(), "cities.xlsx", content)
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "population"}, extraction.Structure.Headings)
	assert.Equal(t, 2, extraction.Structure.RowCount)
	assert.Equal(t, 1, extraction.Structure.Pages)

	// The run-fragmented shared string reassembles to "paris".
	assert.Contains(t, extraction.FullText, "paris, 2161000")
	assert.Contains(t, extraction.FullText, "lyon, 513000")

	require.Len(t, extraction.Structure.Columns, 2)
	assert.Equal(t, "categorical", extraction.Structure.Columns[0].Kind)
	assert.Equal(t, "numeric", extraction.Structure.Columns[1].Kind)
}

func TestAnalyzeChunksByRowWindow(t *testing.T) {
	sheet := `<?xml version="1.0"?><worksheet><sheetData>
<row><c r="A1" t="inlineStr"><is><t>value</t></is></c></row>`
	for i := 0; i < 5; i++ {
		sheet += `<row><c t="inlineStr"><is><t>row</t></is></c></row>`
	}
	sheet += `</sheetData></worksheet>`

	content := buildWorkbook(t, map[string]string{
		"xl/worksheets/sheet1.xml": sheet,
	})

	extraction, err := New(WithRowWindow(2)).Analyze(context.Background(), "rows.xlsx", content)
	require.NoError(t, err)
	require.Len(t, extraction.Chunks, 3)
	for _, chunk := range extraction.Chunks {
		assert.True(t, bytes.HasPrefix([]byte(chunk.Text), []byte("value")))
	}
}

func TestAnalyzeSparseCellsPadded(t *testing.T) {
	sheet := `<?xml version="1.0"?><worksheet><sheetData>
<row><c r="A1" t="inlineStr"><is><t>a</t></is></c><c r="C1" t="inlineStr"><is><t>c</t></is></c></row>
<row><c r="C2" t="inlineStr"><is><t>only</t></is></c></row>
</sheetData></worksheet>`

	content := buildWorkbook(t, map[string]string{
		"xl/worksheets/sheet1.xml": sheet,
	})

	extraction, err := New().Analyze(context.Background(), "sparse.xlsx", content)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "c"}, extraction.Structure.Headings)
	assert.Contains(t, extraction.FullText, ", , only")
}

func TestAnalyzeCountsSheets(t *testing.T) {
	content := buildWorkbook(t, map[string]string{
		"xl/worksheets/sheet1.xml": sheetXML,
		"xl/worksheets/sheet2.xml": sheetXML,
		"xl/sharedStrings.xml":     sharedStringsXML,
	})

	extraction, err := New().Analyze(context.Background(), "multi.xlsx", content)
	require.NoError(t, err)
	assert.Equal(t, 2, extraction.Structure.Pages)
}

func TestAnalyzeRejectsNonZip(t *testing.T) {
	_, err := New().Analyze(context.Background(), "fake.xlsx", []byte("not a workbook"))
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeRejectsMissingWorksheets(t *testing.T) {
	content := buildWorkbook(t, map[string]string{
		"xl/sharedStrings.xml": sharedStringsXML,
	})
	_, err := New().Analyze(context.Background(), "empty.xlsx", content)
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeRejectsEmptySheet(t *testing.T) {
	content := buildWorkbook(t, map[string]string{
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?><worksheet><sheetData></sheetData></worksheet>`,
	})
	_, err := New().Analyze(context.Background(), "blank.xlsx", content)
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}
