// Package spreadsheet analyses XLSX workbooks.
//
// XLSX files are ZIP archives of XML parts. Extraction reads the shared
// string table and the first worksheet's cell grid, then hands rows to
// the same window chunking used for tabular files.
package spreadsheet

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/analyzers/tabular"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Analyzer handles XLSX workbooks.
type Analyzer struct {
	rowWindow int
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithRowWindow sets the number of data rows per chunk.
func WithRowWindow(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.rowWindow = n
		}
	}
}

// New creates a spreadsheet analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{rowWindow: tabular.DefaultRowWindow}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileType returns the variant this analyzer handles.
func (a *Analyzer) FileType() domain.FileType {
	return domain.FileTypeSpreadsheet
}

// Extensions returns the extensions this analyzer claims.
func (a *Analyzer) Extensions() []string {
	return []string{".xlsx"}
}

// Analyze extracts the first worksheet's rows and chunks by row windows
// with the header repeated per chunk.
func (a *Analyzer) Analyze(_ context.Context, _ string, content []byte) (*driven.Extraction, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", domain.ErrCorruptInput, err)
	}

	shared, err := readSharedStrings(reader)
	if err != nil {
		return nil, err
	}

	sheets, rows, err := readFirstSheet(reader, shared)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty worksheet", domain.ErrCorruptInput)
	}

	header := rows[0]
	data := rows[1:]

	structure := domain.Structure{
		Pages:    sheets,
		Headings: header,
		Columns:  tabular.ColumnStats(header, data),
		RowCount: len(data),
	}

	return &driven.Extraction{
		Structure: structure,
		Chunks:    tabular.WindowRows(header, data, a.rowWindow),
		FullText:  tabular.RenderRows(header, data),
	}, nil
}

// sharedStrings mirrors xl/sharedStrings.xml.
type sharedStrings struct {
	Items []sharedItem `xml:"si"`
}

type sharedItem struct {
	Text string     `xml:"t"`
	Runs []innerRun `xml:"r"`
}

type innerRun struct {
	Text string `xml:"t"`
}

func (i sharedItem) value() string {
	if len(i.Runs) == 0 {
		return i.Text
	}
	var b strings.Builder
	for _, r := range i.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// worksheet mirrors the sheetData section of a worksheet part.
type worksheet struct {
	Rows []sheetRow `xml:"sheetData>row"`
}

type sheetRow struct {
	Cells []sheetCell `xml:"c"`
}

type sheetCell struct {
	Ref    string `xml:"r,attr"`
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

func readSharedStrings(reader *zip.Reader) ([]string, error) {
	data, err := readPart(reader, "xl/sharedStrings.xml")
	if err != nil {
		return nil, err
	}
	if data == nil {
		// Workbooks without string cells omit the part.
		return nil, nil
	}
	var sst sharedStrings
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, fmt.Errorf("%w: shared strings: %v", domain.ErrCorruptInput, err)
	}
	values := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		values[i] = item.value()
	}
	return values, nil
}

// readFirstSheet returns the sheet count and the first worksheet as a
// dense row grid.
func readFirstSheet(reader *zip.Reader, shared []string) (int, [][]string, error) {
	var names []string
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return 0, nil, fmt.Errorf("%w: no worksheets", domain.ErrCorruptInput)
	}
	sort.Strings(names)

	data, err := readPart(reader, names[0])
	if err != nil || data == nil {
		return 0, nil, fmt.Errorf("%w: worksheet unreadable: %v", domain.ErrCorruptInput, err)
	}

	var ws worksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return 0, nil, fmt.Errorf("%w: worksheet: %v", domain.ErrCorruptInput, err)
	}

	rows := make([][]string, 0, len(ws.Rows))
	for _, row := range ws.Rows {
		var cells []string
		for _, cell := range row.Cells {
			idx := columnIndex(cell.Ref)
			for len(cells) <= idx {
				cells = append(cells, "")
			}
			cells[idx] = cellValue(cell, shared)
		}
		rows = append(rows, cells)
	}
	return len(names), rows, nil
}

func cellValue(cell sheetCell, shared []string) string {
	switch cell.Type {
	case "s":
		idx, err := strconv.Atoi(cell.Value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return cell.Inline
	default:
		return cell.Value
	}
}

// columnIndex converts a cell reference like "BC12" to a zero-based
// column index.
func columnIndex(ref string) int {
	idx := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		idx = idx*26 + int(r-'A') + 1
	}
	if idx == 0 {
		return 0
	}
	return idx - 1
}

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, name, err)
		}
		return data, nil
	}
	return nil, nil
}
