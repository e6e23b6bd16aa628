// Package tabular analyses delimiter-separated tabular files.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// DefaultRowWindow is the number of data rows per chunk.
const DefaultRowWindow = 20

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Analyzer handles CSV and TSV files.
// Chunks are fixed row-count windows; the header row is repeated in
// every chunk so each chunk is self-describing, and a row is never
// split across two chunks.
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

// New creates a tabular analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{rowWindow: DefaultRowWindow}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileType returns the variant this analyzer handles.
func (a *Analyzer) FileType() domain.FileType {
	return domain.FileTypeTabular
}

// Extensions returns the extensions this analyzer claims.
func (a *Analyzer) Extensions() []string {
	return []string{".csv", ".tsv"}
}

// Analyze parses rows with a header row, computes column statistics
// and chunks by row windows.
func (a *Analyzer) Analyze(_ context.Context, path string, content []byte) (*driven.Extraction, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptInput, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty table", domain.ErrCorruptInput)
	}

	header := records[0]
	rows := records[1:]

	structure := domain.Structure{
		Pages:    1,
		Headings: header,
		Columns:  ColumnStats(header, rows),
		RowCount: len(rows),
	}

	chunks := WindowRows(header, rows, a.rowWindow)
	return &driven.Extraction{
		Structure: structure,
		Chunks:    chunks,
		FullText:  RenderRows(header, rows),
	}, nil
}

// WindowRows groups data rows into fixed-size windows, each prefixed
// with the header row. Shared with the spreadsheet analyzer.
func WindowRows(header []string, rows [][]string, window int) []driven.ChunkDraft {
	if len(rows) == 0 {
		return []driven.ChunkDraft{{Text: joinRow(header)}}
	}

	var chunks []driven.ChunkDraft
	for start := 0; start < len(rows); start += window {
		end := start + window
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, driven.ChunkDraft{
			Text: RenderRows(header, rows[start:end]),
			Metadata: map[string]any{
				"row_start": start + 1,
				"row_end":   end,
			},
		})
	}
	return chunks
}

// ColumnStats computes per-column data types and basic statistics:
// min/max/mean for numeric columns, distinct counts for categorical.
func ColumnStats(header []string, rows [][]string) []domain.ColumnInfo {
	columns := make([]domain.ColumnInfo, len(header))
	for i, name := range header {
		columns[i] = analyseColumn(name, i, rows)
	}
	return columns
}

func analyseColumn(name string, idx int, rows [][]string) domain.ColumnInfo {
	var (
		values   []float64
		distinct = make(map[string]struct{})
		numeric  = true
	)
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		distinct[cell] = struct{}{}
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			values = append(values, v)
		} else {
			numeric = false
		}
	}

	if numeric && len(values) > 0 {
		col := domain.ColumnInfo{Name: name, Kind: "numeric"}
		col.Min, col.Max = values[0], values[0]
		sum := 0.0
		for _, v := range values {
			if v < col.Min {
				col.Min = v
			}
			if v > col.Max {
				col.Max = v
			}
			sum += v
		}
		col.Mean = sum / float64(len(values))
		return col
	}

	return domain.ColumnInfo{
		Name:          name,
		Kind:          "categorical",
		DistinctCount: len(distinct),
	}
}

// RenderRows serialises a header and rows as comma-joined lines.
func RenderRows(header []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinRow(header))
	for _, row := range rows {
		lines = append(lines, joinRow(row))
	}
	return strings.Join(lines, "\n")
}

func joinRow(row []string) string {
	return strings.Join(row, ", ")
}
