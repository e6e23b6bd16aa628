// Package plaintext analyses plain text documents.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/corpora-labs/corpora-cli/internal/analyzers"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Analyzer handles plain text files.
type Analyzer struct {
	splitter *analyzers.Splitter
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithSplitter overrides the default text splitter.
func WithSplitter(s *analyzers.Splitter) Option {
	return func(a *Analyzer) { a.splitter = s }
}

// New creates a plain text analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{splitter: analyzers.NewSplitter()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileType returns the variant this analyzer handles.
func (a *Analyzer) FileType() domain.FileType {
	return domain.FileTypeText
}

// Extensions returns the extensions this analyzer claims.
func (a *Analyzer) Extensions() []string {
	return []string{".txt", ".md", ".log"}
}

// Analyze extracts paragraphs and headings from plain text and chunks
// by semantic boundaries.
func (a *Analyzer) Analyze(_ context.Context, _ string, content []byte) (*driven.Extraction, error) {
	if !utf8.Valid(content) {
		return nil, domain.ErrCorruptInput
	}
	text := strings.TrimSpace(string(content))

	hasTables, hasFigures, hasRefs := analyzers.DetectLayoutMarkers(text)
	structure := domain.Structure{
		Pages:         1,
		Headings:      analyzers.ExtractHeadings(text),
		HasTables:     hasTables,
		HasFigures:    hasFigures,
		HasReferences: hasRefs,
		WordCount:     len(strings.Fields(text)),
	}

	pieces := a.splitter.Split(text)
	chunks := make([]driven.ChunkDraft, 0, len(pieces))
	for _, piece := range pieces {
		chunks = append(chunks, driven.ChunkDraft{Text: piece})
	}

	return &driven.Extraction{
		Structure: structure,
		Chunks:    chunks,
		FullText:  text,
	}, nil
}
