// Package pdf analyses PDF documents.
//
// Text extraction shells out to the poppler pdftotext utility rather
// than parsing the PDF object graph in-process. Page boundaries are
// preserved as form feeds in the extracted text.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/analyzers"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// CommandRunner executes an external command with the given stdin.
// Abstracted for testing.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Analyzer handles PDF files.
type Analyzer struct {
	runner   CommandRunner
	splitter *analyzers.Splitter
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithRunner overrides the command runner. Used in tests.
func WithRunner(r CommandRunner) Option {
	return func(a *Analyzer) { a.runner = r }
}

// WithSplitter overrides the default text splitter.
func WithSplitter(s *analyzers.Splitter) Option {
	return func(a *Analyzer) { a.splitter = s }
}

// New creates a PDF analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		runner:   execRunner{},
		splitter: analyzers.NewSplitter(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileType returns the variant this analyzer handles.
func (a *Analyzer) FileType() domain.FileType {
	return domain.FileTypePDF
}

// Extensions returns the extensions this analyzer claims.
func (a *Analyzer) Extensions() []string {
	return []string{".pdf"}
}

// Analyze extracts page text via pdftotext, detects section structure
// and chunks by semantic boundaries within pages.
func (a *Analyzer) Analyze(ctx context.Context, _ string, content []byte) (*driven.Extraction, error) {
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrCorruptInput)
	}

	out, err := a.runner.Run(ctx, content, "pdftotext", "-layout", "-", "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext: %v", domain.ErrCorruptInput, err)
	}

	// pdftotext separates pages with form feeds.
	pages := strings.Split(string(out), "\f")
	var nonEmpty []string
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	if len(nonEmpty) == 0 {
		return nil, fmt.Errorf("%w: no extractable text", domain.ErrCorruptInput)
	}

	fullText := strings.Join(nonEmpty, "\n")
	hasTables, hasFigures, hasRefs := analyzers.DetectLayoutMarkers(fullText)
	structure := domain.Structure{
		Pages:         len(nonEmpty),
		Headings:      analyzers.ExtractHeadings(fullText),
		HasTables:     hasTables,
		HasFigures:    hasFigures,
		HasReferences: hasRefs,
		WordCount:     len(strings.Fields(fullText)),
	}

	var chunks []driven.ChunkDraft
	for pageNum, page := range nonEmpty {
		for _, piece := range a.splitter.Split(page) {
			chunks = append(chunks, driven.ChunkDraft{
				Text:     piece,
				Metadata: map[string]any{"page": pageNum + 1},
			})
		}
	}

	return &driven.Extraction{
		Structure: structure,
		Chunks:    chunks,
		FullText:  fullText,
	}, nil
}
