// Package word analyses DOCX documents.
//
// DOCX files are ZIP archives; text and paragraph styles come from
// word/document.xml. Chunking follows the heading hierarchy, falling
// back to paragraph-count windows when the document has no headings.
package word

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// DefaultParagraphWindow is the fallback chunk size in paragraphs for
// documents without headings.
const DefaultParagraphWindow = 8

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Analyzer handles DOCX files.
type Analyzer struct {
	paragraphWindow int
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithParagraphWindow sets the fallback paragraphs-per-chunk window.
func WithParagraphWindow(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.paragraphWindow = n
		}
	}
}

// New creates a DOCX analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{paragraphWindow: DefaultParagraphWindow}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileType returns the variant this analyzer handles.
func (a *Analyzer) FileType() domain.FileType {
	return domain.FileTypeWord
}

// Extensions returns the extensions this analyzer claims.
func (a *Analyzer) Extensions() []string {
	return []string{".docx"}
}

// Analyze extracts the heading hierarchy and paragraph text, then
// chunks by heading-bounded sections.
func (a *Analyzer) Analyze(_ context.Context, _ string, content []byte) (*driven.Extraction, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", domain.ErrCorruptInput, err)
	}

	paragraphs, err := extractParagraphs(reader)
	if err != nil {
		return nil, err
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("%w: no extractable text", domain.ErrCorruptInput)
	}

	var (
		headings []string
		hasLists bool
		allText  []string
	)
	for _, p := range paragraphs {
		allText = append(allText, p.text)
		if p.heading {
			headings = append(headings, p.text)
		}
		if p.listItem {
			hasLists = true
		}
	}
	fullText := strings.Join(allText, "\n")

	structure := domain.Structure{
		Pages:     1,
		Headings:  headings,
		HasTables: hasLists, // list structures surface as table-like markers
		WordCount: len(strings.Fields(fullText)),
	}

	var chunks []driven.ChunkDraft
	if len(headings) > 0 {
		chunks = chunkBySections(paragraphs)
	} else {
		chunks = chunkByWindows(paragraphs, a.paragraphWindow)
	}

	return &driven.Extraction{
		Structure: structure,
		Chunks:    chunks,
		FullText:  fullText,
	}, nil
}

// docParagraph is one paragraph with its extracted style flags.
type docParagraph struct {
	text     string
	heading  bool
	listItem bool
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
		NumProps *struct{} `xml:"numPr"`
	} `xml:"pPr"`
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []textXML `xml:"t"`
}

type textXML struct {
	Content string `xml:",chardata"`
}

func extractParagraphs(reader *zip.Reader) ([]docParagraph, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: document.xml: %v", domain.ErrCorruptInput, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: document.xml: %v", domain.ErrCorruptInput, err)
		}
		return parseDocumentXML(content)
	}
	return nil, fmt.Errorf("%w: missing word/document.xml", domain.ErrCorruptInput)
}

func parseDocumentXML(content []byte) ([]docParagraph, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: document.xml: %v", domain.ErrCorruptInput, err)
	}

	var paragraphs []docParagraph
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		paragraphs = append(paragraphs, docParagraph{
			text:     text,
			heading:  strings.HasPrefix(para.Props.Style.Val, "Heading"),
			listItem: para.Props.NumProps != nil,
		})
	}
	return paragraphs, nil
}

// chunkBySections groups paragraphs into heading-bounded sections.
// Each chunk starts with its heading so the chunk is self-describing.
func chunkBySections(paragraphs []docParagraph) []driven.ChunkDraft {
	var chunks []driven.ChunkDraft
	var section []string
	var heading string

	flush := func() {
		if len(section) == 0 && heading == "" {
			return
		}
		lines := section
		if heading != "" {
			lines = append([]string{heading}, section...)
		}
		chunks = append(chunks, driven.ChunkDraft{
			Text:     strings.Join(lines, "\n"),
			Metadata: map[string]any{"section": heading},
		})
		section = nil
	}

	for _, p := range paragraphs {
		if p.heading {
			flush()
			heading = p.text
			continue
		}
		section = append(section, p.text)
	}
	flush()
	return chunks
}

// chunkByWindows groups paragraphs into fixed-count windows.
func chunkByWindows(paragraphs []docParagraph, window int) []driven.ChunkDraft {
	var chunks []driven.ChunkDraft
	for start := 0; start < len(paragraphs); start += window {
		end := start + window
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		var lines []string
		for _, p := range paragraphs[start:end] {
			lines = append(lines, p.text)
		}
		chunks = append(chunks, driven.ChunkDraft{
			Text: strings.Join(lines, "\n"),
		})
	}
	return chunks
}
