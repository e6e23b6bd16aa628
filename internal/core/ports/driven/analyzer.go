package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Analyzer extracts structured content from one family of file types.
// Each analyzer handles a single domain.FileType variant.
type Analyzer interface {
	// FileType returns the variant this analyzer handles.
	FileType() domain.FileType

	// Extensions returns the file extensions (with leading dot,
	// lower case) this analyzer claims.
	Extensions() []string

	// Analyze extracts structure and type-specific chunks from raw
	// file content. Chunks are returned without vectors or IDs; the
	// analysis service assigns both. Malformed content returns
	// domain.ErrCorruptInput.
	Analyze(ctx context.Context, path string, content []byte) (*Extraction, error)
}

// Extraction is the output of type-specific analysis, before
// embedding and ID assignment.
type Extraction struct {
	// Structure is the type-specific representation.
	Structure domain.Structure

	// Chunks are the chunk texts in document order, with optional
	// per-chunk metadata. Chunk boundaries never split a logical
	// record (a tabular row, a record subtree).
	Chunks []ChunkDraft

	// FullText is the extracted plain text, used for summary and
	// topic derivation.
	FullText string
}

// ChunkDraft is a chunk before ID and vector assignment.
type ChunkDraft struct {
	// Text is the chunk content including any header context.
	Text string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// AnalyzerRegistry selects the analyzer for a file.
type AnalyzerRegistry interface {
	// Classify returns the file type for a path, or
	// domain.ErrUnsupportedType when no analyzer claims it.
	Classify(path string) (domain.FileType, error)

	// AnalyzerFor returns the analyzer for a file type.
	AnalyzerFor(fileType domain.FileType) (Analyzer, error)
}
