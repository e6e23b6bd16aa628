package domain

import "time"

// FileType identifies the structural family of a source file.
// Analysis strategy is selected by file type, one handler per variant.
type FileType string

// Supported file types.
const (
	FileTypePDF         FileType = "pdf"
	FileTypeText        FileType = "text"
	FileTypeTabular     FileType = "tabular"
	FileTypeSpreadsheet FileType = "spreadsheet"
	FileTypeWord        FileType = "word"
	FileTypeRecord      FileType = "record"
)

// Valid reports whether the file type is one of the known variants.
func (t FileType) Valid() bool {
	switch t {
	case FileTypePDF, FileTypeText, FileTypeTabular,
		FileTypeSpreadsheet, FileTypeWord, FileTypeRecord:
		return true
	}
	return false
}

// Document represents an analysed source file.
// It is the canonical representation after type-specific analysis.
type Document struct {
	// ID is the stable identifier derived from the source path.
	ID string

	// Path is the source file location.
	Path string

	// FileType is the detected structural family.
	FileType FileType

	// ContentHash is the SHA-256 digest of the raw bytes.
	// Used for staleness detection and idempotent upsert.
	ContentHash string

	// Structure holds the type-specific extracted representation.
	Structure Structure

	// SummaryText is the document-level synopsis.
	SummaryText string

	// SummaryVector is the embedding of SummaryText.
	SummaryVector []float32

	// Topics is a bounded set of salient terms from the content.
	Topics []string

	// ChunkIDs is the ordered sequence of owned chunk identifiers.
	ChunkIDs []string

	// IndexedAt is when the document was last analysed and upserted.
	IndexedAt time.Time
}

// Structure is the type-specific extracted representation of a document.
// Only the fields relevant to the file type are populated.
type Structure struct {
	// Pages is the number of pages or sections extracted.
	Pages int

	// Headings are detected section headers, in document order.
	Headings []string

	// HasTables, HasFigures and HasReferences are layout markers
	// detected in pdf and text content.
	HasTables     bool
	HasFigures    bool
	HasReferences bool

	// Columns describes the column schema of tabular content.
	Columns []ColumnInfo

	// RowCount is the number of data rows in tabular content.
	RowCount int

	// KeyCount is the number of top-level keys in structured records.
	KeyCount int

	// NestingDepth is the maximum nesting level of structured records.
	NestingDepth int

	// WordCount is the approximate word count of prose content.
	WordCount int
}

// ColumnInfo describes one column of a tabular document.
type ColumnInfo struct {
	// Name is the header cell for the column.
	Name string

	// Kind is "numeric" or "categorical".
	Kind string

	// Min, Max and Mean are populated for numeric columns.
	Min  float64
	Max  float64
	Mean float64

	// DistinctCount is populated for categorical columns.
	DistinctCount int
}

// Chunk represents the minimal retrievable unit of document content.
// Documents exclusively own their chunks; chunks hold only ID
// back-references, never pointers.
type Chunk struct {
	// ID is unique within the store, stable across re-analysis
	// while the content at this position is unchanged.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Position is the ordinal position within the document.
	// Positions are strictly increasing with no gaps.
	Position int

	// Text is the chunk content, including any type-specific header
	// context (e.g. repeated column headers for tabular chunks).
	Text string

	// Vector is the embedding of Text.
	Vector []float32

	// PrevID and NextID reference neighbouring chunks for context
	// expansion. Empty at document boundaries.
	PrevID string
	NextID string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
