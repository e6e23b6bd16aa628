package domain

// AnalysisDepth controls the breadth/volume trade-off of retrieval.
type AnalysisDepth string

// Recognised analysis depths.
const (
	DepthQuick    AnalysisDepth = "quick"
	DepthStandard AnalysisDepth = "standard"
	DepthDeep     AnalysisDepth = "deep"
)

// Params returns the retrieval breadth for the depth: the number of
// documents and the number of chunks to retrieve. Unrecognised depths
// fall back to standard.
func (d AnalysisDepth) Params() (numDocuments, numChunks int) {
	switch d {
	case DepthQuick:
		return 2, 5
	case DepthDeep:
		return 5, 15
	default:
		return 3, 8
	}
}

// Valid reports whether the depth is a recognised value.
func (d AnalysisDepth) Valid() bool {
	switch d {
	case DepthQuick, DepthStandard, DepthDeep:
		return true
	}
	return false
}

// DocumentHit is a document-level similarity result.
type DocumentHit struct {
	// DocumentID is the matched document.
	DocumentID string

	// Score is the cosine similarity (higher is more relevant).
	Score float64
}

// ChunkHit is a chunk-level similarity result.
type ChunkHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's owning document.
	DocumentID string

	// Score is the cosine similarity (higher is more relevant).
	Score float64
}

// RetrievedChunk is one entry of a balanced hybrid search result.
type RetrievedChunk struct {
	// Chunk is the retrieved chunk.
	Chunk Chunk

	// DocumentID is the owning document.
	DocumentID string

	// Score is the chunk's similarity to the query.
	Score float64

	// Rank is the position in the balanced result order.
	Rank int
}

// Timing breaks down the phases of a comprehensive search.
// All values are in milliseconds.
type Timing struct {
	IndexMS      int64
	SearchMS     int64
	GenerationMS int64
}

// Answer is the structured result of a comprehensive search.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Citations are the IDs of documents whose chunks survived
	// context-budget truncation. Always a subset of the assembled
	// context's documents.
	Citations []string

	// ChunkCounts maps document ID to the number of its chunks
	// included in the final context.
	ChunkCounts map[string]int

	// Context is the assembled context string sent to the generator.
	// Retained so a failed generation still exposes retrieval work.
	Context string

	// Depth is the analysis depth that produced this answer.
	Depth AnalysisDepth

	// Timing is the per-phase elapsed time.
	Timing Timing
}

// CollectionStats summarises the indexed collection.
type CollectionStats struct {
	// TotalDocuments is the number of indexed documents.
	TotalDocuments int

	// TotalChunks is the number of indexed chunks.
	TotalChunks int

	// TypeBreakdown maps file type to document count.
	TypeBreakdown map[FileType]int
}

// DocumentInfo is the listing view of an indexed document.
type DocumentInfo struct {
	ID       string
	Path     string
	FileType FileType
	Topics   []string
}

// DocumentSummary is the detail view of an indexed document.
type DocumentSummary struct {
	ID          string
	Path        string
	FileType    FileType
	SummaryText string
	Topics      []string
	Structure   Structure
	ChunkCount  int
}
