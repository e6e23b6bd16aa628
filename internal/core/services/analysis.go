package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/corpora-labs/corpora-cli/internal/analyzers"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// AnalysisResult is a fully analysed document with its owned chunks,
// ready for upsert.
type AnalysisResult struct {
	Document domain.Document
	Chunks   []domain.Chunk
}

// AnalysisService turns a source file into a Document with embedded
// chunks. It selects the extraction strategy by file type and derives
// summary, topics and vectors.
type AnalysisService struct {
	registry  driven.AnalyzerRegistry
	embedding driven.EmbeddingService
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(registry driven.AnalyzerRegistry, embedding driven.EmbeddingService) *AnalysisService {
	return &AnalysisService{
		registry:  registry,
		embedding: embedding,
	}
}

// Analyze reads and analyses one file. It returns
// domain.ErrUnsupportedType for unknown extensions and
// domain.ErrCorruptInput when extraction fails on malformed content;
// both are per-file failures that callers skip and report.
func (s *AnalysisService) Analyze(ctx context.Context, path string) (*AnalysisResult, error) {
	fileType, err := s.registry.Classify(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	analyzer, err := s.registry.AnalyzerFor(fileType)
	if err != nil {
		return nil, err
	}

	logger.Debug("Analyzing %s as %s (%d bytes)", path, fileType, len(content))
	extraction, err := analyzer.Analyze(ctx, path, content)
	if err != nil {
		return nil, err
	}

	docID := DocumentID(path)
	summary := analyzers.BuildSummary(extraction.FullText, extraction.Structure)
	topics := analyzers.ExtractTopics(extraction.FullText)

	chunks, err := s.buildChunks(ctx, docID, extraction.Chunks)
	if err != nil {
		return nil, err
	}

	summaryVector, err := s.embedding.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embed summary: %w", err)
	}

	// A cancelled analysis must never produce an upsertable result.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunkIDs := make([]string, len(chunks))
	for i := range chunks {
		chunkIDs[i] = chunks[i].ID
	}

	doc := domain.Document{
		ID:            docID,
		Path:          path,
		FileType:      fileType,
		ContentHash:   ContentHash(content),
		Structure:     extraction.Structure,
		SummaryText:   summary,
		SummaryVector: summaryVector,
		Topics:        topics,
		ChunkIDs:      chunkIDs,
		IndexedAt:     time.Now().UTC(),
	}

	logger.Debug("Analyzed %s: %d chunks, %d topics, %d headings",
		path, len(chunks), len(topics), len(extraction.Structure.Headings))

	return &AnalysisResult{Document: doc, Chunks: chunks}, nil
}

// buildChunks assigns IDs, positions and neighbour references, then
// embeds all chunk texts in one batch.
func (s *AnalysisService) buildChunks(
	ctx context.Context, docID string, drafts []driven.ChunkDraft,
) ([]domain.Chunk, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	texts := make([]string, len(drafts))
	for i, d := range drafts {
		texts[i] = d.Text
	}

	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(drafts) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(drafts))
	}

	chunks := make([]domain.Chunk, len(drafts))
	for i, d := range drafts {
		chunks[i] = domain.Chunk{
			ID:         ChunkID(docID, i, d.Text),
			DocumentID: docID,
			Position:   i,
			Text:       d.Text,
			Vector:     vectors[i],
			Metadata:   d.Metadata,
		}
	}
	for i := range chunks {
		if i > 0 {
			chunks[i].PrevID = chunks[i-1].ID
		}
		if i < len(chunks)-1 {
			chunks[i].NextID = chunks[i+1].ID
		}
	}
	return chunks, nil
}

// DocumentID derives the stable document identifier from a source path.
func DocumentID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("corpora:"+path)).String()
}

// ChunkID derives a chunk identifier that is stable across re-analysis
// while the content at the position is unchanged.
func ChunkID(docID string, position int, text string) string {
	seed := fmt.Sprintf("%s:%d:%s", docID, position, text)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

// ContentHash digests raw file bytes for staleness detection.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
