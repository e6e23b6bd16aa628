package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.Indexer = (*IndexService)(nil)

// candidateFactor is how many chunk candidates hybrid search requests
// relative to the number of chunks wanted, to leave room for balancing.
const candidateFactor = 3

// IndexService is the vector store: it owns the document-level index,
// the chunk-level index and the metadata store, and implements upsert,
// staleness detection and the three query modes.
//
// Writers hold the lock for the duration of a single document's index
// mutation; readers run concurrently and never observe a partially
// written document.
type IndexService struct {
	mu         sync.RWMutex
	docStore   driven.DocumentStore
	docIndex   driven.VectorIndex
	chunkIndex driven.VectorIndex
	analysis   *AnalysisService
}

// NewIndexService creates an index service over the given stores.
func NewIndexService(
	docStore driven.DocumentStore,
	docIndex driven.VectorIndex,
	chunkIndex driven.VectorIndex,
	analysis *AnalysisService,
) *IndexService {
	return &IndexService{
		docStore:   docStore,
		docIndex:   docIndex,
		chunkIndex: chunkIndex,
		analysis:   analysis,
	}
}

// Load rebuilds the vector indices from the metadata store. Called at
// startup so a persisted store round-trips: after Load, all search
// contracts hold identically to the store's state at save time.
func (s *IndexService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	for i := range docs {
		if err := s.docIndex.Add(ctx, docs[i].ID, docs[i].SummaryVector); err != nil {
			return fmt.Errorf("load document vector %s: %w", docs[i].ID, err)
		}
		chunks, err := s.docStore.GetChunks(ctx, docs[i].ID)
		if err != nil {
			return fmt.Errorf("load chunks for %s: %w", docs[i].ID, err)
		}
		for j := range chunks {
			if err := s.chunkIndex.Add(ctx, chunks[j].ID, chunks[j].Vector); err != nil {
				return fmt.Errorf("load chunk vector %s: %w", chunks[j].ID, err)
			}
		}
	}
	logger.Info("Index loaded: %d documents, %d chunk vectors", len(docs), s.chunkIndex.Len())
	return nil
}

// Upsert inserts or replaces all vectors and metadata owned by the
// document. The mutation is atomic per document: readers see either
// the old state or the fully new one, never a mix. When the stored
// content hash matches, the call is a no-op.
func (s *IndexService) Upsert(ctx context.Context, result *AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(ctx, result)
}

func (s *IndexService) upsertLocked(ctx context.Context, result *AnalysisResult) error {
	doc := &result.Document

	existing, err := s.docStore.GetDocument(ctx, doc.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get document: %w", err)
	}
	if existing != nil && existing.ContentHash == doc.ContentHash {
		logger.Debug("Upsert %s: content unchanged, skipping", doc.Path)
		return nil
	}

	// Drop the previous generation's chunk vectors first so stale
	// chunks never linger after re-analysis shrinks a document.
	if existing != nil {
		for _, chunkID := range existing.ChunkIDs {
			if err := s.chunkIndex.Delete(ctx, chunkID); err != nil {
				return fmt.Errorf("delete chunk vector %s: %w", chunkID, err)
			}
		}
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, doc.ID, result.Chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	if err := s.docIndex.Add(ctx, doc.ID, doc.SummaryVector); err != nil {
		return fmt.Errorf("add document vector: %w", err)
	}
	for i := range result.Chunks {
		if err := s.chunkIndex.Add(ctx, result.Chunks[i].ID, result.Chunks[i].Vector); err != nil {
			return fmt.Errorf("add chunk vector: %w", err)
		}
	}

	logger.Info("Upserted %s: %d chunks", doc.Path, len(result.Chunks))
	return nil
}

// IsStale reports whether the stored content hash for a document
// differs from the current file, or the document is unindexed.
func (s *IndexService) IsStale(ctx context.Context, documentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get document: %w", err)
	}

	content, err := os.ReadFile(doc.Path)
	if err != nil {
		// Unreadable source counts as stale; the sweep decides removal.
		return true, nil
	}
	return ContentHash(content) != doc.ContentHash, nil
}

// EnsureFresh sweeps the given paths: each absent or changed file is
// re-analysed and upserted, unchanged files are skipped without
// re-embedding, and documents whose source files vanished are removed.
// Per-file failures go into the report and never abort the sweep.
// The sweep is idempotent and safe to run before every query batch.
func (s *IndexService) EnsureFresh(ctx context.Context, paths []string) (*driving.SweepReport, error) {
	report := &driving.SweepReport{Failures: make(map[string]error)}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fresh, err := s.refreshPath(ctx, path)
		if err != nil {
			logger.Warn("Sweep: %s failed: %v", path, err)
			report.Failures[path] = err
			continue
		}
		if fresh {
			report.Indexed++
		} else {
			report.Skipped++
		}
	}

	removed, err := s.removeVanished(ctx)
	if err != nil {
		return report, err
	}
	report.Removed = removed

	logger.Info("Sweep complete: %d indexed, %d skipped, %d removed, %d failed",
		report.Indexed, report.Skipped, report.Removed, len(report.Failures))
	return report, nil
}

// refreshPath re-indexes one file if its hash changed. Returns true
// when the document was (re-)analysed and upserted. The content hash is
// compared before any analysis so unchanged files cost one file read,
// never a re-embedding.
func (s *IndexService) refreshPath(ctx context.Context, path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read file: %w", err)
	}

	docID := DocumentID(path)
	s.mu.RLock()
	existing, err := s.docStore.GetDocument(ctx, docID)
	s.mu.RUnlock()
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get document: %w", err)
	}
	if existing != nil && existing.ContentHash == ContentHash(content) {
		return false, nil
	}

	result, err := s.analysis.Analyze(ctx, path)
	if err != nil {
		return false, err
	}
	if err := s.Upsert(ctx, result); err != nil {
		return false, err
	}
	return true, nil
}

// removeVanished deletes documents whose source files no longer exist.
func (s *IndexService) removeVanished(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}

	removed := 0
	for i := range docs {
		if _, err := os.Stat(docs[i].Path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		logger.Info("Removing %s: source file gone", docs[i].Path)
		for _, chunkID := range docs[i].ChunkIDs {
			if err := s.chunkIndex.Delete(ctx, chunkID); err != nil {
				return removed, fmt.Errorf("delete chunk vector: %w", err)
			}
		}
		if err := s.docIndex.Delete(ctx, docs[i].ID); err != nil {
			return removed, fmt.Errorf("delete document vector: %w", err)
		}
		if err := s.docStore.DeleteDocument(ctx, docs[i].ID); err != nil {
			return removed, fmt.Errorf("delete document: %w", err)
		}
		removed++
	}
	return removed, nil
}

// SearchDocuments returns the topK most similar documents to the query
// vector, descending by score, ties broken by document ID.
func (s *IndexService) SearchDocuments(ctx context.Context, queryVector []float32, topK int) ([]domain.DocumentHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchDocumentsLocked(ctx, queryVector, topK)
}

func (s *IndexService) searchDocumentsLocked(ctx context.Context, queryVector []float32, topK int) ([]domain.DocumentHit, error) {
	if s.docIndex.Len() == 0 {
		return nil, domain.ErrEmptyIndex
	}
	hits, err := s.docIndex.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("document search: %w", err)
	}
	results := make([]domain.DocumentHit, len(hits))
	for i, h := range hits {
		results[i] = domain.DocumentHit{DocumentID: h.ID, Score: h.Similarity}
	}
	return results, nil
}

// SearchChunks returns the topK most similar chunks to the query
// vector across all documents.
func (s *IndexService) SearchChunks(ctx context.Context, queryVector []float32, topK int) ([]domain.ChunkHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.chunkIndex.Len() == 0 {
		return nil, domain.ErrEmptyIndex
	}
	hits, err := s.chunkIndex.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("chunk search: %w", err)
	}
	return s.hydrateChunkHits(ctx, hits)
}

func (s *IndexService) hydrateChunkHits(ctx context.Context, hits []driven.VectorHit) ([]domain.ChunkHit, error) {
	results := make([]domain.ChunkHit, 0, len(hits))
	for _, h := range hits {
		chunk, err := s.docStore.GetChunk(ctx, h.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", h.ID, err)
		}
		results = append(results, domain.ChunkHit{
			ChunkID:    h.ID,
			DocumentID: chunk.DocumentID,
			Score:      h.Similarity,
		})
	}
	return results, nil
}

// HybridSearch is the balanced cross-document retrieval: document-level
// search selects the most relevant documents, chunk-level search ranks
// their chunks, and a round-robin quota interleaves the result so no
// single document starves the rest. Results are deterministic for a
// fixed index state.
func (s *IndexService) HybridSearch(
	ctx context.Context, queryVector []float32, numDocuments, numChunks int,
) ([]domain.RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docHits, err := s.searchDocumentsLocked(ctx, queryVector, numDocuments)
	if err != nil {
		return nil, err
	}

	// Candidate pool: chunks owned by the selected documents, over-
	// requested to leave room for balancing.
	allowed := make(map[string]bool)
	owner := make(map[string]string)
	for _, dh := range docHits {
		doc, err := s.docStore.GetDocument(ctx, dh.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("get document %s: %w", dh.DocumentID, err)
		}
		for _, chunkID := range doc.ChunkIDs {
			allowed[chunkID] = true
			owner[chunkID] = doc.ID
		}
	}

	hits, err := s.chunkIndex.SearchFiltered(ctx, queryVector, numChunks*candidateFactor, allowed)
	if err != nil {
		return nil, fmt.Errorf("chunk search: %w", err)
	}

	selected := balanceChunks(hits, docHits, owner, numDocuments, numChunks)

	results := make([]domain.RetrievedChunk, 0, len(selected))
	for rank, hit := range selected {
		chunk, err := s.docStore.GetChunk(ctx, hit.ID)
		if err != nil {
			return nil, fmt.Errorf("get chunk %s: %w", hit.ID, err)
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:      *chunk,
			DocumentID: chunk.DocumentID,
			Score:      hit.Similarity,
			Rank:       rank,
		})
	}
	return results, nil
}

// balanceChunks distributes ranked candidates round-robin across the
// selected documents under a per-document quota, then fills remaining
// slots from the best leftovers regardless of document. The fill step
// may push a document over quota: filling beats under-returning.
func balanceChunks(
	candidates []driven.VectorHit,
	docHits []domain.DocumentHit,
	owner map[string]string,
	numDocuments, numChunks int,
) []driven.VectorHit {
	if numDocuments <= 0 || numChunks <= 0 {
		return nil
	}
	quota := (numChunks + numDocuments - 1) / numDocuments

	// Per-document queues, in candidate rank order.
	queues := make(map[string][]driven.VectorHit)
	for _, c := range candidates {
		docID := owner[c.ID]
		queues[docID] = append(queues[docID], c)
	}

	taken := make(map[string]bool)
	var selected []driven.VectorHit

	// Round-robin in document relevance order. A document drops out
	// once its quota is exhausted or its queue is empty.
	counts := make(map[string]int)
	for len(selected) < numChunks {
		progressed := false
		for _, dh := range docHits {
			if len(selected) >= numChunks {
				break
			}
			if counts[dh.DocumentID] >= quota {
				continue
			}
			queue := queues[dh.DocumentID]
			if len(queue) == 0 {
				continue
			}
			hit := queue[0]
			queues[dh.DocumentID] = queue[1:]
			selected = append(selected, hit)
			taken[hit.ID] = true
			counts[dh.DocumentID]++
			progressed = true
		}
		if !progressed {
			break
		}
	}

	// Fill-in from leftovers in overall score order.
	for _, c := range candidates {
		if len(selected) >= numChunks {
			break
		}
		if taken[c.ID] {
			continue
		}
		selected = append(selected, c)
		taken[c.ID] = true
	}

	return selected
}

// Stats summarises the indexed collection.
func (s *IndexService) Stats(ctx context.Context) (*domain.CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	chunks, err := s.docStore.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	breakdown := make(map[domain.FileType]int)
	for i := range docs {
		breakdown[docs[i].FileType]++
	}
	return &domain.CollectionStats{
		TotalDocuments: len(docs),
		TotalChunks:    chunks,
		TypeBreakdown:  breakdown,
	}, nil
}

// Documents lists the indexed documents ordered by path.
func (s *IndexService) Documents(ctx context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Document fetches one indexed document with its chunk count.
func (s *IndexService) Document(ctx context.Context, documentID string) (*domain.Document, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, 0, err
	}
	return doc, len(doc.ChunkIDs), nil
}
