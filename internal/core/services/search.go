package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const (
	// DefaultContextBudget caps the assembled context, in characters.
	DefaultContextBudget = 12000

	// DefaultMaxAttempts bounds generation retries per question.
	DefaultMaxAttempts = 3

	// DefaultBackoff is the first retry delay; it doubles per attempt.
	DefaultBackoff = 500 * time.Millisecond

	summariesBanner = "=== DOCUMENT SUMMARIES ==="
	contentBanner   = "=== RELEVANT CONTENT ==="
)

// SearchService orchestrates a comprehensive search: freshness sweep,
// balanced retrieval, context assembly and answer generation.
type SearchService struct {
	index         *IndexService
	embedder      driven.EmbeddingService
	llm           driven.LLMService
	paths         []string
	sweepOnSearch bool
	contextBudget int
	maxAttempts   int
	backoff       time.Duration
	sleep         func(context.Context, time.Duration) error
}

// SearchOption configures a SearchService.
type SearchOption func(*SearchService)

// WithSweepOnSearch enables a freshness sweep over the given paths
// before each comprehensive search.
func WithSweepOnSearch(paths []string) SearchOption {
	return func(s *SearchService) {
		s.paths = paths
		s.sweepOnSearch = true
	}
}

// WithContextBudget overrides the context character budget.
func WithContextBudget(chars int) SearchOption {
	return func(s *SearchService) {
		if chars > 0 {
			s.contextBudget = chars
		}
	}
}

// WithRetry overrides the generation retry policy.
func WithRetry(maxAttempts int, backoff time.Duration) SearchOption {
	return func(s *SearchService) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			s.backoff = backoff
		}
	}
}

// NewSearchService creates a search service over the index and the
// embedding and generation capabilities.
func NewSearchService(
	index *IndexService,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	opts ...SearchOption,
) *SearchService {
	s := &SearchService{
		index:         index,
		embedder:      embedder,
		llm:           llm,
		contextBudget: DefaultContextBudget,
		maxAttempts:   DefaultMaxAttempts,
		backoff:       DefaultBackoff,
		sleep:         sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComprehensiveSearch answers a question over the indexed collection.
// Retrieval work is never thrown away: when generation fails after all
// retries, the assembled context and timings come back on the answer
// alongside the error.
func (s *SearchService) ComprehensiveSearch(
	ctx context.Context, question string, depth domain.AnalysisDepth,
) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	answer := &domain.Answer{Depth: depth}

	if s.sweepOnSearch {
		start := time.Now()
		if _, err := s.index.EnsureFresh(ctx, s.paths); err != nil {
			return nil, fmt.Errorf("freshness sweep: %w", err)
		}
		answer.Timing.IndexMS = time.Since(start).Milliseconds()
	}

	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.TotalDocuments == 0 {
		return nil, domain.ErrNoDocumentsIndexed
	}

	searchStart := time.Now()
	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	numDocuments, numChunks := depth.Params()
	docHits, err := s.index.SearchDocuments(ctx, queryVector, numDocuments)
	if err != nil {
		return nil, err
	}
	chunks, err := s.index.HybridSearch(ctx, queryVector, numDocuments, numChunks)
	if err != nil {
		return nil, err
	}
	answer.Timing.SearchMS = time.Since(searchStart).Milliseconds()
	logger.Debug("Retrieved %d chunks across %d documents", len(chunks), len(docHits))

	assembled, err := s.assembleContext(ctx, docHits, chunks)
	if err != nil {
		return nil, err
	}
	answer.Context = assembled.text
	answer.Citations = assembled.citations
	answer.ChunkCounts = assembled.chunkCounts

	genStart := time.Now()
	text, err := s.generateWithRetry(ctx, buildPrompt(question, assembled.text))
	answer.Timing.GenerationMS = time.Since(genStart).Milliseconds()
	if err != nil {
		return answer, fmt.Errorf("generate answer: %w", err)
	}
	answer.Text = text
	return answer, nil
}

type assembledContext struct {
	text        string
	citations   []string
	chunkCounts map[string]int
}

// assembleContext renders the retrieved evidence: a summaries section
// for every selected document, then the balanced chunks. When the
// rendered context exceeds the budget, the lowest-ranked chunks are
// dropped first; summaries are never dropped. Citations are exactly
// the documents with at least one surviving chunk.
func (s *SearchService) assembleContext(
	ctx context.Context, docHits []domain.DocumentHit, chunks []domain.RetrievedChunk,
) (*assembledContext, error) {
	docs := make(map[string]*domain.Document, len(docHits))
	for _, dh := range docHits {
		doc, _, err := s.index.Document(ctx, dh.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("get document %s: %w", dh.DocumentID, err)
		}
		docs[dh.DocumentID] = doc
	}
	for i := range chunks {
		if _, ok := docs[chunks[i].DocumentID]; ok {
			continue
		}
		doc, _, err := s.index.Document(ctx, chunks[i].DocumentID)
		if err != nil {
			return nil, fmt.Errorf("get document %s: %w", chunks[i].DocumentID, err)
		}
		docs[chunks[i].DocumentID] = doc
	}

	var summaries strings.Builder
	summaries.WriteString(summariesBanner)
	summaries.WriteString("\n\n")
	for _, dh := range docHits {
		doc := docs[dh.DocumentID]
		summaries.WriteString("Document: " + doc.Path + "\n")
		if len(doc.Topics) > 0 {
			summaries.WriteString("Topics: " + strings.Join(doc.Topics, ", ") + "\n")
		}
		summaries.WriteString(doc.SummaryText + "\n\n")
	}

	surviving := append([]domain.RetrievedChunk(nil), chunks...)
	sort.Slice(surviving, func(i, j int) bool { return surviving[i].Rank < surviving[j].Rank })

	render := func(kept []domain.RetrievedChunk) string {
		var b strings.Builder
		b.WriteString(summaries.String())
		b.WriteString(contentBanner)
		b.WriteString("\n\n")
		for _, rc := range kept {
			b.WriteString("[Source: " + docs[rc.DocumentID].Path + "]\n")
			b.WriteString(rc.Chunk.Text + "\n\n")
		}
		return strings.TrimRight(b.String(), "\n") + "\n"
	}

	text := render(surviving)
	for len(text) > s.contextBudget && len(surviving) > 1 {
		surviving = surviving[:len(surviving)-1]
		text = render(surviving)
	}
	if len(surviving) < len(chunks) {
		logger.Debug("Context budget: kept %d of %d chunks", len(surviving), len(chunks))
	}

	counts := make(map[string]int)
	for _, rc := range surviving {
		counts[rc.DocumentID]++
	}
	citations := make([]string, 0, len(counts))
	for docID := range counts {
		citations = append(citations, docID)
	}
	sort.Strings(citations)

	return &assembledContext{text: text, citations: citations, chunkCounts: counts}, nil
}

func buildPrompt(question, context string) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the document collection below. ")
	b.WriteString("Cite the source files you draw from. ")
	b.WriteString("If the collection does not contain the answer, say so.\n\n")
	b.WriteString(context)
	b.WriteString("\nQuestion: " + question + "\n")
	return b.String()
}

// generateWithRetry invokes the generation capability with bounded
// retries. Only rate-limit and timeout failures are retried; service
// faults and everything else fail immediately.
func (s *SearchService) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := s.backoff

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
		if err == nil {
			return text, nil
		}
		lastErr = err

		genErr, ok := domain.AsGenerationError(err)
		if !ok || !genErr.Retryable() || attempt == s.maxAttempts {
			return "", err
		}

		logger.Warn("Generation attempt %d/%d failed (%s), retrying in %v",
			attempt, s.maxAttempts, genErr.Kind, delay)
		if err := s.sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}
	return "", lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ListDocuments returns the indexed documents ordered by path.
func (s *SearchService) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	docs, err := s.index.Documents(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]domain.DocumentInfo, len(docs))
	for i := range docs {
		infos[i] = domain.DocumentInfo{
			ID:       docs[i].ID,
			Path:     docs[i].Path,
			FileType: docs[i].FileType,
			Topics:   docs[i].Topics,
		}
	}
	return infos, nil
}

// GetDocumentSummary returns the stored summary for one document.
func (s *SearchService) GetDocumentSummary(ctx context.Context, documentID string) (*domain.DocumentSummary, error) {
	doc, chunkCount, err := s.index.Document(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentSummary{
		ID:          doc.ID,
		Path:        doc.Path,
		FileType:    doc.FileType,
		SummaryText: doc.SummaryText,
		Topics:      doc.Topics,
		Structure:   doc.Structure,
		ChunkCount:  chunkCount,
	}, nil
}

// AnalyzeCollection summarises the indexed collection.
func (s *SearchService) AnalyzeCollection(ctx context.Context) (*domain.CollectionStats, error) {
	return s.index.Stats(ctx)
}
