package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/memory"
	"github.com/corpora-labs/corpora-cli/internal/analyzers"
	"github.com/corpora-labs/corpora-cli/internal/analyzers/plaintext"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// --- Test helpers ---

// newSearchFixture builds a search service over an index seeded with
// two hand-built documents.
func newSearchFixture(t *testing.T, llm *mockLLMService, opts ...SearchOption) (*SearchService, *IndexService) {
	t.Helper()
	embedder := &mockEmbeddingService{}
	registry := analyzers.NewRegistry(plaintext.New())
	analysis := NewAnalysisService(registry, embedder)
	index := NewIndexService(memory.NewDocumentStore(), memory.NewVectorIndex(), memory.NewVectorIndex(), analysis)

	ctx := context.Background()
	require.NoError(t, index.Upsert(ctx, makeResult("/data/france.txt", "Facts about france and paris.", []string{
		"Paris is the capital of france.",
		"The Loire is the longest river of france.",
	})))
	require.NoError(t, index.Upsert(ctx, makeResult("/data/japan.txt", "Facts about japan and tokyo.", []string{
		"Tokyo is the capital of japan, france trades with japan.",
	})))

	svc := NewSearchService(index, embedder, llm, opts...)
	svc.sleep = func(context.Context, time.Duration) error { return nil }
	return svc, index
}

// --- ComprehensiveSearch ---

func TestComprehensiveSearchEmptyCollection(t *testing.T) {
	embedder := &mockEmbeddingService{}
	registry := analyzers.NewRegistry(plaintext.New())
	analysis := NewAnalysisService(registry, embedder)
	index := NewIndexService(memory.NewDocumentStore(), memory.NewVectorIndex(), memory.NewVectorIndex(), analysis)
	svc := NewSearchService(index, embedder, &mockLLMService{response: "x"})

	_, err := svc.ComprehensiveSearch(context.Background(), "what is the capital of france?", domain.DepthStandard)
	assert.ErrorIs(t, err, domain.ErrNoDocumentsIndexed)
}

func TestComprehensiveSearchRejectsEmptyQuestion(t *testing.T) {
	svc, _ := newSearchFixture(t, &mockLLMService{response: "x"})

	_, err := svc.ComprehensiveSearch(context.Background(), "   ", domain.DepthStandard)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComprehensiveSearchAnswersWithCitations(t *testing.T) {
	llm := &mockLLMService{response: "Paris is the capital of France."}
	svc, _ := newSearchFixture(t, llm)

	answer, err := svc.ComprehensiveSearch(context.Background(), "What is the capital of france?", domain.DepthQuick)
	require.NoError(t, err)

	assert.Equal(t, "Paris is the capital of France.", answer.Text)
	assert.Equal(t, domain.DepthQuick, answer.Depth)

	// Every document with surviving chunks is cited, and counts match.
	assert.NotEmpty(t, answer.Citations)
	for _, docID := range answer.Citations {
		assert.Greater(t, answer.ChunkCounts[docID], 0)
	}
	assert.Contains(t, answer.Citations, DocumentID("/data/france.txt"))

	// The prompt carries the assembled context.
	require.Equal(t, 1, llm.calls())
	assert.Contains(t, llm.prompts[0], "=== DOCUMENT SUMMARIES ===")
	assert.Contains(t, llm.prompts[0], "=== RELEVANT CONTENT ===")
	assert.Contains(t, llm.prompts[0], "What is the capital of france?")
}

func TestComprehensiveSearchContextLayout(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	svc, _ := newSearchFixture(t, llm)

	answer, err := svc.ComprehensiveSearch(context.Background(), "france", domain.DepthStandard)
	require.NoError(t, err)

	// Summaries section precedes the content section.
	sumIdx := strings.Index(answer.Context, "=== DOCUMENT SUMMARIES ===")
	contentIdx := strings.Index(answer.Context, "=== RELEVANT CONTENT ===")
	require.GreaterOrEqual(t, sumIdx, 0)
	require.Greater(t, contentIdx, sumIdx)
	assert.Contains(t, answer.Context, "Document: /data/france.txt")
	assert.Contains(t, answer.Context, "[Source: /data/france.txt]")
}

func TestComprehensiveSearchRetriesRateLimit(t *testing.T) {
	llm := &mockLLMService{
		response: "answer after retries",
		errs: []error{
			domain.NewGenerationError(domain.GenerationRateLimited, errors.New("429")),
			domain.NewGenerationError(domain.GenerationTimeout, errors.New("deadline")),
		},
	}
	svc, _ := newSearchFixture(t, llm)

	answer, err := svc.ComprehensiveSearch(context.Background(), "capital of france", domain.DepthStandard)
	require.NoError(t, err)
	assert.Equal(t, "answer after retries", answer.Text)
	assert.Equal(t, 3, llm.calls())
}

func TestComprehensiveSearchDoesNotRetryServiceErrors(t *testing.T) {
	llm := &mockLLMService{
		response: "never reached",
		errs: []error{
			domain.NewGenerationError(domain.GenerationService, errors.New("boom")),
		},
	}
	svc, _ := newSearchFixture(t, llm)

	answer, err := svc.ComprehensiveSearch(context.Background(), "capital of france", domain.DepthStandard)
	require.Error(t, err)
	assert.Equal(t, 1, llm.calls())

	// Retrieval work is retained on the failed answer.
	require.NotNil(t, answer)
	assert.Contains(t, answer.Context, "=== RELEVANT CONTENT ===")
	assert.Empty(t, answer.Text)
}

func TestComprehensiveSearchExhaustsRetries(t *testing.T) {
	rateLimited := domain.NewGenerationError(domain.GenerationRateLimited, errors.New("429"))
	llm := &mockLLMService{
		response: "never reached",
		errs:     []error{rateLimited, rateLimited, rateLimited},
	}
	svc, _ := newSearchFixture(t, llm)

	_, err := svc.ComprehensiveSearch(context.Background(), "capital of france", domain.DepthStandard)
	require.Error(t, err)
	assert.Equal(t, 3, llm.calls())

	genErr, ok := domain.AsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.GenerationRateLimited, genErr.Kind)
}

func TestComprehensiveSearchBudgetTruncation(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	// Budget far below the rendered size forces chunk dropping.
	svc, _ := newSearchFixture(t, llm, WithContextBudget(250))

	answer, err := svc.ComprehensiveSearch(context.Background(), "capital of france", domain.DepthStandard)
	require.NoError(t, err)

	// At least the top-ranked chunk survives, and citations only name
	// documents that still own context chunks.
	total := 0
	for _, count := range answer.ChunkCounts {
		total += count
	}
	require.Greater(t, total, 0)
	assert.Len(t, answer.Citations, len(answer.ChunkCounts))
	assert.LessOrEqual(t, total, 3)
}

// --- Listing operations ---

func TestListDocuments(t *testing.T) {
	svc, _ := newSearchFixture(t, &mockLLMService{response: "x"})

	docs, err := svc.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "/data/france.txt", docs[0].Path)
	assert.Equal(t, "/data/japan.txt", docs[1].Path)
}

func TestGetDocumentSummary(t *testing.T) {
	svc, _ := newSearchFixture(t, &mockLLMService{response: "x"})

	summary, err := svc.GetDocumentSummary(context.Background(), DocumentID("/data/france.txt"))
	require.NoError(t, err)
	assert.Equal(t, "/data/france.txt", summary.Path)
	assert.Equal(t, "Facts about france and paris.", summary.SummaryText)
	assert.Equal(t, 2, summary.ChunkCount)

	_, err = svc.GetDocumentSummary(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyzeCollection(t *testing.T) {
	svc, _ := newSearchFixture(t, &mockLLMService{response: "x"})

	stats, err := svc.AnalyzeCollection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 3, stats.TotalChunks)
}
