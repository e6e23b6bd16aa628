package driving

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// SearchService answers natural-language questions over the indexed
// collection.
type SearchService interface {
	// ComprehensiveSearch retrieves balanced cross-document evidence
	// for the question and invokes the generation capability.
	ComprehensiveSearch(ctx context.Context, question string, depth domain.AnalysisDepth) (*domain.Answer, error)

	// ListDocuments returns the indexed documents.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// GetDocumentSummary returns the stored summary and structure
	// metadata for a document.
	GetDocumentSummary(ctx context.Context, documentID string) (*domain.DocumentSummary, error)

	// AnalyzeCollection summarises the indexed collection.
	AnalyzeCollection(ctx context.Context) (*domain.CollectionStats, error)
}
