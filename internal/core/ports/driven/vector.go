package driven

import "context"

// VectorIndex provides similarity search over fixed-dimensional vectors.
// Two instances back the store: one over document summary vectors, one
// over chunk vectors.
type VectorIndex interface {
	// Add inserts or replaces the vector for the given entity ID.
	Add(ctx context.Context, id string, vector []float32) error

	// Delete removes a vector from the index. Missing IDs are a no-op.
	Delete(ctx context.Context, id string) error

	// Search finds the k nearest entries to the query vector, descending
	// by cosine similarity, ties broken by ID for determinism.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// SearchFiltered is Search restricted to the given candidate IDs.
	// A nil filter is equivalent to Search.
	SearchFiltered(ctx context.Context, query []float32, k int, allowed map[string]bool) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched entity (document or chunk).
	ID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
