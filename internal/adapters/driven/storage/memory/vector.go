package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a flat cosine-similarity index. Entries are scanned
// exhaustively, which is exact and fast enough for collections in the
// thousands of vectors. Vectors are normalised on insert so search is
// a dot product.
type VectorIndex struct {
	mu      sync.RWMutex
	dims    int
	vectors map[string][]float32
}

// NewVectorIndex creates an empty index. The first added vector fixes
// the index dimensionality.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{vectors: make(map[string][]float32)}
}

// Add inserts or replaces a vector under the given ID.
func (x *VectorIndex) Add(_ context.Context, id string, vector []float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.dims == 0 {
		x.dims = len(vector)
	} else if len(vector) != x.dims {
		return domain.ErrDimensionMismatch
	}

	x.vectors[id] = normalise(vector)
	return nil
}

// Delete removes a vector. Deleting an absent ID is a no-op.
func (x *VectorIndex) Delete(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.vectors, id)
	return nil
}

// Search returns the topK nearest entries by cosine similarity,
// descending, ties broken by ID.
func (x *VectorIndex) Search(ctx context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	return x.SearchFiltered(ctx, query, topK, nil)
}

// SearchFiltered is Search restricted to the allowed ID set. A nil
// set means no restriction.
func (x *VectorIndex) SearchFiltered(
	_ context.Context, query []float32, topK int, allowed map[string]bool,
) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if topK <= 0 {
		return nil, nil
	}
	if x.dims != 0 && len(query) != x.dims {
		return nil, domain.ErrDimensionMismatch
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, 0, len(x.vectors))
	for id, v := range x.vectors {
		if allowed != nil && !allowed[id] {
			continue
		}
		hits = append(hits, driven.VectorHit{ID: id, Similarity: dot(q, v)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (x *VectorIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Close releases resources.
func (x *VectorIndex) Close() error {
	return nil
}

func normalise(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
