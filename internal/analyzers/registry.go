package analyzers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.AnalyzerRegistry = (*Registry)(nil)

// Registry maps file extensions to analyzers.
// Classification is a pure function of the path; registration order
// does not matter because each extension belongs to exactly one analyzer.
type Registry struct {
	byExtension map[string]driven.Analyzer
	byType      map[domain.FileType]driven.Analyzer
}

// NewRegistry creates a registry over the given analyzers.
// A duplicate extension claim is a programming error and panics.
func NewRegistry(analyzers ...driven.Analyzer) *Registry {
	r := &Registry{
		byExtension: make(map[string]driven.Analyzer),
		byType:      make(map[domain.FileType]driven.Analyzer),
	}
	for _, a := range analyzers {
		r.byType[a.FileType()] = a
		for _, ext := range a.Extensions() {
			if _, dup := r.byExtension[ext]; dup {
				panic(fmt.Sprintf("analyzers: extension %q claimed twice", ext))
			}
			r.byExtension[ext] = a
		}
	}
	return r
}

// Classify returns the file type for a path.
func (r *Registry) Classify(path string) (domain.FileType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	a, ok := r.byExtension[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, ext)
	}
	return a.FileType(), nil
}

// AnalyzerFor returns the analyzer for a file type.
func (r *Registry) AnalyzerFor(fileType domain.FileType) (driven.Analyzer, error) {
	a, ok := r.byType[fileType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, fileType)
	}
	return a, nil
}
