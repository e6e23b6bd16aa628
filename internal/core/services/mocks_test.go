package services

import (
	"context"
	"strings"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// vectorFor maps known terms onto fixed axes so tests get predictable
// similarity orderings without a real embedding model.
func vectorFor(text string) []float32 {
	axes := map[string]int{
		"france": 0, "paris": 0,
		"japan": 1, "tokyo": 1,
		"italy": 2, "rome": 2,
	}
	v := make([]float32, 4)
	lower := strings.ToLower(text)
	for term, axis := range axes {
		v[axis] += float32(strings.Count(lower, term))
	}
	// Bias axis keeps term-free texts embeddable.
	v[3] = 1
	return v
}

// mockEmbeddingService implements driven.EmbeddingService with
// deterministic vectors and call counting.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedCalls int
	embedErr   error
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.embedCalls++
	return vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.embedCalls += len(texts)
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = vectorFor(text)
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 4 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls
}

// mockLLMService implements driven.LLMService with scripted outcomes:
// each call consumes the next entry of errs; once exhausted, calls
// succeed with response.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	errs     []error
	genCalls int
	prompts  []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genCalls++
	m.prompts = append(m.prompts, prompt)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.genCalls
}
