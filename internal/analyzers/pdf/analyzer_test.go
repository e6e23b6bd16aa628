package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// stubRunner returns canned pdftotext output and records the call.
type stubRunner struct {
	output []byte
	err    error

	name  string
	args  []string
	stdin []byte
}

func (s *stubRunner) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	s.name = name
	s.args = args
	s.stdin = stdin
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

func TestAnalyzeSplitsPages(t *testing.T) {
	runner := &stubRunner{output: []byte(
		"Introduction\n\nThe study design is described here.\f" +
			"Results\n\nTable 3 lists the measurements.\f" +
			"   \f",
	)}
	content := []byte("%PDF-1.7 fake body")

	extraction, err := New(WithRunner(runner)).Analyze(context.Background(), "paper.pdf", content)
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, []string{"-layout", "-", "-"}, runner.args)
	assert.Equal(t, content, runner.stdin)

	// The blank third page is dropped.
	assert.Equal(t, 2, extraction.Structure.Pages)
	assert.True(t, extraction.Structure.HasTables)

	require.Len(t, extraction.Chunks, 2)
	assert.Equal(t, 1, extraction.Chunks[0].Metadata["page"])
	assert.Equal(t, 2, extraction.Chunks[1].Metadata["page"])
	assert.Contains(t, extraction.Chunks[0].Text, "Introduction")
	assert.Contains(t, extraction.Chunks[1].Text, "Results")
}

func TestAnalyzeRejectsMissingHeader(t *testing.T) {
	_, err := New(WithRunner(&stubRunner{})).Analyze(context.Background(), "fake.pdf", []byte("plain text"))
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1")}
	_, err := New(WithRunner(runner)).Analyze(context.Background(), "bad.pdf", []byte("%PDF-1.7"))
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestAnalyzeNoExtractableText(t *testing.T) {
	runner := &stubRunner{output: []byte("  \f  \f")}
	_, err := New(WithRunner(runner)).Analyze(context.Background(), "scan.pdf", []byte("%PDF-1.7"))
	require.ErrorIs(t, err, domain.ErrCorruptInput)
}
