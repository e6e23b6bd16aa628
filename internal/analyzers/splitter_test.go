package analyzers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	s := NewSplitter()
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n  "))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter()
	chunks := s.Split("A short paragraph.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short paragraph.", chunks[0])
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(WithChunkSize(100), WithOverlap(20))

	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks := s.Split(b.String())
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 130)
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitNeverStartsMidWord(t *testing.T) {
	s := NewSplitter(WithChunkSize(80), WithOverlap(20))

	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("Considerable documentation accompanies every experiment. ")
	}

	for _, chunk := range s.Split(b.String()) {
		first := strings.Fields(chunk)[0]
		assert.Contains(t, []string{"Considerable", "documentation", "accompanies", "every", "experiment."}, first)
	}
}

func TestSplitOverlapCarriesTrailingText(t *testing.T) {
	s := NewSplitter(WithChunkSize(60), WithOverlap(25))

	text := "First sentence about apples. Second sentence about oranges. Third sentence about pears."
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	// Each later chunk starts with words carried over from the one before.
	for i := 1; i < len(chunks); i++ {
		firstWord := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], firstWord)
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(WithChunkSize(60), WithOverlap(0))

	text := "First paragraph that is fairly short.\n\nSecond paragraph that is also short."
	chunks := s.Split(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph that is fairly short.", chunks[0])
	assert.Equal(t, "Second paragraph that is also short.", chunks[1])
}

func TestSplitOversizedOverlapClamped(t *testing.T) {
	s := NewSplitter(WithChunkSize(100), WithOverlap(500))
	assert.Equal(t, 25, s.overlap)
}

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("One. Two! Three? Four")
	assert.Equal(t, []string{"One.", "Two!", "Three?", "Four"}, sentences)
}
