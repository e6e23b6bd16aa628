package analyzers

import "strings"

// DefaultChunkSize is the target number of characters per prose chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the number of trailing characters repeated at
// the start of the next chunk.
const DefaultChunkOverlap = 200

// Splitter breaks prose into chunks along semantic boundaries.
// It prefers paragraph breaks, then sentence ends, then word breaks,
// so a chunk never starts mid-word.
type Splitter struct {
	chunkSize int
	overlap   int
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) SplitterOption {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) SplitterOption {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// NewSplitter creates a splitter with the given options.
func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	return s
}

// Split breaks text into chunks of at most the configured size.
// Empty input produces no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	pieces := splitUnits(text, s.chunkSize)

	var chunks []string
	var current strings.Builder
	for _, piece := range pieces {
		if current.Len() > 0 && current.Len()+len(piece)+1 > s.chunkSize {
			chunk := strings.TrimSpace(current.String())
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			current.Reset()
			if s.overlap > 0 && len(chunk) > s.overlap {
				current.WriteString(overlapTail(chunk, s.overlap))
				current.WriteString(" ")
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(piece)
	}
	if chunk := strings.TrimSpace(current.String()); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitUnits breaks text into units no larger than maxSize, preferring
// paragraph breaks, then sentence ends, then word breaks.
func splitUnits(text string, maxSize int) []string {
	var units []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxSize {
			units = append(units, para)
			continue
		}
		for _, sentence := range SplitSentences(para) {
			if len(sentence) <= maxSize {
				units = append(units, sentence)
				continue
			}
			units = append(units, splitWords(sentence, maxSize)...)
		}
	}
	return units
}

// splitWords breaks an oversized sentence at word boundaries.
func splitWords(sentence string, maxSize int) []string {
	words := strings.Fields(sentence)
	var parts []string
	var current strings.Builder
	for _, w := range words {
		if current.Len() > 0 && current.Len()+len(w)+1 > maxSize {
			parts = append(parts, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(w)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// overlapTail returns the last n characters of chunk, trimmed to the
// nearest word boundary so the overlap never starts mid-word.
func overlapTail(chunk string, n int) string {
	tail := chunk[len(chunk)-n:]
	if idx := strings.IndexAny(tail, " \n"); idx >= 0 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}

// SplitSentences splits prose into sentences by common terminators.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
