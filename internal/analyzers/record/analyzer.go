// Package record analyses structured-record (JSON) files.
//
// Nested values are flattened into key-paths so every chunk is
// interpretable standalone. Chunking groups top-level keys under a
// serialized-size budget and never splits a subtree across chunks.
package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// DefaultChunkBudget is the maximum serialized size of one chunk in
// characters. A single oversized subtree still becomes one chunk so
// record boundaries are never split.
const DefaultChunkBudget = 1500

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Analyzer handles JSON files.
type Analyzer struct {
	chunkBudget int
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithChunkBudget sets the serialized-size budget per chunk.
func WithChunkBudget(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.chunkBudget = n
		}
	}
}

// New creates a structured-record analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{chunkBudget: DefaultChunkBudget}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileType returns the variant this analyzer handles.
func (a *Analyzer) FileType() domain.FileType {
	return domain.FileTypeRecord
}

// Extensions returns the extensions this analyzer claims.
func (a *Analyzer) Extensions() []string {
	return []string{".json"}
}

// Analyze flattens the record into key-paths and chunks by top-level
// key groups.
func (a *Analyzer) Analyze(_ context.Context, _ string, content []byte) (*driven.Extraction, error) {
	var root any
	if err := json.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptInput, err)
	}

	subtrees := topLevelSubtrees(root)
	if len(subtrees) == 0 {
		return nil, fmt.Errorf("%w: empty record", domain.ErrCorruptInput)
	}

	structure := domain.Structure{
		Pages:        1,
		KeyCount:     len(subtrees),
		NestingDepth: nestingDepth(root, 0),
	}

	var fullLines []string
	for _, st := range subtrees {
		fullLines = append(fullLines, st.lines...)
	}

	return &driven.Extraction{
		Structure: structure,
		Chunks:    a.groupSubtrees(subtrees),
		FullText:  strings.Join(fullLines, "\n"),
	}, nil
}

// subtree is one top-level key with its flattened key-path lines.
type subtree struct {
	key   string
	lines []string
	size  int
}

// topLevelSubtrees flattens each top-level key (or array element) into
// "key.path = value" lines carrying the full prefix.
func topLevelSubtrees(root any) []subtree {
	var subtrees []subtree
	appendSubtree := func(key string, value any) {
		lines := flatten(key, value)
		size := 0
		for _, l := range lines {
			size += len(l) + 1
		}
		subtrees = append(subtrees, subtree{key: key, lines: lines, size: size})
	}

	switch v := root.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			appendSubtree(k, v[k])
		}
	case []any:
		for i, item := range v {
			appendSubtree("["+strconv.Itoa(i)+"]", item)
		}
	default:
		appendSubtree("value", v)
	}
	return subtrees
}

// flatten renders a value as key-path lines rooted at prefix.
func flatten(prefix string, value any) []string {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var lines []string
		for _, k := range keys {
			lines = append(lines, flatten(prefix+"."+k, v[k])...)
		}
		if len(lines) == 0 {
			return []string{prefix + " = {}"}
		}
		return lines
	case []any:
		var lines []string
		for i, item := range v {
			lines = append(lines, flatten(prefix+"["+strconv.Itoa(i)+"]", item)...)
		}
		if len(lines) == 0 {
			return []string{prefix + " = []"}
		}
		return lines
	case nil:
		return []string{prefix + " = null"}
	case string:
		return []string{prefix + " = " + v}
	case float64:
		return []string{prefix + " = " + strconv.FormatFloat(v, 'f', -1, 64)}
	case bool:
		return []string{prefix + " = " + strconv.FormatBool(v)}
	default:
		return []string{fmt.Sprintf("%s = %v", prefix, v)}
	}
}

// groupSubtrees packs whole subtrees into chunks under the size budget.
func (a *Analyzer) groupSubtrees(subtrees []subtree) []driven.ChunkDraft {
	var chunks []driven.ChunkDraft
	var lines []string
	var keys []string
	size := 0

	flush := func() {
		if len(lines) == 0 {
			return
		}
		chunks = append(chunks, driven.ChunkDraft{
			Text:     strings.Join(lines, "\n"),
			Metadata: map[string]any{"keys": strings.Join(keys, ",")},
		})
		lines, keys, size = nil, nil, 0
	}

	for _, st := range subtrees {
		if size > 0 && size+st.size > a.chunkBudget {
			flush()
		}
		lines = append(lines, st.lines...)
		keys = append(keys, st.key)
		size += st.size
	}
	flush()
	return chunks
}

func nestingDepth(value any, level int) int {
	switch v := value.(type) {
	case map[string]any:
		depth := level
		for _, item := range v {
			if d := nestingDepth(item, level+1); d > depth {
				depth = d
			}
		}
		return depth
	case []any:
		depth := level
		for _, item := range v {
			if d := nestingDepth(item, level+1); d > depth {
				depth = d
			}
		}
		return depth
	default:
		return level
	}
}
