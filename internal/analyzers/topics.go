package analyzers

import (
	"regexp"
	"sort"
	"strings"
)

// MaxTopics bounds the size of a document's topic set.
const MaxTopics = 20

var wordPattern = regexp.MustCompile(`\b[A-Za-z]{4,}\b`)

// stopwords are common terms excluded from topic extraction.
var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "have": {}, "will": {}, "from": {},
	"they": {}, "been": {}, "were": {}, "said": {}, "each": {}, "which": {},
	"their": {}, "time": {}, "would": {}, "there": {}, "could": {},
	"other": {}, "more": {}, "very": {}, "what": {}, "know": {}, "just": {},
	"first": {}, "into": {}, "over": {}, "think": {}, "also": {},
	"your": {}, "work": {}, "life": {}, "only": {}, "should": {},
	"after": {}, "being": {}, "made": {}, "before": {}, "here": {},
	"through": {}, "when": {}, "where": {},
}

// ExtractTopics returns the most frequent salient terms in the text,
// at most MaxTopics, ordered by descending frequency with ties broken
// alphabetically for determinism. Frequency-based, not ML-grade.
func ExtractTopics(text string) []string {
	freq := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		if len(word) <= 4 {
			continue
		}
		freq[word]++
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > MaxTopics {
		terms = terms[:MaxTopics]
	}
	return terms
}
