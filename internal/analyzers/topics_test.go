package analyzers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTopicsOrdersByFrequency(t *testing.T) {
	text := "revenue revenue revenue forecast forecast margin"
	topics := ExtractTopics(text)
	assert.Equal(t, []string{"revenue", "forecast", "margin"}, topics)
}

func TestExtractTopicsIgnoresShortAndStopWords(t *testing.T) {
	text := "this that would could revenue cat dog the and with"
	topics := ExtractTopics(text)
	assert.Equal(t, []string{"revenue"}, topics)
}

func TestExtractTopicsCaseInsensitive(t *testing.T) {
	topics := ExtractTopics("Revenue REVENUE revenue")
	assert.Equal(t, []string{"revenue"}, topics)
}

func TestExtractTopicsTieBreaksAlphabetically(t *testing.T) {
	topics := ExtractTopics("zebra apple zebra apple")
	assert.Equal(t, []string{"apple", "zebra"}, topics)
}

func TestExtractTopicsCapped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "uniqueword%c ", 'a'+rune(i%26))
	}
	topics := ExtractTopics(b.String())
	assert.LessOrEqual(t, len(topics), MaxTopics)
}

func TestExtractTopicsEmptyText(t *testing.T) {
	assert.Empty(t, ExtractTopics(""))
}
