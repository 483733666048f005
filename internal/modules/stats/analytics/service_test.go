package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyHistogram(t *testing.T) {
	buckets := emptyHistogram()
	require.Len(t, buckets, 10)
	assert.Equal(t, 0.0, buckets[0].Low)
	assert.Equal(t, 0.1, buckets[0].High)
	assert.Equal(t, 0.9, buckets[9].Low)
	assert.Equal(t, 1.0, buckets[9].High)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func TestAddToHistogram_Binning(t *testing.T) {
	buckets := emptyHistogram()

	addToHistogram(buckets, 0)
	addToHistogram(buckets, 0.05)
	addToHistogram(buckets, 0.1)
	addToHistogram(buckets, 0.95)
	addToHistogram(buckets, 1.0)

	assert.Equal(t, int64(2), buckets[0].Count)
	assert.Equal(t, int64(1), buckets[1].Count)
	// 1.0 lands in the last bucket, not past it.
	assert.Equal(t, int64(2), buckets[9].Count)
}

func TestTopKeywords_CountsAndOrder(t *testing.T) {
	texts := []string{
		"free money click",
		"free money now",
		"free iphone",
	}
	keywords := topKeywords(texts, 15)
	require.NotEmpty(t, keywords)

	assert.Equal(t, KeywordCount{Keyword: "free", Count: 3}, keywords[0])
	assert.Equal(t, KeywordCount{Keyword: "money", Count: 2}, keywords[1])

	// Singletons tie-break alphabetically.
	assert.Equal(t, "click", keywords[2].Keyword)
	assert.Equal(t, "iphone", keywords[3].Keyword)
	assert.Equal(t, "now", keywords[4].Keyword)
}

func TestTopKeywords_Limit(t *testing.T) {
	keywords := topKeywords([]string{"a b c d e"}, 3)
	assert.Len(t, keywords, 3)

	assert.Empty(t, topKeywords(nil, 15))
}
