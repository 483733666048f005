package pipeline

import (
	"errors"
	"math"
	"sort"
)

// Vectorizer maps normalized token sequences to fixed-width TF-IDF vectors
// over a vocabulary of unigrams and bigrams learned once at fit time. It is
// frozen after fitting: inference never mutates it, so it is safe for
// unsynchronized concurrent Transform calls. Fields are exported for the
// msgpack-persisted model artifact.
type Vectorizer struct {
	MaxFeatures int            `msgpack:"max_features"`
	MinDF       int            `msgpack:"min_df"`
	MaxDF       float64        `msgpack:"max_df"`
	Vocabulary  map[string]int `msgpack:"vocabulary"`
	IDF         []float64      `msgpack:"idf"`
	Documents   int            `msgpack:"documents"`
}

// ErrNotFitted is returned when Transform is called before Fit.
var ErrNotFitted = errors.New("vectorizer has not been fitted")

// NewVectorizer returns an unfitted vectorizer with the production settings:
// 5000 features max, terms must appear in at least 2 documents and in at
// most 95% of them.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: 5000,
		MinDF:       2,
		MaxDF:       0.95,
	}
}

// ngrams expands a token sequence into its unigram and bigram terms.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// Fit learns the vocabulary and IDF table from normalized documents.
// Term selection is deterministic: candidates passing the document-frequency
// bounds are ranked by corpus frequency with lexicographic tie-break, and
// column indices are assigned in sorted term order.
func (v *Vectorizer) Fit(docs [][]string) {
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range ngrams(doc) {
			tf[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	maxDocs := int(v.MaxDF * float64(len(docs)))
	candidates := make([]string, 0, len(df))
	for term, n := range df {
		if n < v.MinDF || (len(docs) > 1 && n > maxDocs) {
			continue
		}
		candidates = append(candidates, term)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if tf[a] != tf[b] {
			return tf[a] > tf[b]
		}
		return a < b
	})
	if v.MaxFeatures > 0 && len(candidates) > v.MaxFeatures {
		candidates = candidates[:v.MaxFeatures]
	}
	sort.Strings(candidates)

	v.Documents = len(docs)
	v.Vocabulary = make(map[string]int, len(candidates))
	v.IDF = make([]float64, len(candidates))
	for i, term := range candidates {
		v.Vocabulary[term] = i
		// smoothed idf: ln((1+n)/(1+df)) + 1
		v.IDF[i] = math.Log(float64(1+v.Documents)/float64(1+df[term])) + 1
	}
}

// Dim returns the width of produced feature vectors.
func (v *Vectorizer) Dim() int { return len(v.IDF) }

// Transform produces the TF-IDF vector for a normalized token sequence.
// Out-of-vocabulary terms contribute nothing; an empty or fully-OOV input
// yields the zero vector, never an error. Term weights use sublinear TF
// (1 + ln tf) and the row is L2-normalized.
func (v *Vectorizer) Transform(tokens []string) ([]float64, error) {
	if v.Vocabulary == nil {
		return nil, ErrNotFitted
	}

	counts := make(map[int]int)
	for _, term := range ngrams(tokens) {
		if col, ok := v.Vocabulary[term]; ok {
			counts[col]++
		}
	}

	vec := make([]float64, v.Dim())
	for col, n := range counts {
		vec[col] = (1 + math.Log(float64(n))) * v.IDF[col]
	}
	// Accumulate the norm in column order; map order would make the last
	// bits of the sum vary between calls.
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range counts {
			vec[col] /= norm
		}
	}
	return vec, nil
}
