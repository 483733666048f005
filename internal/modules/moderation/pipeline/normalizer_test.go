package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsURLs(t *testing.T) {
	tokens := Normalize("look at https://example.test/page and www.spam.com now")
	assert.NotContains(t, tokens, "https")
	assert.NotContains(t, tokens, "example")
	assert.NotContains(t, tokens, "spam")
	assert.Contains(t, tokens, "look")
}

func TestNormalize_StripsEmojiAndSymbols(t *testing.T) {
	tokens := Normalize("great shot!!! 🔥🔥🔥 $$$")
	assert.Equal(t, []string{"great", "shot"}, tokens)
}

func TestNormalize_LowercasesAndDropsStopwords(t *testing.T) {
	tokens := Normalize("This IS the NICEST photo")
	assert.Equal(t, []string{"nicest", "photo"}, tokens)
}

func TestNormalize_DropsSingleRuneTokens(t *testing.T) {
	tokens := Normalize("I x 9 am ok")
	assert.NotContains(t, tokens, "x")
	assert.NotContains(t, tokens, "9")
}

func TestNormalize_Lemmatizes(t *testing.T) {
	tokens := Normalize("photos stories watches")
	assert.Equal(t, []string{"photo", "story", "watch"}, tokens)
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Nil(t, Normalize(""))
	assert.Nil(t, Normalize("   "))
	assert.Empty(t, Normalize("🔥🔥"))
}

func TestNormalize_Deterministic(t *testing.T) {
	text := "Check this out www.spam.com!!! 🔥🔥🔥 make $$ fast"
	first := Normalize(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Normalize(text))
	}
	assert.Equal(t, []string{"check", "make", "fast"}, first)
}

func TestNormalizeJoined(t *testing.T) {
	assert.Equal(t, "lovely photo", NormalizeJoined("This is a LOVELY photo!"))
	assert.Equal(t, "", NormalizeJoined("the of and"))
}

func TestLemmatize(t *testing.T) {
	cases := map[string]string{
		"photos":   "photo",
		"stories":  "story",
		"boxes":    "box",
		"churches": "church",
		"classes":  "class",
		"dresses":  "dress",
		"men":      "man",
		"children": "child",
		"glasses":  "glass",
		"bus":      "bus",
		"analysis": "analysis",
		"photo":    "photo",
	}
	for in, want := range cases {
		assert.Equal(t, want, Lemmatize(in), "lemma of %q", in)
	}
}
