package pipeline

import (
	"regexp"
	"strings"
)

// The normalizer is a pure function: the same input always produces the same
// token sequence. The step order is part of the feature-space contract:
// URLs are stripped before symbol cleanup so "www.spam.com" never survives
// as alphanumeric fragments, and stopword removal runs on lowercased tokens.
var (
	urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

	emojiPattern = regexp.MustCompile(`[` +
		`\x{1F600}-\x{1F64F}` + // emoticons
		`\x{1F300}-\x{1F5FF}` + // symbols & pictographs
		`\x{1F680}-\x{1F6FF}` + // transport & map
		`\x{1F1E0}-\x{1F1FF}` + // flags
		`\x{2702}-\x{27B0}` +
		`\x{24C2}-\x{1F251}` +
		`\x{1F900}-\x{1F9FF}` + // supplemental
		`\x{1FA00}-\x{1FA6F}` + // chess
		`\x{1FA70}-\x{1FAFF}` + // extended-A
		`]+`)

	specialCharsPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Normalize runs the full preprocessing pipeline on raw comment text:
// strip URLs, strip emoji, strip non-alphanumeric symbols, lowercase,
// tokenize, drop stopwords and single-rune tokens, lemmatize.
// An empty result is legal and flows through vectorization as-is.
func Normalize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	text = urlPattern.ReplaceAllString(text, "")
	text = emojiPattern.ReplaceAllString(text, "")
	text = specialCharsPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len([]rune(tok)) <= 1 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, Lemmatize(tok))
	}
	return tokens
}

// NormalizeJoined returns the normalized tokens re-joined with single spaces,
// the form cached on stored comments and used for keyword analytics.
func NormalizeJoined(text string) string {
	return strings.Join(Normalize(text), " ")
}
