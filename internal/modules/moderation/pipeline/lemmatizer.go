package pipeline

import "strings"

// irregularLemmas maps irregular English forms to their base form. The table
// is fixed: lemmatization must be deterministic across server lifetimes or
// scores stop being comparable against the same model artifact.
var irregularLemmas = map[string]string{
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"people":   "person",
	"feet":     "foot",
	"teeth":    "tooth",
	"geese":    "goose",
	"mice":     "mouse",
	"went":     "go",
	"gone":     "go",
	"made":     "make",
	"got":      "get",
	"better":   "good",
	"best":     "good",
	"worse":    "bad",
	"worst":    "bad",
	"leaves":   "leaf",
	"wives":    "wife",
	"knives":   "knife",
	"lives":    "life",
}

// noSingular holds tokens that look plural but are not.
var noSingular = map[string]struct{}{
	"as": {}, "is": {}, "us": {}, "was": {}, "this": {}, "his": {},
	"thus": {}, "news": {}, "bonus": {}, "plus": {}, "always": {},
	"perhaps": {}, "yes": {}, "gas": {}, "bus": {}, "class": {},
	"business": {}, "series": {}, "ss": {},
}

// Lemmatize reduces a lowercased token to its dictionary base form using the
// irregular table plus plural-noun suffix rules.
func Lemmatize(token string) string {
	if base, ok := irregularLemmas[token]; ok {
		return base
	}
	if _, keep := noSingular[token]; keep {
		return token
	}
	if len(token) < 3 || !strings.HasSuffix(token, "s") {
		return token
	}

	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		// parties -> party
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "sses"):
		// classes -> class
		return token[:len(token)-2]
	case strings.HasSuffix(token, "xes"), strings.HasSuffix(token, "zes"),
		strings.HasSuffix(token, "ches"), strings.HasSuffix(token, "shes"):
		// boxes -> box, watches -> watch
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ss"), strings.HasSuffix(token, "us"),
		strings.HasSuffix(token, "is"):
		return token
	default:
		// comments -> comment
		return token[:len(token)-1]
	}
}
