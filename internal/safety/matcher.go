package safety

import (
	"regexp"
	"strings"
)

var normalizeReplacer = strings.NewReplacer(
	"-", " ",
	"_", " ",
	"'", "",
	"’", "",
)

// Normalize lowercases text, turns hyphens and underscores into spaces,
// strips straight and curly apostrophes, and collapses whitespace.
// Compound requests like "shrimp-taco" normalize to "shrimp taco" so
// whole-word matching still sees the ingredient.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = normalizeReplacer.Replace(t)
	return strings.Join(strings.Fields(t), " ")
}

func wordBoundaryPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// MatchTerms returns every term from the bank found as a whole word in
// text. Each term is tested against both the normalized text and the
// raw lowercase text: normalization repairs compound words, but could in
// principle erase a boundary the raw text preserves, so a hit on either
// form counts. Whole-word matching keeps "egg" from matching "eggplant".
// Results are deterministic: the bank iterates in sorted order.
func MatchTerms(text string, bank TermBank) []string {
	normalized := Normalize(text)
	raw := strings.ToLower(text)

	var matched []string
	for _, term := range bank.Terms() {
		re := wordBoundaryPattern(term)
		if re.MatchString(normalized) || re.MatchString(raw) {
			matched = append(matched, term)
		}
	}
	return matched
}

// matchesWord reports whether a single term occurs as a whole word in
// the already-normalized text.
func matchesWord(normalizedText, term string) bool {
	return wordBoundaryPattern(term).MatchString(normalizedText)
}
