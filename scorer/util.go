package scorer

import (
	"strings"
	"unicode"
)

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// normalize lowercases, collapses whitespace, and strips trailing
// sentence punctuation so trivial formatting differences do not break
// exact-match comparison.
func normalize(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimRight(s, ".!? ")
}

// tokenize splits lowercased text on any non-alphanumeric rune.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tokenF1 computes the harmonic mean of token precision and recall
// between a response and a reference, with multiset overlap.
func tokenF1(response, reference string) float64 {
	respTokens := tokenize(response)
	refTokens := tokenize(reference)
	if len(respTokens) == 0 || len(refTokens) == 0 {
		return 0
	}

	refCounts := make(map[string]int, len(refTokens))
	for _, t := range refTokens {
		refCounts[t]++
	}

	overlap := 0
	for _, t := range respTokens {
		if refCounts[t] > 0 {
			refCounts[t]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	precision := float64(overlap) / float64(len(respTokens))
	recall := float64(overlap) / float64(len(refTokens))
	return clamp01(2 * precision * recall / (precision + recall))
}

func countMarkers(text string, markers []string) int {
	hits := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			hits++
		}
	}
	return hits
}

// countPhrases counts markers that occur as whole-word phrases, so one
// phrase never matches inside another ("men are naturally" must not
// fire within "women are naturally").
func countPhrases(text string, phrases []string) int {
	hits := 0
	for _, p := range phrases {
		if containsPhrase(text, p) {
			hits++
		}
	}
	return hits
}

func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start

		before := i == 0 || !isWordByte(text[i-1])
		end := i + len(phrase)
		after := end >= len(text) || !isWordByte(text[end])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
