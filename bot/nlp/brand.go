package nlp

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const brandSimilarityThreshold = 0.6

// MatchBrand finds which of the given brands the text refers to. Exact
// matching on normalized brand tokens runs first; only when nothing matches
// exactly does it fall back to edit-distance similarity per word.
func MatchBrand(text string, brands []string) (string, bool) {
	n := Normalize(text)
	if n == "" {
		return "", false
	}

	for _, brand := range brands {
		for _, tok := range strings.Fields(Normalize(brand)) {
			if strings.Contains(n, tok) {
				return brand, true
			}
		}
	}

	words := strings.Fields(n)
	for _, brand := range brands {
		for _, tok := range strings.Fields(Normalize(brand)) {
			for _, w := range words {
				if similarity(tok, w) >= brandSimilarityThreshold {
					return brand, true
				}
			}
		}
	}
	return "", false
}

func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
