// Package teams reconciles team names across data sources.
package teams

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	matchThreshold  = 0.7
	containsScore   = 0.8
	exactMatchScore = 1.0
)

// Normalizer resolves display names to canonical names using an alias table.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	canonical map[string]string   // folded variant or canonical -> canonical
	variants  map[string][]string // canonical -> variants
}

func NewNormalizer(aliases map[string][]string) *Normalizer {
	n := &Normalizer{
		canonical: make(map[string]string),
		variants:  make(map[string][]string, len(aliases)),
	}
	for canonical, variants := range aliases {
		n.variants[canonical] = append([]string(nil), variants...)
		for _, v := range variants {
			n.canonical[key(v)] = canonical
		}
		n.canonical[key(canonical)] = canonical
	}
	return n
}

// Normalize returns the canonical spelling of name, or the trimmed name when it is unknown.
func (n *Normalizer) Normalize(name string) string {
	if canonical, ok := n.canonical[key(name)]; ok {
		return canonical
	}
	return strings.TrimSpace(name)
}

// Variants returns the known alternate spellings of a canonical name.
func (n *Normalizer) Variants(canonical string) []string {
	return append([]string(nil), n.variants[n.Normalize(canonical)]...)
}

// Match returns the candidate that refers to the same team as source.
// Canonical alias matches win outright; otherwise the most similar candidate above the
// threshold is returned, keeping the first one on ties.
func (n *Normalizer) Match(source string, candidates []string) (string, bool) {
	want := key(n.Normalize(source))
	for _, c := range candidates {
		if key(n.Normalize(c)) == want {
			return c, true
		}
	}

	var best string
	bestScore := 0.0
	for _, c := range candidates {
		score := Similarity(source, c)
		if score > matchThreshold && score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best, bestScore > 0
}

// Similarity scores two names in [0,1]: 1 for equal names, 0.8 when one contains the other,
// otherwise the Levenshtein distance normalized by the longer name.
func Similarity(a, b string) float64 {
	s1, s2 := key(a), key(b)
	if s1 == s2 {
		return exactMatchScore
	}
	if s1 == "" || s2 == "" {
		return 0
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return containsScore
	}
	distance := fuzzy.LevenshteinDistance(s1, s2)
	maxLen := float64(max(utf8.RuneCountInString(s1), utf8.RuneCountInString(s2)))
	return 1 - float64(distance)/maxLen
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func key(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		return name
	}
	return strings.Join(strings.Fields(folded), " ")
}
