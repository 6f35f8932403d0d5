package srd

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// DefaultSuggestThreshold is the minimum Jaro-Winkler similarity for a
// record name to be offered as a "did you mean" suggestion.
const DefaultSuggestThreshold = 0.80

// maxSuggestions caps how many suggestions a single query can produce.
const maxSuggestions = 3

// Suggest returns record names of a resource that are close to query by
// Jaro-Winkler similarity, best first, for "did you mean" hints after a
// failed search. A threshold <= 0 falls back to
// [DefaultSuggestThreshold]. Unknown resources yield nil.
func (l *Library) Suggest(resource, query string, threshold float64) []string {
	names := l.names[resource]
	if len(names) == 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultSuggestThreshold
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	for _, name := range names {
		score := matchr.JaroWinkler(queryLower, strings.ToLower(name), false)
		if score >= threshold {
			candidates = append(candidates, scored{name: name, score: score})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
