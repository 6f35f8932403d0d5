package namegen

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// weightedTable is a precompiled discrete distribution over symbols.
// Symbols are kept in sorted order so that draws from a seeded [rand.Rand]
// are reproducible; map iteration order would not be.
type weightedTable struct {
	symbols []string
	weights []float64
	total   float64
}

// newWeightedTable compiles a symbol→weight map into a weightedTable.
// Entries with non-positive weight are dropped.
func newWeightedTable(entries map[string]float64) (weightedTable, error) {
	symbols := make([]string, 0, len(entries))
	for s := range entries {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var t weightedTable
	for _, s := range symbols {
		w := entries[s]
		if w <= 0 {
			continue
		}
		t.symbols = append(t.symbols, s)
		t.weights = append(t.weights, w)
		t.total += w
	}
	if t.total <= 0 {
		return weightedTable{}, fmt.Errorf("namegen: weighted table has no positive weights")
	}
	return t, nil
}

// choose draws one symbol according to its weight.
func (t weightedTable) choose(rng *rand.Rand) string {
	r := rng.Float64() * t.total
	for i, w := range t.weights {
		r -= w
		if r < 0 {
			return t.symbols[i]
		}
	}
	// Float round-off can leave r at exactly 0 after the loop.
	return t.symbols[len(t.symbols)-1]
}

// weightedIndex draws an index from a positional weight list, e.g. the
// syllable-count distribution where index i carries weights[i].
func weightedIndex(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}
