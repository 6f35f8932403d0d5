// Package namegen generates procedural character names from per-race
// phonology tables, plus random bonds and flaws from curated lists.
//
// The tables describe a race's name phonology in IPA symbols: weighted
// onset, nucleus and coda inventories, vowel length and tone marks, and
// a syllable-count distribution. Generation is stateless weighted
// sampling — every call draws from a fresh random source unless the
// caller supplies one.
package namegen

import (
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// phonologySpec is the YAML shape of one race+gender table.
type phonologySpec struct {
	// Syl holds the syllable-count weights: Syl[i] is the weight of a
	// name with i+1 syllables.
	Syl []float64 `yaml:"syl"`

	// SyllableStructures holds [onsets-per-syllable, codas-per-syllable].
	SyllableStructures []int `yaml:"syllable_structures"`

	// Vowels holds [nuclei-per-syllable, tones-per-vowel].
	Vowels []int `yaml:"vowels"`

	Onset   map[string]float64 `yaml:"onset"`
	Nucleus map[string]float64 `yaml:"nucleus"`
	Length  map[string]float64 `yaml:"length"`
	Tones   map[string]float64 `yaml:"tones"`
	Coda    map[string]float64 `yaml:"coda"`
}

// phonology is a compiled, draw-ready table.
type phonology struct {
	syllables []float64
	onsets    int
	codas     int
	nuclei    int
	tones     int

	onset   weightedTable
	nucleus weightedTable
	length  weightedTable
	tone    weightedTable
	coda    weightedTable
}

// Generator produces names from loaded phonology tables. Read-only after
// [Load]; safe for concurrent use.
type Generator struct {
	tables map[string]map[string]phonology // race → gender initial → table
}

// Load reads the YAML phonology tables from path. The file maps race
// names to gender keys ("m", "f") to phonology specs. Malformed tables
// are a fatal error since the data is curated and loaded once.
func Load(path string) (*Generator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("namegen: read %q: %w", path, err)
	}

	var raw map[string]map[string]phonologySpec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("namegen: parse %q: %w", path, err)
	}

	g := &Generator{tables: make(map[string]map[string]phonology, len(raw))}
	for race, genders := range raw {
		g.tables[race] = make(map[string]phonology, len(genders))
		for gender, spec := range genders {
			table, err := compile(spec)
			if err != nil {
				return nil, fmt.Errorf("namegen: table %s/%s: %w", race, gender, err)
			}
			g.tables[race][gender] = table
		}
	}
	return g, nil
}

// compile validates a spec and precompiles its weighted tables.
func compile(spec phonologySpec) (phonology, error) {
	if len(spec.Syl) == 0 {
		return phonology{}, fmt.Errorf("missing syllable weights")
	}
	var sylTotal float64
	for _, w := range spec.Syl {
		if w > 0 {
			sylTotal += w
		}
	}
	if sylTotal <= 0 {
		return phonology{}, fmt.Errorf("syllable weights sum to zero")
	}
	if len(spec.SyllableStructures) < 2 {
		return phonology{}, fmt.Errorf("syllable_structures needs [onsets, codas]")
	}
	if len(spec.Vowels) < 2 {
		return phonology{}, fmt.Errorf("vowels needs [nuclei, tones]")
	}

	p := phonology{
		syllables: spec.Syl,
		onsets:    spec.SyllableStructures[0],
		codas:     spec.SyllableStructures[1],
		nuclei:    spec.Vowels[0],
		tones:     spec.Vowels[1],
	}

	var err error
	if p.onset, err = newWeightedTable(spec.Onset); err != nil {
		return phonology{}, fmt.Errorf("onset: %w", err)
	}
	if p.nucleus, err = newWeightedTable(spec.Nucleus); err != nil {
		return phonology{}, fmt.Errorf("nucleus: %w", err)
	}
	if p.length, err = newWeightedTable(spec.Length); err != nil {
		return phonology{}, fmt.Errorf("length: %w", err)
	}
	if p.tones > 0 {
		if p.tone, err = newWeightedTable(spec.Tones); err != nil {
			return phonology{}, fmt.Errorf("tones: %w", err)
		}
	}
	if p.codas > 0 {
		if p.coda, err = newWeightedTable(spec.Coda); err != nil {
			return phonology{}, fmt.Errorf("coda: %w", err)
		}
	}
	return p, nil
}

// Races returns the loaded race names in sorted order.
func (g *Generator) Races() []string {
	out := make([]string, 0, len(g.tables))
	for race := range g.tables {
		out = append(out, race)
	}
	sort.Strings(out)
	return out
}

// Generate produces one name for the given race and gender using a
// freshly seeded random source.
func (g *Generator) Generate(race, gender string) (string, error) {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	return g.GenerateWith(rng, race, gender)
}

// GenerateWith produces one name using the supplied random source, which
// makes output reproducible for a fixed seed. Gender is matched on its
// first letter ("m", "male", "f", "female" all work).
func (g *Generator) GenerateWith(rng *rand.Rand, race, gender string) (string, error) {
	genders, ok := g.tables[strings.ToLower(race)]
	if !ok {
		return "", fmt.Errorf("namegen: unknown race %q", race)
	}
	genderKey := strings.ToLower(gender)
	if genderKey == "" {
		return "", fmt.Errorf("namegen: gender is required")
	}
	table, ok := genders[genderKey[:1]]
	if !ok {
		return "", fmt.Errorf("namegen: no %q table for race %q", gender, race)
	}

	syllables := weightedIndex(rng, table.syllables) + 1

	var b strings.Builder
	for s := 0; s < syllables; s++ {
		for i := 0; i < table.onsets; i++ {
			b.WriteString(table.onset.choose(rng))
		}
		for i := 0; i < table.nuclei; i++ {
			b.WriteString(table.nucleus.choose(rng))
			b.WriteString(table.length.choose(rng))
			for j := 0; j < table.tones; j++ {
				b.WriteString(table.tone.choose(rng))
			}
		}
		for i := 0; i < table.codas; i++ {
			b.WriteString(table.coda.choose(rng))
		}
	}

	name := b.String()
	// Short human names take a vowel postfix.
	if strings.ToLower(race) == "human" && syllables <= 2 {
		name += "i"
	}
	return name, nil
}
