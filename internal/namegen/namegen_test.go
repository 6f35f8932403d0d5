package namegen

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tablesYAML = `
dwarf:
  m:
    syl: [1, 2, 1]
    syllable_structures: [1, 1]
    vowels: [1, 0]
    onset: {b: 2, d: 1, g: 1}
    nucleus: {a: 3, o: 1, u: 1}
    length: {"": 4, "ː": 1}
    coda: {r: 2, n: 1, k: 1}
human:
  f:
    syl: [3, 1]
    syllable_structures: [1, 0]
    vowels: [1, 0]
    onset: {m: 1, l: 1}
    nucleus: {a: 1, e: 1}
    length: {"": 1}
`

func writeTables(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "namegen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tables: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	g, err := Load(writeTables(t, tablesYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(g.Races()) != 2 {
		t.Errorf("Races = %v, want 2 entries", g.Races())
	}
}

func TestLoad_MalformedTable(t *testing.T) {
	t.Parallel()

	// A table without syllable weights is rejected at load time.
	bad := `
dwarf:
  m:
    syllable_structures: [1, 1]
    vowels: [1, 0]
    onset: {b: 1}
    nucleus: {a: 1}
    length: {"": 1}
`
	if _, err := Load(writeTables(t, bad)); err == nil {
		t.Fatal("expected error for table without syllable weights")
	}
}

func TestLoad_ZeroSyllableWeights(t *testing.T) {
	t.Parallel()

	bad := `
dwarf:
  m:
    syl: [0, 0]
    syllable_structures: [1, 0]
    vowels: [1, 0]
    onset: {b: 1}
    nucleus: {a: 1}
    length: {"": 1}
`
	if _, err := Load(writeTables(t, bad)); err == nil {
		t.Fatal("expected error for all-zero syllable weights")
	}
}

func TestGenerateWith_Deterministic(t *testing.T) {
	t.Parallel()

	g, err := Load(writeTables(t, tablesYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	first, err := g.GenerateWith(rand.New(rand.NewPCG(7, 13)), "dwarf", "male")
	if err != nil {
		t.Fatalf("GenerateWith: %v", err)
	}
	second, err := g.GenerateWith(rand.New(rand.NewPCG(7, 13)), "dwarf", "male")
	if err != nil {
		t.Fatalf("GenerateWith: %v", err)
	}
	if first != second {
		t.Errorf("same seed produced %q and %q", first, second)
	}
	if first == "" {
		t.Error("generated name is empty")
	}
}

func TestGenerateWith_SymbolsComeFromTables(t *testing.T) {
	t.Parallel()

	g, err := Load(writeTables(t, tablesYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		name, err := g.GenerateWith(rng, "dwarf", "m")
		if err != nil {
			t.Fatalf("GenerateWith: %v", err)
		}
		for _, r := range name {
			if !strings.ContainsRune("bdgaouːrnk", r) {
				t.Fatalf("name %q contains symbol %q not in any table", name, r)
			}
		}
	}
}

func TestGenerateWith_HumanShortNamePostfix(t *testing.T) {
	t.Parallel()

	g, err := Load(writeTables(t, tablesYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The human table allows only one or two syllables, so every name
	// gets the short-name postfix.
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 20; i++ {
		name, err := g.GenerateWith(rng, "human", "female")
		if err != nil {
			t.Fatalf("GenerateWith: %v", err)
		}
		if !strings.HasSuffix(name, "i") {
			t.Fatalf("short human name %q lacks postfix", name)
		}
	}
}

func TestGenerateWith_UnknownRaceOrGender(t *testing.T) {
	t.Parallel()

	g, err := Load(writeTables(t, tablesYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	rng := rand.New(rand.NewPCG(5, 6))
	if _, err := g.GenerateWith(rng, "gnome", "m"); err == nil {
		t.Error("expected error for unknown race")
	}
	if _, err := g.GenerateWith(rng, "dwarf", "f"); err == nil {
		t.Error("expected error for missing gender table")
	}
	if _, err := g.GenerateWith(rng, "dwarf", ""); err == nil {
		t.Error("expected error for empty gender")
	}
}

func TestWeightedIndex_Distribution(t *testing.T) {
	t.Parallel()

	// With weights [1, 0, 3] index 1 must never appear and index 2 should
	// dominate over a large sample.
	rng := rand.New(rand.NewPCG(11, 17))
	counts := make([]int, 3)
	for i := 0; i < 4000; i++ {
		counts[weightedIndex(rng, []float64{1, 0, 3})]++
	}
	if counts[1] != 0 {
		t.Errorf("zero-weight index drawn %d times", counts[1])
	}
	if counts[2] <= counts[0] {
		t.Errorf("weights ignored: counts = %v", counts)
	}
}

func TestLists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bonds := filepath.Join(dir, "bonds.txt")
	flaws := filepath.Join(dir, "flaws.txt")
	if err := os.WriteFile(bonds, []byte("I owe everything to my mentor.\n\nMy town is my home.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(flaws, []byte("I can't resist a pretty face.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lists, err := LoadLists(bonds, flaws)
	if err != nil {
		t.Fatalf("LoadLists: %v", err)
	}

	if b := lists.Bond(); !strings.Contains(b, "my") && !strings.Contains(b, "My") {
		t.Errorf("Bond = %q, not from the list", b)
	}
	if f := lists.Flaw(); f != "I can't resist a pretty face." {
		t.Errorf("Flaw = %q", f)
	}
}

func TestLoadLists_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bonds := filepath.Join(dir, "bonds.txt")
	flaws := filepath.Join(dir, "flaws.txt")
	if err := os.WriteFile(bonds, []byte("\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(flaws, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadLists(bonds, flaws); err == nil {
		t.Fatal("expected error for empty bonds file")
	}
}
