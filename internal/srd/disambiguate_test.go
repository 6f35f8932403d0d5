package srd

import "testing"

func TestDisambiguate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		query       string
		matches     []string
		wantOutcome Outcome
		wantIndex   int
	}{
		{
			name:        "zero matches",
			query:       "wish",
			matches:     nil,
			wantOutcome: OutcomeNotFound,
		},
		{
			name:        "single match resolves",
			query:       "fire",
			matches:     []string{"Fireball"},
			wantOutcome: OutcomeResolved,
			wantIndex:   0,
		},
		{
			name:        "exact match beats positional first",
			query:       "mass heal",
			matches:     []string{"Mass Heal", "Mass Healing Word"},
			wantOutcome: OutcomeResolved,
			wantIndex:   0,
		},
		{
			name:        "exact match later in the list",
			query:       "mass healing word",
			matches:     []string{"Mass Heal", "Mass Healing Word"},
			wantOutcome: OutcomeResolved,
			wantIndex:   1,
		},
		{
			name:        "exact match is case-insensitive",
			query:       "MASS HEAL",
			matches:     []string{"Mass Heal", "Mass Healing Word"},
			wantOutcome: OutcomeResolved,
			wantIndex:   0,
		},
		{
			name:        "several matches without exact name",
			query:       "heal",
			matches:     []string{"Heal", "Healing Word", "Mass Heal"},
			wantOutcome: OutcomeResolved, // "Heal" is an exact hit
			wantIndex:   0,
		},
		{
			name:        "ambiguous",
			query:       "bolt",
			matches:     []string{"Lightning Bolt", "Witch Bolt"},
			wantOutcome: OutcomeAmbiguous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Disambiguate(tt.query, tt.matches)
			if res.Outcome != tt.wantOutcome {
				t.Fatalf("Outcome = %d, want %d", res.Outcome, tt.wantOutcome)
			}
			if res.Outcome == OutcomeResolved && res.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", res.Index, tt.wantIndex)
			}
			if res.Outcome == OutcomeAmbiguous {
				if len(res.Candidates) != len(tt.matches) {
					t.Errorf("Candidates = %v, want %v", res.Candidates, tt.matches)
				}
			}
		})
	}
}

func TestSearchThenDisambiguate_MassHeal(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t)

	matches, truncated := lib.Search("spells", "name", "mass heal", DefaultLimit)
	if truncated {
		t.Fatal("unexpected truncation")
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}

	res := Disambiguate("mass heal", names)
	if res.Outcome != OutcomeResolved {
		t.Fatalf("Outcome = %d, want resolved", res.Outcome)
	}
	if matches[res.Index].Name != "Mass Heal" {
		t.Errorf("resolved to %q, want Mass Heal", matches[res.Index].Name)
	}
}
