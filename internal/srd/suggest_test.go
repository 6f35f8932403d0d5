package srd

import "testing"

func TestSuggest(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t)

	got := lib.Suggest("spells", "firebal", 0)
	if len(got) == 0 {
		t.Fatal("expected a suggestion for a near-miss query")
	}
	if got[0] != "Fireball" {
		t.Errorf("Suggest[0] = %q, want Fireball", got[0])
	}
}

func TestSuggest_NoCloseNames(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t)

	if got := lib.Suggest("spells", "xyzzy", 0); got != nil {
		t.Errorf("Suggest = %v, want nil", got)
	}
}

func TestSuggest_UnknownResource(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t)

	if got := lib.Suggest("planes", "fire", 0); got != nil {
		t.Errorf("Suggest = %v, want nil", got)
	}
}

func TestSuggest_EmptyQuery(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t)

	if got := lib.Suggest("spells", "   ", 0); got != nil {
		t.Errorf("Suggest = %v, want nil", got)
	}
}
