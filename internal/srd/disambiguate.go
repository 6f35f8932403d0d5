package srd

import "strings"

// Outcome classifies the result of resolving a query against its matches.
type Outcome int

const (
	// OutcomeNotFound means the query matched no records.
	OutcomeNotFound Outcome = iota

	// OutcomeResolved means exactly one record was selected.
	OutcomeResolved

	// OutcomeAmbiguous means several records matched and none of their
	// names equals the query; the caller should present the candidates.
	OutcomeAmbiguous
)

// Resolution is the terminal outcome of disambiguating one query.
type Resolution struct {
	Outcome Outcome

	// Index is the position of the selected match. Valid only when
	// Outcome is OutcomeResolved.
	Index int

	// Candidates holds the matched names, in match order, when Outcome
	// is OutcomeAmbiguous.
	Candidates []string
}

// Disambiguate decides how a query resolves against the ordered names of
// its substring matches:
//
//   - no matches → not found;
//   - a name equal to the query (case-insensitive) → resolved to that
//     record, even when other names also matched as substrings — this
//     guards against queries like "mass heal" also matching
//     "Mass Healing Word";
//   - exactly one match → resolved to it;
//   - anything else → ambiguous, carrying the candidate names.
func Disambiguate(query string, names []string) Resolution {
	if len(names) == 0 {
		return Resolution{Outcome: OutcomeNotFound}
	}

	queryLower := strings.ToLower(query)
	for i, name := range names {
		if strings.ToLower(name) == queryLower {
			return Resolution{Outcome: OutcomeResolved, Index: i}
		}
	}

	if len(names) == 1 {
		return Resolution{Outcome: OutcomeResolved, Index: 0}
	}
	return Resolution{Outcome: OutcomeAmbiguous, Candidates: names}
}
