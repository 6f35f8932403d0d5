// Package dice evaluates standard dice expressions of the form NdS,
// NdS+M, or NdS-M. N is the number of dice (defaults to 1 when
// omitted), S is the number of sides, and M is an optional integer
// modifier.
//
// Randomness uses [math/rand/v2] with a per-process automatically
// seeded source.
package dice

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Rolling limits. Discord messages cap what can sensibly be displayed,
// and nothing in the game needs more.
const (
	MaxCount = 100
	MaxSides = 1000
)

// Expression is a parsed dice expression.
type Expression struct {
	Count    int
	Sides    int
	Modifier int
}

// String renders the expression in canonical NdS±M form.
func (e Expression) String() string {
	s := fmt.Sprintf("%dd%d", e.Count, e.Sides)
	switch {
	case e.Modifier > 0:
		s += fmt.Sprintf("+%d", e.Modifier)
	case e.Modifier < 0:
		s += strconv.Itoa(e.Modifier)
	}
	return s
}

// Result holds the outcome of rolling an expression.
type Result struct {
	Expression Expression

	// Rolls holds the individual die results before the modifier.
	Rolls []int

	// Total is the sum of all rolls plus the modifier.
	Total int
}

// Parse parses a dice expression. Returns a descriptive error for
// malformed input or counts/sides outside the rolling limits.
func Parse(expr string) (Expression, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))

	dIdx := strings.Index(expr, "d")
	if dIdx == -1 {
		return Expression{}, fmt.Errorf("dice: invalid expression %q: missing 'd' separator", expr)
	}

	var e Expression
	var err error

	// Parse count (the part before 'd').
	countStr := expr[:dIdx]
	if countStr == "" {
		e.Count = 1
	} else {
		e.Count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid dice count %q in expression %q", countStr, expr)
		}
	}
	if e.Count < 1 || e.Count > MaxCount {
		return Expression{}, fmt.Errorf("dice: dice count must be 1-%d, got %d in expression %q", MaxCount, e.Count, expr)
	}

	// Parse sides and optional modifier (the part after 'd').
	rest := expr[dIdx+1:]

	plusIdx := strings.Index(rest, "+")
	minusIdx := strings.Index(rest, "-")

	switch {
	case plusIdx != -1:
		e.Sides, err = strconv.Atoi(rest[:plusIdx])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid sides %q in expression %q", rest[:plusIdx], expr)
		}
		e.Modifier, err = strconv.Atoi(rest[plusIdx+1:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier %q in expression %q", rest[plusIdx+1:], expr)
		}

	case minusIdx != -1:
		e.Sides, err = strconv.Atoi(rest[:minusIdx])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid sides %q in expression %q", rest[:minusIdx], expr)
		}
		mod, err2 := strconv.Atoi(rest[minusIdx+1:])
		if err2 != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier %q in expression %q", rest[minusIdx+1:], expr)
		}
		e.Modifier = -mod

	default:
		e.Sides, err = strconv.Atoi(rest)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid sides %q in expression %q", rest, expr)
		}
	}

	if e.Sides < 1 || e.Sides > MaxSides {
		return Expression{}, fmt.Errorf("dice: sides must be 1-%d, got %d in expression %q", MaxSides, e.Sides, expr)
	}

	return e, nil
}

// Roll rolls the expression with the process-wide random source.
func (e Expression) Roll() Result {
	return e.roll(rand.IntN)
}

// RollWith rolls the expression with the supplied source. Used by tests
// for deterministic results.
func (e Expression) RollWith(rng *rand.Rand) Result {
	return e.roll(rng.IntN)
}

func (e Expression) roll(intN func(int) int) Result {
	rolls := make([]int, e.Count)
	total := e.Modifier
	for i := range e.Count {
		r := intN(e.Sides) + 1
		rolls[i] = r
		total += r
	}
	return Result{Expression: e, Rolls: rolls, Total: total}
}
