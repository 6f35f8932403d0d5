package namegen

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// Lists holds the curated bond and flaw lines for the /generate command.
// Read-only after [LoadLists]; safe for concurrent use.
type Lists struct {
	bonds []string
	flaws []string
}

// LoadLists reads the bond and flaw text files, one entry per line.
// Blank lines are skipped. Either file being empty is a fatal error.
func LoadLists(bondsPath, flawsPath string) (*Lists, error) {
	bonds, err := readLines(bondsPath)
	if err != nil {
		return nil, err
	}
	flaws, err := readLines(flawsPath)
	if err != nil {
		return nil, err
	}
	return &Lists{bonds: bonds, flaws: flaws}, nil
}

// Bond returns a random bond line.
func (l *Lists) Bond() string {
	return l.bonds[rand.IntN(len(l.bonds))]
}

// Flaw returns a random flaw line.
func (l *Lists) Flaw() string {
	return l.flaws[rand.IntN(len(l.flaws))]
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("namegen: open %q: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("namegen: read %q: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("namegen: %q contains no entries", path)
	}
	return lines, nil
}
