package life

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrParse indicates a malformed target-state file.
var ErrParse = errors.New("life: malformed target state")

// Parse reads a grid in the target-state format: one row per line using
// the characters '0' (dead) and '1' (alive). Leading and trailing
// whitespace is stripped and blank lines are skipped. All rows must have
// the same length.
func Parse(r io.Reader) (*Grid, error) {
	var rows [][]uint8
	s := bufio.NewScanner(r)
	lineno := 0
	for s.Scan() {
		lineno++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		row := make([]uint8, len(line))
		for i := 0; i < len(line); i++ {
			switch line[i] {
			case '0':
			case '1':
				row[i] = 1
			default:
				return nil, fmt.Errorf("%w: line %d: unexpected character %q", ErrParse, lineno, line[i])
			}
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: line %d: row length %d, want %d", ErrParse, lineno, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrParse)
	}
	return FromRows(rows)
}

// ParseFile reads a target-state file from disk.
func ParseFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// MustParse parses the grid encoded in s and panics on error. It is a
// convenience for tests and examples with literal patterns.
func MustParse(s string) *Grid {
	g, err := Parse(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return g
}
