package game

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Matrix maps an ordered triple of decisions to a score triple. The zero value
// is not useful, use NewMatrix or LoadMatrix.
type Matrix struct {
	payoff [2][2][2]Payoff
	source string // "" when running on the default table
}

var defaultPayoff = [2][2][2]Payoff{
	{ // C _ _
		{{7, 7, 7}, {3, 3, 9}}, // C C C, C C D
		{{3, 9, 3}, {0, 5, 5}}, // C D C, C D D
	},
	{ // D _ _
		{{9, 3, 3}, {5, 0, 5}}, // D C C, D C D
		{{5, 5, 0}, {1, 1, 1}}, // D D C, D D D
	},
}

// NewMatrix returns the default payoff table.
func NewMatrix() Matrix {
	return Matrix{payoff: defaultPayoff}
}

// LoadMatrix reads overrides from the file at path on top of the default
// table. An empty path or an unreadable file yields the default table.
func LoadMatrix(path string) Matrix {
	m := NewMatrix()
	if path == "" {
		return m
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Msgf("cannot open matrix file %s, using default matrix", path)
		return m
	}
	defer f.Close()

	lines, err := m.apply(f)
	if err != nil {
		log.Warn().Err(err).Msgf("failed to read matrix file %s, using default matrix", path)
		return NewMatrix()
	}
	m.source = path
	log.Info().Msgf("loaded matrix from %s (%d lines processed)", path, lines)
	return m
}

// ParseMatrix applies the overrides read from r on top of the default table.
// Malformed lines are skipped.
func ParseMatrix(r io.Reader, source string) (Matrix, error) {
	m := NewMatrix()
	if _, err := m.apply(r); err != nil {
		return NewMatrix(), err
	}
	m.source = source
	return m, nil
}

func (m *Matrix) apply(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		moves, scores, err := parseMatrixLine(line)
		if err != nil {
			log.Warn().Msgf("cannot parse matrix line %d %q: %v", lineNumber, line, err)
			continue
		}
		m.payoff[moves[0].index()][moves[1].index()][moves[2].index()] = scores
	}
	return lineNumber, scanner.Err()
}

// parseMatrixLine accepts both "CCD 3 3 9" and "C C D 3 3 9".
func parseMatrixLine(line string) (Round, Payoff, error) {
	fields := strings.Fields(line)

	var codes []string
	var numbers []string
	switch {
	case len(fields) == 4 && len(fields[0]) == 3:
		codes = strings.Split(fields[0], "")
		numbers = fields[1:]
	case len(fields) == 6:
		codes = fields[:3]
		numbers = fields[3:]
	default:
		return Round{}, Payoff{}, fmt.Errorf("expected 3 moves and 3 scores, got %d fields", len(fields))
	}

	var moves Round
	for i, code := range codes {
		d, err := ParseDecision(code)
		if err != nil {
			return Round{}, Payoff{}, err
		}
		moves[i] = d
	}

	var scores Payoff
	for i, number := range numbers {
		score, err := strconv.Atoi(number)
		if err != nil {
			return Round{}, Payoff{}, fmt.Errorf("invalid score %q", number)
		}
		scores[i] = score
	}
	return moves, scores, nil
}

// Payoff returns the scores for the given decisions, one per position.
func (m Matrix) Payoff(d1, d2, d3 Decision) Payoff {
	return m.payoff[d1.index()][d2.index()][d3.index()]
}

// Score looks up a whole round.
func (m Matrix) Score(r Round) Payoff {
	return m.Payoff(r[0], r[1], r[2])
}

// IsDefault reports whether no override source was applied.
func (m Matrix) IsDefault() bool {
	return m.source == ""
}

// Source is the override file the matrix was loaded from, if any.
func (m Matrix) Source() string {
	return m.source
}

// Rounds lists all eight decision triples in display order.
func Rounds() []Round {
	C, D := Cooperate, Defect
	return []Round{
		{C, C, C},
		{C, C, D},
		{C, D, C},
		{D, C, C},
		{C, D, D},
		{D, C, D},
		{D, D, C},
		{D, D, D},
	}
}

func (m Matrix) String() string {
	var sb strings.Builder
	if m.IsDefault() {
		sb.WriteString("(Default matrix)\n")
	} else {
		fmt.Fprintf(&sb, "(Loaded from %s)\n", m.source)
	}
	for _, r := range Rounds() {
		p := m.Score(r)
		fmt.Fprintf(&sb, "%s %s %s => %d %d %d\n", r[0], r[1], r[2], p[0], p[1], p[2])
	}
	return sb.String()
}
