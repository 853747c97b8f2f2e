package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"dilemma/experiments/metrics"
	"dilemma/game"
	"dilemma/tournament"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	title     = color.New(color.Bold, color.FgCyan)
	cooperate = color.New(color.FgGreen)
	defect    = color.New(color.FgRed)
	winner    = color.New(color.Bold, color.FgYellow)
	muted     = color.New(color.Faint)
)

// report writes the human readable output of a run.
type report struct {
	out io.Writer
}

func (r report) heading(text string) {
	title.Fprintf(r.out, "\n=== %s ===\n", text)
}

func (r report) rule(width int) {
	fmt.Fprintln(r.out, strings.Repeat("=", width))
}

func (r report) gameHeader(mode string, rounds int, names [3]string) {
	fmt.Fprintf(r.out, "Game mode: %s\n", mode)
	fmt.Fprintf(r.out, "Total rounds: %d\n", rounds)
	fmt.Fprintf(r.out, "Players: %s\n", strings.Join(names[:], " "))
	r.rule(32)
}

// round prints the moves, round scores and running totals of one round.
func (r report) round(names [3]string, round metrics.RoundMetric) {
	title.Fprintf(r.out, "\n=== Round %d ===\n", round.Round)

	moves := make([]string, len(names))
	for i, name := range names {
		move := cooperate
		if round.Decisions[i] == game.Defect {
			move = defect
		}
		moves[i] = fmt.Sprintf("%s: %s", name, move.Sprint(round.Decisions[i]))
	}
	fmt.Fprintf(r.out, "Moves: %s\n", strings.Join(moves, ", "))
	fmt.Fprintf(r.out, "Round scores: %s\n", pairs(names, round.Payoff))
	fmt.Fprintf(r.out, "Total scores: %s\n", pairs(names, round.Totals))
}

func (r report) finalResults(gameMetric metrics.GameMetric) {
	fmt.Fprintln(r.out)
	r.rule(41)
	title.Fprintln(r.out, "FINAL RESULTS")
	fmt.Fprintf(r.out, "Total rounds played: %d\n", gameMetric.Rounds)
	for i, name := range gameMetric.Players {
		fmt.Fprintf(r.out, "%s: %d points\n", name, gameMetric.Scores[i])
	}
	fmt.Fprintln(r.out, strings.Repeat("-", 40))
	best := gameMetric.WinnerIdx
	winner.Fprintf(r.out, "WINNER: %s with %d points!\n", gameMetric.Players[best], gameMetric.Scores[best])
	r.rule(41)
}

func (r report) tournamentHeader(names []string, triplets, rounds int) {
	fmt.Fprintf(r.out, "Starting tournament with %d strategies\n", len(names))
	fmt.Fprintf(r.out, "Number of unique triplets: %d\n", triplets)
	fmt.Fprintf(r.out, "Rounds per game: %d\n", rounds)
}

func (r report) tournamentGames(results []tournament.Result, total int) {
	for i, result := range results {
		fmt.Fprintf(r.out, "\nGame %d/%d: %s\n", i+1, total, strings.Join(result.Names[:], " vs "))
		fmt.Fprintf(r.out, "Game results: %s\n", pairs(result.Names, result.Game.Scores))
	}
}

func (r report) skipped(skipped [][3]string) {
	for _, names := range skipped {
		muted.Fprintf(r.out, "Skipped: %s\n", strings.Join(names[:], " vs "))
	}
}

func (r report) standings(standings []metrics.Standing) {
	fmt.Fprintln(r.out)
	r.rule(41)
	title.Fprintln(r.out, "TOURNAMENT FINAL RESULTS")
	r.rule(41)
	fmt.Fprintf(r.out, "%-6s %-25s %10s\n", "Rank", "Strategy", "Score")
	fmt.Fprintln(r.out, strings.Repeat("-", 43))
	for i, standing := range standings {
		fmt.Fprintf(r.out, "%-6s %-25s %10s\n",
			humanize.Ordinal(i+1), standing.Name, humanize.Comma(int64(standing.Score)))
	}
	if len(standings) > 0 {
		winner.Fprintf(r.out, "\nTOURNAMENT WINNER: %s with %s points!\n",
			standings[0].Name, humanize.Comma(int64(standings[0].Score)))
	}
}

func (r report) throughput(workers []int, records []metrics.ThroughputRecord) {
	fmt.Fprintf(r.out, "%-8s %8s %14s %14s\n", "Workers", "Games", "Duration", "Games/s")
	fmt.Fprintln(r.out, strings.Repeat("-", 47))
	for i, record := range records {
		fmt.Fprintf(r.out, "%-8d %8d %14s %14s\n",
			workers[i], record.Games, record.Duration.Round(time.Microsecond), humanize.FtoaWithDigits(record.GamesPerSecond, 1))
	}
}

func (r report) strength(repeats int, records []metrics.StrengthRecord) {
	fmt.Fprintf(r.out, "Tournaments played: %d\n", repeats)
	fmt.Fprintf(r.out, "%-6s %-25s %6s %12s\n", "Rank", "Strategy", "Wins", "Mean score")
	fmt.Fprintln(r.out, strings.Repeat("-", 52))
	for i, record := range records {
		fmt.Fprintf(r.out, "%-6s %-25s %6d %12s\n",
			humanize.Ordinal(i+1), record.Name, record.Wins, humanize.FtoaWithDigits(record.MeanScore, 1))
	}
	if len(records) > 0 {
		winner.Fprintf(r.out, "\nSTRONGEST STRATEGY: %s with %d of %d tournaments won!\n",
			records[0].Name, records[0].Wins, repeats)
	}
}

func pairs(names [3]string, values [3]int) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, values[i])
	}
	return strings.Join(parts, ", ")
}
