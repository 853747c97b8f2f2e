package history

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dilemma/experiments/metrics"
	"dilemma/meta"

	"github.com/ncruces/go-strftime"
	"github.com/rs/zerolog/log"
)

const timestampLayout = "%Y-%m-%d %H:%M:%S"

// Logger appends a human readable account of games and tournaments to a text
// file. A disabled logger, including a nil one, discards everything.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	now    func() time.Time
}

// Open appends to <configDir>/game_log.txt. Logging is disabled when configDir
// is empty or the file cannot be opened.
func Open(configDir string) *Logger {
	if configDir == "" {
		return &Logger{}
	}
	path := filepath.Join(configDir, meta.GameLogFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn().Err(err).Msgf("cannot open game log %s, logging disabled", path)
		return &Logger{}
	}
	return &Logger{w: f, closer: f, now: time.Now}
}

// New logs to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

func (l *Logger) Enabled() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w != nil
}

func (l *Logger) GameStarted(names [3]string, rounds int) {
	l.write(func(b *strings.Builder) {
		fmt.Fprintf(b, "\n%s\n", rule(60))
		fmt.Fprintf(b, "%s | GAME STARTED\n", l.timestamp())
		fmt.Fprintf(b, "Players: %s | Rounds: %d\n", strings.Join(names[:], " "), rounds)
		fmt.Fprintf(b, "%s\n", rule(60))
	})
}

// Round logs one round as "Round n | name=C(3) ... | Total: name=10, ...".
func (l *Logger) Round(names [3]string, round metrics.RoundMetric) {
	l.write(func(b *strings.Builder) {
		fmt.Fprintf(b, "%s | Round %d | ", l.timestamp(), round.Round)
		for i, name := range names {
			fmt.Fprintf(b, "%s=%s(%d) ", name, round.Decisions[i], round.Payoff[i])
		}
		totals := make([]string, len(names))
		for i, name := range names {
			totals[i] = fmt.Sprintf("%s=%d", name, round.Totals[i])
		}
		fmt.Fprintf(b, "| Total: %s\n", strings.Join(totals, ", "))
	})
}

func (l *Logger) GameEnded(names [3]string, scores [3]int) {
	l.write(func(b *strings.Builder) {
		fmt.Fprintf(b, "%s\n", rule(60))
		fmt.Fprintf(b, "%s | GAME ENDED\n", l.timestamp())
		for i, name := range names {
			fmt.Fprintf(b, "%s: %d points\n", name, scores[i])
		}
		best := metrics.WinnerIndex(scores)
		fmt.Fprintf(b, "WINNER: %s with %d points!\n", names[best], scores[best])
		fmt.Fprintf(b, "%s\n", rule(60))
	})
}

func (l *Logger) TournamentStarted(names []string) {
	l.write(func(b *strings.Builder) {
		fmt.Fprintf(b, "\n%s\n", rule(70))
		fmt.Fprintf(b, "%s | TOURNAMENT STARTED\n", l.timestamp())
		fmt.Fprintf(b, "Participating strategies (%d): %s\n", len(names), strings.Join(names, " "))
		fmt.Fprintf(b, "%s\n", rule(70))
	})
}

// TournamentEnded logs the standings, expected in ranked order.
func (l *Logger) TournamentEnded(standings []metrics.Standing) {
	l.write(func(b *strings.Builder) {
		fmt.Fprintf(b, "%s\n", rule(70))
		fmt.Fprintf(b, "%s | TOURNAMENT ENDED\n", l.timestamp())
		for _, standing := range standings {
			fmt.Fprintf(b, "%s: %d points\n", standing.Name, standing.Score)
		}
		if len(standings) > 0 {
			fmt.Fprintf(b, "TOURNAMENT WINNER: %s with %d points!\n", standings[0].Name, standings[0].Score)
		}
		fmt.Fprintf(b, "%s\n", rule(70))
	})
}

// Game logs a whole game from its metrics.
func (l *Logger) Game(gameMetric metrics.GameMetric, rounds []metrics.RoundMetric) {
	if !l.Enabled() {
		return
	}
	l.GameStarted(gameMetric.Players, gameMetric.Rounds)
	for _, round := range rounds {
		l.Round(gameMetric.Players, round)
	}
	l.GameEnded(gameMetric.Players, gameMetric.Scores)
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.w, l.closer = nil, nil
	return err
}

// write emits one entry at once. A failed write disables the logger.
func (l *Logger) write(entry func(b *strings.Builder)) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return
	}

	var b strings.Builder
	entry(&b)
	if _, err := io.WriteString(l.w, b.String()); err != nil {
		log.Warn().Err(err).Msg("failed to write game log, logging disabled")
		l.w = nil
	}
}

func (l *Logger) timestamp() string {
	return strftime.Format(timestampLayout, l.now())
}

func rule(width int) string {
	return strings.Repeat("=", width)
}
