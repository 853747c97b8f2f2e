package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID int
	GameMetric
}

type RoundRecord struct {
	Game int // GameRecord.ID
	RoundMetric
}

type Standing struct {
	Name  string
	Score int
	Games int
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<experiment>/<timestamp> to hold the CSV files.
func NewWriter(root, experiment string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, experiment, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "player1", "player2", "player3", "score1", "score2", "score3", "rounds", "winner", "start_time", "end_time", "duration", "total"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.Players[0],
			record.Players[1],
			record.Players[2],
			strconv.Itoa(record.Scores[0]),
			strconv.Itoa(record.Scores[1]),
			strconv.Itoa(record.Scores[2]),
			strconv.Itoa(record.Rounds),
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.Total()),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteRoundRecords(records []RoundRecord) error {
	header := []string{"game", "round", "move1", "move2", "move3", "payoff1", "payoff2", "payoff3", "total1", "total2", "total3"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Round),
			record.Decisions[0].String(),
			record.Decisions[1].String(),
			record.Decisions[2].String(),
			strconv.Itoa(record.Payoff[0]),
			strconv.Itoa(record.Payoff[1]),
			strconv.Itoa(record.Payoff[2]),
			strconv.Itoa(record.Totals[0]),
			strconv.Itoa(record.Totals[1]),
			strconv.Itoa(record.Totals[2]),
		})
	}
	return w.write("round_records.csv", header, rows)
}

func (w *Writer) WriteStandings(standings []Standing) error {
	header := []string{"rank", "strategy", "score", "games"}
	rows := make([][]string, 0, len(standings))
	for i, standing := range standings {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			standing.Name,
			strconv.Itoa(standing.Score),
			strconv.Itoa(standing.Games),
		})
	}
	return w.write("standings.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	return writeCSV(f, name, header, rows)
}

// writeCSV writes header and rows to wc and closes it. A close error is
// reported when writing succeeded.
func writeCSV(wc io.WriteCloser, name string, header []string, rows [][]string) error {
	writer := csv.NewWriter(wc)
	if err := writer.Write(header); err != nil {
		wc.Close()
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		wc.Close()
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

// TournamentConfig identifies one tournament setting of an experiment.
type TournamentConfig struct {
	ID      int
	Workers int
	Seed    uint64
}

type ThroughputRecord struct {
	Config         int // TournamentConfig.ID
	Games          int
	Duration       time.Duration
	GamesPerSecond float64
}

type StrengthRecord struct {
	Name      string
	Wins      int // tournaments won
	Score     int // summed over all tournaments
	MeanScore float64
}

func (w *Writer) WriteTournamentConfigs(configs []TournamentConfig) error {
	header := []string{"id", "workers", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Workers),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.write("tournament_configs.csv", header, rows)
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	header := []string{"config", "games", "duration_ms", "games_per_second"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Config),
			strconv.Itoa(record.Games),
			strconv.FormatInt(record.Duration.Milliseconds(), 10),
			strconv.FormatFloat(record.GamesPerSecond, 'f', 2, 64),
		})
	}
	return w.write("throughput_records.csv", header, rows)
}

func (w *Writer) WriteStrengthRecords(records []StrengthRecord) error {
	header := []string{"strategy", "wins", "score", "mean_score"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Name,
			strconv.Itoa(record.Wins),
			strconv.Itoa(record.Score),
			strconv.FormatFloat(record.MeanScore, 'f', 2, 64),
		})
	}
	return w.write("strength_records.csv", header, rows)
}
