package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dilemma/experiments/metrics"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	rounds      INTEGER NOT NULL,
	matrix      TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT
);

CREATE TABLE IF NOT EXISTS games (
	run_id   TEXT NOT NULL,
	game_id  INTEGER NOT NULL,
	player1  TEXT NOT NULL,
	player2  TEXT NOT NULL,
	player3  TEXT NOT NULL,
	score1   INTEGER NOT NULL,
	score2   INTEGER NOT NULL,
	score3   INTEGER NOT NULL,
	rounds   INTEGER NOT NULL,
	winner   TEXT NOT NULL,
	PRIMARY KEY (run_id, game_id),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS standings (
	run_id   TEXT NOT NULL,
	rank     INTEGER NOT NULL,
	strategy TEXT NOT NULL,
	score    INTEGER NOT NULL,
	games    INTEGER NOT NULL,
	PRIMARY KEY (run_id, rank),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored times sort as
// text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one archived invocation: a single game or a tournament.
type Run struct {
	ID         string
	Mode       string
	Rounds     int
	Matrix     string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is open
}

// Store archives runs, their games and final standings in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s, err := NewStoreWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB runs migrations on an already open database.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records a new run and returns it with a fresh id.
func (s *Store) BeginRun(ctx context.Context, mode string, rounds int, matrix string) (Run, error) {
	run := Run{
		ID:        uuid.New().String(),
		Mode:      mode,
		Rounds:    rounds,
		Matrix:    matrix,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, mode, rounds, matrix, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Rounds, run.Matrix, run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run's completion time.
func (s *Store) FinishRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE run_id = ?`,
		time.Now().UTC().Format(timeLayout), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: run %s not found", runID)
	}
	return nil
}

// SaveGames stores the played games of a run in one transaction.
func (s *Store) SaveGames(ctx context.Context, runID string, games []metrics.GameRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, g := range games {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO games (run_id, game_id, player1, player2, player3, score1, score2, score3, rounds, winner)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, g.ID, g.Players[0], g.Players[1], g.Players[2],
			g.Scores[0], g.Scores[1], g.Scores[2], g.Rounds, g.Winner,
		)
		if err != nil {
			return fmt.Errorf("insert game %d: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SaveStandings stores ranked standings, replacing any saved before for the run.
func (s *Store) SaveStandings(ctx context.Context, runID string, standings []metrics.Standing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM standings WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	for i, standing := range standings {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO standings (run_id, rank, strategy, score, games) VALUES (?, ?, ?, ?, ?)`,
			runID, i+1, standing.Name, standing.Score, standing.Games,
		)
		if err != nil {
			return fmt.Errorf("insert standing %s: %w", standing.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetRun loads a run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	var run Run
	var startedStr string
	var finishedStr sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, mode, rounds, matrix, started_at, finished_at FROM runs WHERE run_id = ?`, runID,
	).Scan(&run.ID, &run.Mode, &run.Rounds, &run.Matrix, &startedStr, &finishedStr)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}

	run.StartedAt, err = time.Parse(timeLayout, startedStr)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if finishedStr.Valid {
		run.FinishedAt, err = time.Parse(timeLayout, finishedStr.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
	}
	return run, nil
}

// Runs lists all runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id FROM runs ORDER BY started_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs := make([]Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Games returns the games of a run in play order.
func (s *Store) Games(ctx context.Context, runID string) ([]metrics.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, player1, player2, player3, score1, score2, score3, rounds, winner
		 FROM games WHERE run_id = ? ORDER BY game_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []metrics.GameRecord
	for rows.Next() {
		var g metrics.GameRecord
		err := rows.Scan(&g.ID, &g.Players[0], &g.Players[1], &g.Players[2],
			&g.Scores[0], &g.Scores[1], &g.Scores[2], &g.Rounds, &g.Winner)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.WinnerIdx = metrics.WinnerIndex(g.Scores)
		games = append(games, g)
	}
	return games, rows.Err()
}

// Standings returns the saved standings of a run by rank.
func (s *Store) Standings(ctx context.Context, runID string) ([]metrics.Standing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy, score, games FROM standings WHERE run_id = ? ORDER BY rank`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	var standings []metrics.Standing
	for rows.Next() {
		var standing metrics.Standing
		if err := rows.Scan(&standing.Name, &standing.Score, &standing.Games); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, standing)
	}
	return standings, rows.Err()
}
