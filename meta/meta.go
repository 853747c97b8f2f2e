// meta/meta.go
package meta

// DefaultRounds defines the number of rounds per game.
const DefaultRounds = 100

// DefaultWorkers defines the number of goroutines playing tournament games.
const DefaultWorkers = 1

// GameLogFile is the append-only game log written to the config directory.
const GameLogFile = "game_log.txt"
