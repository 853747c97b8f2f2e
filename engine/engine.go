package engine

import "dilemma/experiments/metrics"

// Engine runs a game to completion.
type Engine interface {
	// Run plays every remaining round and reports the game and its rounds
	Run() (gameMetric metrics.GameMetric, roundMetrics []metrics.RoundMetric)
}

var _ Engine = (*Game)(nil)
