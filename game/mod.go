package game

// Opponents holds the move histories of the two other participants, in
// ascending participant order.
type Opponents [2][]Decision

// Strategy decides one participant's move each round. Implementations may keep
// internal state, but only for the lifetime of a single game.
type Strategy interface {
	// Decide is called once per round with the participant's own history and
	// both opponents' histories, all of equal length.
	Decide(own []Decision, opponents Opponents) Decision
	// Name is stable for the lifetime of the instance.
	Name() string
}

// Round is the set of simultaneous decisions made in one round, in
// participant order.
type Round [3]Decision

// Payoff is the score triple awarded for a round, positionally matching Round.
type Payoff [3]int
