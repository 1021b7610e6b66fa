package leaderboard

import "errors"

var (
	// ErrInvalidBoard indicates a board document that could not be decoded.
	ErrInvalidBoard = errors.New("invalid leaderboard document")

	// ErrRunNotFinished indicates an attempt to write a run that is
	// still in flight. Only finished runs are recorded.
	ErrRunNotFinished = errors.New("run is not finished")

	// ErrIncompatibleRuleSet indicates a run whose rule set does not
	// share the board's compatibility key.
	ErrIncompatibleRuleSet = errors.New("rule set is not compatible with leaderboard")
)
