package service

import "errors"

// Sentinel kinds for facilitator errors.
var (
	ErrRunInProgress = errors.New("another run is in progress")
	ErrNoActiveRun   = errors.New("no active run")
	ErrUnknownIndex  = errors.New("unknown leaderboard index")
)
