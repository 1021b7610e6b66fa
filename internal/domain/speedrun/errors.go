package speedrun

import "errors"

// Sentinel kinds for snapshot loading errors.
var (
	ErrInvalidSnapshot         = errors.New("invalid snapshot document")
	ErrRuleSetChecksumMismatch = errors.New("rule set checksum mismatch")
	ErrCatalogChecksumMismatch = errors.New("song catalog checksum mismatch")
)
