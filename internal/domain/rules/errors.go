package rules

import "errors"

// Sentinel kinds for rule document errors.
var (
	ErrInvalidRuleSet = errors.New("invalid rule set document")
	ErrInvalidCatalog = errors.New("invalid song catalog document")
	ErrUnknownSegment = errors.New("unknown segment")
)
