package scoring

import "errors"

// Sentinel kinds for curve construction errors.
var (
	ErrEmptyCurve          = errors.New("curve has no control points")
	ErrMalformedCurvePoint = errors.New("curve point must be an [x, y] pair")
	ErrCurveNotAscending   = errors.New("curve x values must be strictly increasing")
)
