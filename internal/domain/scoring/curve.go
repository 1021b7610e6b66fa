// Package scoring computes normalized performance point (pp) values for
// song results from a rule set's base constant, accuracy curve, and
// modifier multipliers. All functions are pure and deterministic.
package scoring

// point is a single (accuracy, weight) control point.
type point struct {
	x float64
	y float64
}

// Curve is a monotonic piecewise-linear interpolation over a set of
// control points with strictly increasing x values. Outside the domain
// the curve is clamped to the first/last point's y value.
type Curve struct {
	points []point
}

// NewCurve constructs a Curve from raw [x, y] pairs as they appear in a
// rule set document. It fails if the list is empty, any pair does not
// have exactly two values, or the x values are not strictly increasing.
func NewCurve(raw [][]float64) (Curve, error) {
	if len(raw) == 0 {
		return Curve{}, ErrEmptyCurve
	}
	points := make([]point, 0, len(raw))
	for _, p := range raw {
		if len(p) != 2 {
			return Curve{}, ErrMalformedCurvePoint
		}
		if len(points) > 0 && points[len(points)-1].x >= p[0] {
			return Curve{}, ErrCurveNotAscending
		}
		points = append(points, point{x: p[0], y: p[1]})
	}
	return Curve{points: points}, nil
}

// ValueAt returns the interpolated y value for x. Values below the first
// control point or above the last one are clamped.
func (c Curve) ValueAt(x float64) float64 {
	first := c.points[0]
	if x <= first.x {
		return first.y
	}
	last := c.points[len(c.points)-1]
	if x >= last.x {
		return last.y
	}

	i := 1
	for x > c.points[i].x {
		i++
	}

	a := c.points[i-1]
	b := c.points[i]
	t := (x - a.x) / (b.x - a.x)
	return a.y*(1-t) + b.y*t
}
