package scoring

// Calculator derives a pp value for a single song result from the star
// rating, accuracy, and active modifiers, using a rule set's base
// constant, curve, and modifier overrides.
type Calculator struct {
	base      float64
	curve     Curve
	overrides Overrides
}

// NewCalculator builds a Calculator. It fails when the curve points are
// invalid; see NewCurve.
func NewCalculator(base float64, curve [][]float64, overrides Overrides) (*Calculator, error) {
	c, err := NewCurve(curve)
	if err != nil {
		return nil, err
	}
	return &Calculator{
		base:      base,
		curve:     c,
		overrides: overrides,
	}, nil
}

// PP computes base * star * curve(accuracy) * modifierFactor. Unrated
// content (star == 0) always yields zero. Accuracy is expected in [0, 1];
// out-of-range values are the caller's responsibility.
func (c *Calculator) PP(star, accuracy float64, modifiers Modifiers) float64 {
	weight := c.curve.ValueAt(accuracy)
	factor := c.overrides.Factor(modifiers)
	return c.base * star * weight * factor
}
