package scoring_test

import (
	"testing"

	scoring "github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCurve(t *testing.T) {
	Convey("Given a curve over ascending control points", t, func() {
		curve, err := scoring.NewCurve([][]float64{
			{0, 0},
			{0.5, 0.25},
			{0.9, 0.8},
			{1, 1},
		})
		So(err, ShouldBeNil)

		Convey("Then it interpolates linearly on each segment", func() {
			So(curve.ValueAt(0.25), ShouldAlmostEqual, 0.125)
			So(curve.ValueAt(0.7), ShouldAlmostEqual, 0.525)
			So(curve.ValueAt(0.95), ShouldAlmostEqual, 0.9)
		})

		Convey("And it is continuous at the knots", func() {
			So(curve.ValueAt(0.5), ShouldAlmostEqual, 0.25)
			So(curve.ValueAt(0.9), ShouldAlmostEqual, 0.8)
		})

		Convey("And it clamps outside the domain", func() {
			So(curve.ValueAt(-1), ShouldEqual, 0)
			So(curve.ValueAt(1.5), ShouldEqual, 1)
		})
	})

	Convey("Given malformed curve points", t, func() {
		Convey("An empty list fails construction", func() {
			_, err := scoring.NewCurve(nil)
			So(err, ShouldEqual, scoring.ErrEmptyCurve)
		})

		Convey("A point without exactly two values fails construction", func() {
			_, err := scoring.NewCurve([][]float64{{0, 0, 1}, {1, 1}})
			So(err, ShouldEqual, scoring.ErrMalformedCurvePoint)
		})

		Convey("Non-ascending x values fail construction", func() {
			_, err := scoring.NewCurve([][]float64{{0, 0}, {0.5, 0.4}, {0.5, 0.6}})
			So(err, ShouldEqual, scoring.ErrCurveNotAscending)

			_, err = scoring.NewCurve([][]float64{{0.7, 0}, {0.2, 1}})
			So(err, ShouldEqual, scoring.ErrCurveNotAscending)
		})
	})
}

func TestOverridesFactor(t *testing.T) {
	Convey("Given the default modifier overrides", t, func() {
		overrides := scoring.DefaultOverrides()

		Convey("No active modifiers yield the identity factor", func() {
			So(overrides.Factor(scoring.Modifiers{}), ShouldEqual, 1.0)
		})

		Convey("A single active modifier yields its override value", func() {
			So(overrides.Factor(scoring.Modifiers{NoFail: true}), ShouldEqual, 0.5)
			So(overrides.Factor(scoring.Modifiers{GhostNotes: true}), ShouldEqual, 1.11)
		})

		Convey("Multiple modifiers multiply together", func() {
			m := scoring.Modifiers{NoFail: true, FasterSong: true, NoBombs: true}
			So(overrides.Factor(m), ShouldAlmostEqual, 0.5*1.08*0.9)
		})
	})
}

func TestModifiersString(t *testing.T) {
	Convey("Given a set of active modifiers", t, func() {
		m := scoring.Modifiers{NoFail: true, FasterSong: true}
		So(m.String(), ShouldEqual, "NF,FS")

		Convey("No modifiers render as an empty string", func() {
			So(scoring.Modifiers{}.String(), ShouldEqual, "")
		})
	})
}

func TestCalculator(t *testing.T) {
	Convey("Given a calculator with a simple linear curve", t, func() {
		calc, err := scoring.NewCalculator(1, [][]float64{{0, 0}, {1, 1}}, scoring.DefaultOverrides())
		So(err, ShouldBeNil)

		Convey("pp = base * star * curve(accuracy) * factor", func() {
			So(calc.PP(10, 0.5, scoring.Modifiers{}), ShouldAlmostEqual, 5)
			So(calc.PP(50, 1.0, scoring.Modifiers{}), ShouldAlmostEqual, 50)
			So(calc.PP(10, 1.0, scoring.Modifiers{NoFail: true}), ShouldAlmostEqual, 5)
		})

		Convey("Unrated content always yields zero pp", func() {
			So(calc.PP(0, 1.0, scoring.Modifiers{}), ShouldEqual, 0)
		})

		Convey("Invalid curve points propagate from construction", func() {
			_, err := scoring.NewCalculator(1, [][]float64{}, scoring.DefaultOverrides())
			So(err, ShouldEqual, scoring.ErrEmptyCurve)
		})
	})
}
