package config_test

import (
	"testing"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
			convey.So(cfg.RuleSetPath, convey.ShouldEqual, "documents/ruleset.json")
			convey.So(cfg.CatalogPath, convey.ShouldEqual, "documents/catalog.json")
			convey.So(cfg.DataDir, convey.ShouldEqual, "data")
			convey.So(cfg.TargetSegment, convey.ShouldBeEmpty)
			convey.So(cfg.AutoStopOnTarget, convey.ShouldBeFalse)
			convey.So(cfg.ResultsPath, convey.ShouldEqual, "documents/results.json")
		})
	})
}
