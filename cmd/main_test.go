package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const mainRuleSetDoc = `{
	"version": 1,
	"title": "Replay Rules",
	"rules": {
		"catalog": "replay-catalog",
		"base": 1,
		"curve": [[0, 0], [1, 1]],
		"weight": 0.9,
		"timeLimit": 3600
	}
}`

const mainCatalogDoc = `{
	"song-a": {"expert": 10},
	"song-b": {"expert": 20}
}`

const mainResultsDoc = `[
	{"completedAt": "2024-08-01T12:05:00Z", "song": "song-a", "difficulty": "expert", "baseAccuracy": 0.9},
	{"completedAt": "2024-08-01T12:10:00Z", "song": "song-b", "difficulty": "expert", "baseAccuracy": 0.8}
]`

func writeTempDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDocuments(t *testing.T) {
	convey.Convey("Given rule documents on disk", t, func() {
		cfg := config.New()
		cfg.RuleSetPath = writeTempDoc(t, "ruleset.json", mainRuleSetDoc)
		cfg.CatalogPath = writeTempDoc(t, "catalog.json", mainCatalogDoc)

		convey.Convey("Then they should load and parse", func() {
			ruleSet, catalog, err := loadDocuments(cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(ruleSet.Title, convey.ShouldEqual, "Replay Rules")
			convey.So(catalog.Len(), convey.ShouldEqual, 2)
		})

		convey.Convey("And a missing catalog should fail", func() {
			cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.json")
			_, _, err := loadDocuments(cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestLoadResults(t *testing.T) {
	convey.Convey("Given a recorded play session on disk", t, func() {
		path := writeTempDoc(t, "results.json", mainResultsDoc)

		convey.Convey("Then it should load in completion order", func() {
			results, err := loadResults(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(results), convey.ShouldEqual, 2)
			convey.So(results[0].Song, convey.ShouldEqual, "song-a")
			convey.So(results[0].CompletedAt.Equal(time.Date(2024, 8, 1, 12, 5, 0, 0, time.UTC)), convey.ShouldBeTrue)
			convey.So(results[1].BaseAccuracy, convey.ShouldAlmostEqual, 0.8)
		})

		convey.Convey("And malformed JSON should fail", func() {
			bad := writeTempDoc(t, "bad.json", `[{"song": ]`)
			_, err := loadResults(bad)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
