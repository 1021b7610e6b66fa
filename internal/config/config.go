// Package config defines process configuration and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the Prometheus listen address, e.g.
	// ":9090". Empty disables the metrics endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	// RuleSetPath points at the rule set document runs are played under.
	RuleSetPath string `koanf:"ruleset_path"`

	// CatalogPath points at the song catalog document the rule set pins.
	CatalogPath string `koanf:"catalog_path"`

	// DataDir is the root directory for saved runs and leaderboards.
	DataDir string `koanf:"data_dir"`

	// TargetSegment optionally names the segment a run aims for, e.g.
	// "Gold". Empty starts runs without a target.
	TargetSegment string `koanf:"target_segment"`

	// AutoStopOnTarget finishes a run automatically when its target
	// segment is reached.
	AutoStopOnTarget bool `koanf:"auto_stop_on_target"`

	// ResultsPath points at the play results document to replay.
	ResultsPath string `koanf:"results_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		MetricsAddr: "",
		RuleSetPath: "documents/ruleset.json",
		CatalogPath: "documents/catalog.json",
		DataDir:     "data",
		ResultsPath: "documents/results.json",
	}
}
