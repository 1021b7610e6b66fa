package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if BSR_CONFIG is set
//  3. env (prefix BSR_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BSR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BSR_DATA_DIR, BSR_RULESET_PATH, ...
	// Map env keys like BSR_DATA_DIR -> data_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BSR_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "bsr_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RuleSetPath == "" {
		return fmt.Errorf("%w: ruleset_path must not be empty", ErrInvalidConfig)
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("%w: catalog_path must not be empty", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.TargetSegment != "" {
		if _, err := rules.ParseSegment(c.TargetSegment); err != nil {
			return fmt.Errorf("%w: target_segment: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Target resolves the configured target segment, or none when unset.
func (c *Config) Target() (*rules.Segment, error) {
	if c.TargetSegment == "" {
		return nil, nil
	}
	segment, err := rules.ParseSegment(c.TargetSegment)
	if err != nil {
		return nil, fmt.Errorf("%w: target_segment: %w", ErrInvalidConfig, err)
	}
	return &segment, nil
}
