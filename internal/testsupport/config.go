// Package testsupport builds configurations and seeded backup databases for
// tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"podalign/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated default config rooted in a per-test temp
// directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = base
	cfg.Paths.ExtractDir = filepath.Join(base, "podcast_addict_extracted")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.EpisodesDir = "/sdcard/podcasts"

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithThresholds overrides the matching thresholds.
func WithThresholds(minimum, lockIn float64) ConfigOption {
	return func(c *config.Config) {
		c.Matching.MinimumSimilarity = minimum
		c.Matching.LockInThreshold = lockIn
	}
}

// WithoutURLFallback disables the download URL fallback.
func WithoutURLFallback() ConfigOption {
	return func(c *config.Config) { c.Matching.URLFallback = false }
}
