package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if err := ensureUnit("matching.minimum_similarity", m.MinimumSimilarity); err != nil {
		return err
	}
	if math.IsNaN(m.LockInThreshold) || m.LockInThreshold < 0 {
		return errors.New("matching.lock_in_threshold must be non-negative")
	}
	if m.MinimumSimilarity > m.LockInThreshold {
		return fmt.Errorf("matching.minimum_similarity (%.2f) must not exceed matching.lock_in_threshold (%.2f)", m.MinimumSimilarity, m.LockInThreshold)
	}
	if m.TitleWeight < 0 || m.URLWeight < 0 {
		return errors.New("matching.title_weight and matching.url_weight must be non-negative")
	}
	if m.TitleWeight+m.URLWeight <= 0 {
		return errors.New("matching.title_weight and matching.url_weight must not both be zero")
	}
	if m.MinFallbackURLLength < 0 {
		return errors.New("matching.min_fallback_url_length must not be negative")
	}
	if err := ensureUnit("matching.feed_suggestion_threshold", m.FeedSuggestionThreshold); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensureUnit(name string, value float64) error {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1", name)
	}
	return nil
}
