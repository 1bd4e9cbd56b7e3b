package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(workDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.WorkDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}

	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExtractDir) == "" {
		c.Paths.ExtractDir = filepath.Join(c.Paths.WorkDir, defaultExtractDirName)
	}
	if c.Paths.ExtractDir, err = expandPath(c.Paths.ExtractDir); err != nil {
		return fmt.Errorf("paths.extract_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.EpisodesDir = strings.TrimRight(strings.TrimSpace(c.Paths.EpisodesDir), "/")
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
