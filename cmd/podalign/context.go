package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"podalign/internal/antennapod"
	"podalign/internal/config"
	"podalign/internal/logging"
	"podalign/internal/podcastaddict"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, shouldColorize(cmd.ErrOrStderr()))
	})
	return c.logger, c.loggerErr
}

// runContext tags the command's context with a fresh run ID.
func runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithRunID(ctx, uuid.NewString())
}

type sources struct {
	backup string
	source *podcastaddict.Store
	target *antennapod.Store
}

func (s *sources) Close() {
	if s == nil {
		return
	}
	_ = s.source.Close()
	_ = s.target.Close()
}

// openSources locates both backups in the work directory, unpacks the
// Podcast Addict archive if needed and opens both databases.
func (c *commandContext) openSources(ctx context.Context, logger *slog.Logger) (*sources, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger = logging.WithContext(ctx, logger)

	backup, err := podcastaddict.FindBackup(cfg.Paths.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("locate podcast addict backup: %w", err)
	}
	dbPath, extracted, err := podcastaddict.Extract(ctx, backup, cfg.Paths.ExtractDir)
	if err != nil {
		return nil, fmt.Errorf("extract podcast addict backup: %w", err)
	}
	if extracted {
		logger.Info("extracted podcast addict backup", logging.String(logging.FieldPath, dbPath))
	} else {
		logger.Info("reusing extracted podcast addict database", logging.String(logging.FieldPath, dbPath))
	}
	targetPath, err := antennapod.FindDatabase(cfg.Paths.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("locate antennapod database: %w", err)
	}

	source, err := podcastaddict.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	target, err := antennapod.Open(ctx, targetPath)
	if err != nil {
		_ = source.Close()
		return nil, err
	}
	logger.Debug("opened databases",
		logging.String("source", dbPath),
		logging.String("target", targetPath),
	)
	return &sources{backup: backup, source: source, target: target}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
