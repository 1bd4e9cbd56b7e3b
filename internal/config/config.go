package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the locations of backups, extracted data and logs.
type Paths struct {
	// WorkDir is searched for the PodcastAddict*.backup and AntennaPodBackup*.db files.
	WorkDir string `toml:"work_dir"`
	// ExtractDir receives the unpacked Podcast Addict backup. Defaults to
	// <work_dir>/podcast_addict_extracted.
	ExtractDir string `toml:"extract_dir"`
	LogDir     string `toml:"log_dir"`
	// EpisodesDir is the on-device directory holding downloaded media. It is
	// a path on the phone, so it is never expanded against the local host.
	EpisodesDir string `toml:"episodes_dir"`
}

// Matching contains the episode aligner thresholds and fallbacks.
type Matching struct {
	MinimumSimilarity float64 `toml:"minimum_similarity"`
	LockInThreshold   float64 `toml:"lock_in_threshold"`
	TitleWeight       float64 `toml:"title_weight"`
	URLWeight         float64 `toml:"url_weight"`
	// URLFallback retries unmatched episodes by exact download URL.
	URLFallback          bool `toml:"url_fallback"`
	MinFallbackURLLength int  `toml:"min_fallback_url_length"`
	// FeedSuggestions proposes a fuzzy counterpart for feeds whose URL has no
	// exact match. Suggestions are reported, never applied.
	FeedSuggestions         bool    `toml:"feed_suggestions"`
	FeedSuggestionThreshold float64 `toml:"feed_suggestion_threshold"`
}

// Transfer selects which listening state the plan carries over.
type Transfer struct {
	Downloads bool `toml:"downloads"`
	Favorites bool `toml:"favorites"`
	Chapters  bool `toml:"chapters"`
	Tags      bool `toml:"tags"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for podalign.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Matching Matching `toml:"matching"`
	Transfer Transfer `toml:"transfer"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("podalign.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and extraction directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.ExtractDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
