package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"podalign/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PODALIGN_WORK_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "podalign", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "podalign", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if !filepath.IsAbs(cfg.Paths.WorkDir) {
		t.Fatalf("expected absolute work dir, got %q", cfg.Paths.WorkDir)
	}
	if want := filepath.Join(cfg.Paths.WorkDir, "podcast_addict_extracted"); cfg.Paths.ExtractDir != want {
		t.Fatalf("unexpected extract dir: got %q want %q", cfg.Paths.ExtractDir, want)
	}
	if !strings.HasPrefix(cfg.Paths.EpisodesDir, "/storage/emulated/0/") {
		t.Fatalf("episodes dir must stay a device path, got %q", cfg.Paths.EpisodesDir)
	}
	if cfg.Matching.MinimumSimilarity != 0.83 || cfg.Matching.LockInThreshold != 0.97 {
		t.Fatalf("unexpected thresholds: %+v", cfg.Matching)
	}
	if !cfg.Matching.URLFallback || cfg.Matching.MinFallbackURLLength != 10 {
		t.Fatalf("unexpected fallback defaults: %+v", cfg.Matching)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsFileAndEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Setenv("PODALIGN_WORK_DIR", work)

	path := filepath.Join(t.TempDir(), "podalign.toml")
	content := `
[paths]
episodes_dir = "/sdcard/podcasts/"

[matching]
minimum_similarity = 0.7
lock_in_threshold = 0.95
url_weight = 0.5
url_fallback = false

[logging]
format = " JSON "
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.WorkDir != work {
		t.Fatalf("expected env work dir %q, got %q", work, cfg.Paths.WorkDir)
	}
	if cfg.Paths.EpisodesDir != "/sdcard/podcasts" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Paths.EpisodesDir)
	}
	if cfg.Matching.MinimumSimilarity != 0.7 || cfg.Matching.LockInThreshold != 0.95 || cfg.Matching.URLWeight != 0.5 {
		t.Fatalf("unexpected matching: %+v", cfg.Matching)
	}
	if cfg.Matching.URLFallback {
		t.Fatal("expected url fallback disabled")
	}
	if cfg.Matching.TitleWeight != 1 {
		t.Fatalf("expected default title weight to survive partial file, got %v", cfg.Matching.TitleWeight)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "podalign.toml")
	if err := os.WriteFile(path, []byte("[matching]\nminimum_similarty = 0.5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected misspelled key to be rejected")
	}
}

func TestValidateRejectsBadMatching(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"floor above lock-in", func(c *config.Config) { c.Matching.MinimumSimilarity = 0.98 }},
		{"floor above one", func(c *config.Config) { c.Matching.MinimumSimilarity = 1.5; c.Matching.LockInThreshold = 2 }},
		{"negative lock-in", func(c *config.Config) { c.Matching.MinimumSimilarity = 0; c.Matching.LockInThreshold = -0.1 }},
		{"zero weights", func(c *config.Config) { c.Matching.TitleWeight = 0 }},
		{"negative weight", func(c *config.Config) { c.Matching.URLWeight = -1 }},
		{"negative url length", func(c *config.Config) { c.Matching.MinFallbackURLLength = -1 }},
		{"suggestion threshold", func(c *config.Config) { c.Matching.FeedSuggestionThreshold = 1.1 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var sample config.Config
	if err := toml.Unmarshal(data, &sample); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	defaults := config.Default()
	if sample.Matching != defaults.Matching {
		t.Fatalf("sample matching %+v differs from defaults %+v", sample.Matching, defaults.Matching)
	}
	if sample.Transfer != defaults.Transfer || sample.Logging != defaults.Logging {
		t.Fatalf("sample transfer/logging differ from defaults")
	}
	if sample.Paths.EpisodesDir != defaults.Paths.EpisodesDir {
		t.Fatalf("sample episodes dir %q differs from default", sample.Paths.EpisodesDir)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ExtractDir = filepath.Join(base, "extract")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.ExtractDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
