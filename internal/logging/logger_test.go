package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podalign/internal/config"
	"podalign/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerFormatsLine(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "planner")
	logger.Info("feed planned", logging.String(logging.FieldFeed, "The Daily"), logging.Int("matched", 3))
	logger.Debug("hidden")

	content := readLog(t, logPath)
	if !strings.Contains(content, " INFO planner: feed planned ") {
		t.Fatalf("unexpected console line: %q", content)
	}
	if !strings.Contains(content, `feed="The Daily"`) || !strings.Contains(content, "matched=3") {
		t.Fatalf("expected attributes in console line: %q", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("expected no ANSI codes without color, got %q", content)
	}
}

func TestConsoleLoggerDebugAddsSourceAndColor(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}, Color: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("match").Debug("candidate", logging.Float64("score", 0.5))

	content := readLog(t, logPath)
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, "\x1b[90mDEBUG\x1b[0m") {
		t.Fatalf("expected colored level, got %q", content)
	}
	if !strings.Contains(content, "match.score=0.5") {
		t.Fatalf("expected grouped key, got %q", content)
	}
}

func TestJSONLoggerUsesStableKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRunID(context.Background(), "run-1")
	logging.WithContext(ctx, logger).Warn("no match", logging.String(logging.FieldEpisode, "Pilot"))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "warn" || entry["msg"] != "no match" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry[logging.FieldRunID] != "run-1" || entry[logging.FieldEpisode] != "Pilot" {
		t.Fatalf("missing fields: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key: %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg, false)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("started")

	if content := readLog(t, filepath.Join(cfg.Paths.LogDir, "podalign.log")); !strings.Contains(content, `"msg":"started"`) {
		t.Fatalf("expected entry in log file, got %q", content)
	}
}

func TestRunIDContext(t *testing.T) {
	if _, ok := logging.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id")
	}
	ctx := logging.WithRunID(context.Background(), "")
	if _, ok := logging.RunIDFromContext(ctx); ok {
		t.Fatal("expected empty run id to be ignored")
	}
	if logging.WithContext(ctx, nil) == nil {
		t.Fatal("expected nop logger fallback")
	}
	logging.NewNop().Error("discarded")
}
