package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podalign/internal/align"
	"podalign/internal/migrate"
	"podalign/internal/testsupport"
)

type cliTestEnv struct {
	workDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Chdir(base)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("PODALIGN_WORK_DIR", "")
	workDir := filepath.Join(base, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}

	configPath := filepath.Join(base, "podalign.toml")
	content := fmt.Sprintf("[paths]\nwork_dir = %q\nlog_dir = %q\nepisodes_dir = %q\n",
		workDir, filepath.Join(base, "logs"), "/sdcard/podcasts")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{workDir: workDir, configPath: configPath}
}

func (e *cliTestEnv) seedBackups(t *testing.T) {
	t.Helper()

	dbPath := testsupport.TempPath(t, "podcastAddict.db")
	pa := testsupport.NewPodcastAddict(t, dbPath)
	feed := pa.AddFeed("Hardcore History", "https://feeds.example.com/hh", "hardcore")
	pa.AddEpisode(feed, testsupport.PAEpisode{Title: "Show 68 - Blueprint for Armageddon I", Seen: true, Favorite: true})
	pa.AddEpisode(feed, testsupport.PAEpisode{Title: "Show 69 - Supernova in the East", ResumeMS: 60_000})
	testsupport.ZipFile(t, filepath.Join(e.workDir, "PodcastAddict_2024-01-01.backup"), dbPath, "podcastAddict.db")

	ap := testsupport.NewAntennaPod(t, filepath.Join(e.workDir, "AntennaPodBackup-2024-01-01.db"))
	apFeed := ap.AddFeed("Hardcore History", "https://feeds.example.com/hh", "")
	ap.AddItem(apFeed, "Show 68 - Blueprint for Armageddon I", "", false)
	ap.AddItem(apFeed, "Show 69: Supernova in the East", "", false)
	ap.AddItem(apFeed, "Show 70 - Human Resources", "", false)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "titles.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write titles: %v", err)
	}
	return path
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.workDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "podalign feeds")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, target); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(filepath.Dir(env.configPath), "bad.toml")
	if err := os.WriteFile(bad, []byte("[matching]\nminimum_similarity = 0.5\nfuzziness = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, bad); err == nil {
		t.Fatal("expected unknown key to fail validation")
	}
}

func TestAlignCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	primary := writeLines(t, "Show 68 - Blueprint", "", "Unrelated title xyz")
	secondary := writeLines(t, "show 68 - blueprint", "other")

	out, _, err := runCLI(t, []string{"align", "--primary", primary, "--secondary", secondary, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var got alignOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if got.Matched != 1 || got.Comparisons != 2 || got.LockIns != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if len(got.Lines) != 2 || got.Lines[0].Secondary != "show 68 - blueprint" || got.Lines[0].Score != 1 {
		t.Fatalf("unexpected lines %+v", got.Lines)
	}
	if got.Lines[1].Secondary != "" {
		t.Fatalf("unrelated title should stay unmatched: %+v", got.Lines[1])
	}
}

func TestAlignCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	primary := writeLines(t, "The Daily", "Hardcore History")
	secondary := writeLines(t, "The Daily Show", "Hardcore History!")

	out, _, err := runCLI(t, []string{"align", "--primary", primary, "--secondary", secondary, "--min", "0.6"}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "Matched 2 of 2")
	requireContains(t, out, "The Daily Show")
}

func TestAlignCommandRejectsInvalidThresholds(t *testing.T) {
	env := setupCLITestEnv(t)
	primary := writeLines(t, "a title")
	_, _, err := runCLI(t, []string{"align", "--primary", primary, "--secondary", primary, "--min", "0.9", "--lock-in", "0.5"}, env.configPath)
	if !errors.Is(err, align.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"align", "--primary", primary}, env.configPath); err == nil {
		t.Fatal("expected error without --secondary")
	}
}

func TestPlanCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedBackups(t)

	out, _, err := runCLI(t, []string{"plan", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var plan migrate.Plan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan %q: %v", out, err)
	}
	want := migrate.Summary{Feeds: 1, Seen: 1, Progress: 1, Favorites: 1, TitleMatches: 2}
	if plan.Summary != want {
		t.Fatalf("Summary = %+v, want %+v", plan.Summary, want)
	}
	if plan.RunID == "" {
		t.Fatal("expected a run id")
	}
	if _, err := os.Stat(filepath.Join(env.workDir, "podcast_addict_extracted", "podcastAddict.db")); err != nil {
		t.Fatalf("expected extracted database: %v", err)
	}
}

func TestPlanCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedBackups(t)

	out, _, err := runCLI(t, []string{"plan", "--actions"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "Hardcore History")
	requireContains(t, out, "Supernova")
	requireContains(t, out, "progress 1m0s")
	requireContains(t, out, "Refresh")
}

func TestFeedsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedBackups(t)

	out, _, err := runCLI(t, []string{"feeds"}, env.configPath)
	if err != nil {
		t.Fatalf("feeds: %v", err)
	}
	requireContains(t, out, "Paired: 1  Unpaired: 0")
}

func TestPlanCommandMissingBackup(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"plan"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without backups")
	}
	requireContains(t, err.Error(), "locate podcast addict backup")
}
