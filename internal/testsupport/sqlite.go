package testsupport

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Fixture is a writable SQLite database used to seed test data.
type Fixture struct {
	t    testing.TB
	db   *sql.DB
	Path string
}

func newFixture(t testing.TB, path string, schema []string) *Fixture {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	f := &Fixture{t: t, db: db, Path: path}
	for _, stmt := range schema {
		f.Exec(stmt)
	}
	return f
}

// Exec runs a statement and returns the last inserted row ID.
func (f *Fixture) Exec(query string, args ...any) int64 {
	f.t.Helper()
	res, err := f.db.Exec(query, args...)
	if err != nil {
		f.t.Fatalf("exec %q: %v", query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		f.t.Fatalf("last insert id: %v", err)
	}
	return id
}

var podcastAddictSchema = []string{
	`CREATE TABLE podcasts (
        _id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT, description TEXT, author TEXT,
        automaticRefresh INTEGER DEFAULT 1, feed_url TEXT, folderName TEXT,
        subscribed_status INTEGER DEFAULT 1, is_virtual INTEGER DEFAULT 0, initialized_status INTEGER DEFAULT 1)`,
	`CREATE TABLE tags (_id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`,
	`CREATE TABLE tag_relation (podcast_id INTEGER, tag_id INTEGER)`,
	`CREATE TABLE episodes (
        _id INTEGER PRIMARY KEY AUTOINCREMENT, podcast_id INTEGER,
        name TEXT, seen_status INTEGER DEFAULT 0, favorite INTEGER DEFAULT 0,
        local_file_name TEXT, playbackDate INTEGER DEFAULT -1, duration_ms INTEGER DEFAULT -1,
        chapters_extracted INTEGER DEFAULT 0, download_url TEXT, position_to_resume INTEGER DEFAULT 0)`,
	`CREATE TABLE chapters (_id INTEGER PRIMARY KEY AUTOINCREMENT, podcastId INTEGER, episodeId INTEGER, name TEXT, start INTEGER)`,
}

// PodcastAddict is a seeded Podcast Addict database.
type PodcastAddict struct{ *Fixture }

// NewPodcastAddict creates an empty Podcast Addict database at path.
func NewPodcastAddict(t testing.TB, path string) *PodcastAddict {
	t.Helper()
	return &PodcastAddict{newFixture(t, path, podcastAddictSchema)}
}

// PAEpisode describes an episode row.
type PAEpisode struct {
	Title       string
	Seen        bool
	Favorite    bool
	LocalFile   string
	PlaybackMS  int64
	DurationMS  int64
	Chapters    bool
	DownloadURL string
	ResumeMS    int64
}

// AddFeed inserts a subscribed feed and returns its ID.
func (p *PodcastAddict) AddFeed(name, url, folder string) int64 {
	p.t.Helper()
	return p.Exec(`INSERT INTO podcasts (name, description, author, feed_url, folderName) VALUES (?, ?, ?, ?, ?)`,
		name, name+" description", name+" author", url, folder)
}

// AddTag inserts a tag, links it to the feed and returns its ID.
func (p *PodcastAddict) AddTag(feedID int64, name string) int64 {
	p.t.Helper()
	id := p.Exec(`INSERT INTO tags (name) VALUES (?)`, name)
	p.Exec(`INSERT INTO tag_relation (podcast_id, tag_id) VALUES (?, ?)`, feedID, id)
	return id
}

// AddEpisode inserts an episode and returns its ID.
func (p *PodcastAddict) AddEpisode(feedID int64, e PAEpisode) int64 {
	p.t.Helper()
	return p.Exec(`INSERT INTO episodes (podcast_id, name, seen_status, favorite, local_file_name,
            playbackDate, duration_ms, chapters_extracted, download_url, position_to_resume)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		feedID, e.Title, e.Seen, e.Favorite, nullable(e.LocalFile), e.PlaybackMS, e.DurationMS, e.Chapters, nullable(e.DownloadURL), e.ResumeMS)
}

// AddChapter inserts a chapter mark.
func (p *PodcastAddict) AddChapter(feedID, episodeID int64, title string, startMS int64) {
	p.t.Helper()
	p.Exec(`INSERT INTO chapters (podcastId, episodeId, name, start) VALUES (?, ?, ?, ?)`, feedID, episodeID, title, startMS)
}

var antennaPodSchema = []string{
	`CREATE TABLE Feeds (
        id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, description TEXT, author TEXT,
        keep_updated INTEGER DEFAULT 1, download_url TEXT, tags TEXT)`,
	`CREATE TABLE FeedItems (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, feed INTEGER, read INTEGER DEFAULT 0)`,
	`CREATE TABLE FeedMedia (id INTEGER PRIMARY KEY AUTOINCREMENT, feeditem INTEGER, download_url TEXT)`,
}

// AntennaPod is a seeded AntennaPod database.
type AntennaPod struct{ *Fixture }

// NewAntennaPod creates an empty AntennaPod database at path.
func NewAntennaPod(t testing.TB, path string) *AntennaPod {
	t.Helper()
	return &AntennaPod{newFixture(t, path, antennaPodSchema)}
}

// AddFeed inserts a feed and returns its ID. tags uses the raw stored form.
func (a *AntennaPod) AddFeed(title, url, tags string) int64 {
	a.t.Helper()
	return a.Exec(`INSERT INTO Feeds (title, description, author, download_url, tags) VALUES (?, ?, ?, ?, ?)`,
		title, title+" description", title+" author", url, nullable(tags))
}

// AddItem inserts an item with its media row and returns the item ID.
func (a *AntennaPod) AddItem(feedID int64, title, mediaURL string, read bool) int64 {
	a.t.Helper()
	id := a.Exec(`INSERT INTO FeedItems (title, feed, read) VALUES (?, ?, ?)`, title, feedID, read)
	a.Exec(`INSERT INTO FeedMedia (feeditem, download_url) VALUES (?, ?)`, id, nullable(mediaURL))
	return id
}

// AddItemWithoutMedia inserts an item that has no media row.
func (a *AntennaPod) AddItemWithoutMedia(feedID int64, title string) int64 {
	a.t.Helper()
	return a.Exec(`INSERT INTO FeedItems (title, feed, read) VALUES (?, ?, 0)`, title, feedID)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ZipFile writes a zip archive at archive containing src under name.
func ZipFile(t testing.TB, archive, src, name string) {
	t.Helper()
	out, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer out.Close()
	zw := zip.NewWriter(out)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("zip entry: %v", err)
	}
	in, err := os.Open(src)
	if err != nil {
		t.Fatalf("open %s: %v", src, err)
	}
	defer in.Close()
	if _, err := io.Copy(w, in); err != nil {
		t.Fatalf("zip copy: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

// TempPath returns a path named name inside a fresh temp directory.
func TempPath(t testing.TB, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
