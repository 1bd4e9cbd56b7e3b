package antennapod_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"podalign/internal/antennapod"
	"podalign/internal/podcastaddict"
	"podalign/internal/testsupport"
)

func TestStoreQueries(t *testing.T) {
	path := testsupport.TempPath(t, "AntennaPodBackup-2024.db")
	db := testsupport.NewAntennaPod(t, path)
	feedID := db.AddFeed("Hardcore History", "https://feeds.example.com/hh ", "history\x1e \x1eaudio")
	db.AddFeed("Untagged", "https://feeds.example.com/other", "")
	first := db.AddItem(feedID, "Show 68 - Blueprint for Armageddon", " https://cdn.example.com/68.mp3", false)
	db.AddItem(feedID, "Show 67 - Read already", "https://cdn.example.com/67.mp3", true)
	bare := db.AddItemWithoutMedia(feedID, "Trailer")

	ctx := context.Background()
	store, err := antennapod.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	feeds, err := store.Feeds(ctx)
	if err != nil {
		t.Fatalf("Feeds: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(feeds))
	}
	if feeds[0].URL != "https://feeds.example.com/hh" || !feeds[0].KeepUpdated {
		t.Fatalf("unexpected feed %+v", feeds[0])
	}
	if want := []string{"history", "audio"}; !reflect.DeepEqual(feeds[0].Tags, want) {
		t.Fatalf("Tags = %v, want %v", feeds[0].Tags, want)
	}
	if feeds[1].Tags != nil {
		t.Fatalf("expected no tags, got %v", feeds[1].Tags)
	}

	items, err := store.UnreadItems(ctx, feedID)
	if err != nil {
		t.Fatalf("UnreadItems: %v", err)
	}
	want := []antennapod.Item{
		{ID: first, FeedID: feedID, Title: "Show 68 - Blueprint for Armageddon", DownloadURL: "https://cdn.example.com/68.mp3"},
		{ID: bare, FeedID: feedID, Title: "Trailer"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("UnreadItems = %+v, want %+v", items, want)
	}
}

func TestFindDatabase(t *testing.T) {
	dir := t.TempDir()
	if _, err := antennapod.FindDatabase(dir); !errors.Is(err, podcastaddict.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	path := filepath.Join(dir, "AntennaPodBackup-2024-01-01.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := antennapod.FindDatabase(dir)
	if err != nil || got != path {
		t.Fatalf("FindDatabase = %q, %v", got, err)
	}
}

func TestMergeTags(t *testing.T) {
	got := antennapod.MergeTags([]string{"news", "audio"}, []string{"audio", " history ", ""})
	want := []string{"audio", "history", "news"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeTags = %v, want %v", got, want)
	}
	if joined := antennapod.JoinTags(got); joined != "audio\x1ehistory\x1enews" {
		t.Fatalf("JoinTags = %q", joined)
	}
	if antennapod.SplitTags("  ") != nil {
		t.Fatal("blank tag column should parse to nil")
	}
}
