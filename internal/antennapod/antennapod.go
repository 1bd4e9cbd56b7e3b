// Package antennapod reads feeds and unread items from an AntennaPod
// database export.
package antennapod

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"podalign/internal/podcastaddict"
	"podalign/internal/sqlitedb"
)

const databasePattern = "AntennaPodBackup*.db"

// TagSeparator joins tag names in the Feeds.tags column.
const TagSeparator = "\x1e"

// Feed is a subscribed feed.
type Feed struct {
	ID          int64
	Title       string
	Description string
	Author      string
	KeepUpdated bool
	URL         string
	Tags        []string
}

// Item is an unread feed item with its media download URL, if any.
type Item struct {
	ID          int64
	FeedID      int64
	Title       string
	DownloadURL string
}

// FindDatabase locates the AntennaPod export in dir.
func FindDatabase(dir string) (string, error) {
	return podcastaddict.FindOne(dir, databasePattern)
}

// SplitTags parses the stored tag list, dropping blanks.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, TagSeparator) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// MergeTags returns the sorted union of both tag lists.
func MergeTags(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, tag := range list {
			if tag = strings.TrimSpace(tag); tag != "" {
				set[tag] = struct{}{}
			}
		}
	}
	merged := make([]string, 0, len(set))
	for tag := range set {
		merged = append(merged, tag)
	}
	sort.Strings(merged)
	return merged
}

// JoinTags renders tags in the stored form.
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// Store queries an AntennaPod database.
type Store struct {
	db *sqlitedb.DB
}

// Open opens the database at path read-only.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlitedb.OpenReadOnly(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("antennapod: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Feeds returns all feeds ordered by ID.
func (s *Store) Feeds(ctx context.Context) ([]Feed, error) {
	var feeds []Feed
	err := s.db.Query(ctx, func(rows *sql.Rows) error {
		var (
			f                              Feed
			title, desc, author, url, tags sql.NullString
			keep                           sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &title, &desc, &author, &keep, &url, &tags); err != nil {
			return err
		}
		f.Title = sqlitedb.NullString(title)
		f.Description = sqlitedb.NullString(desc)
		f.Author = sqlitedb.NullString(author)
		f.KeepUpdated = keep.Valid && keep.Int64 != 0
		f.URL = sqlitedb.NullString(url)
		f.Tags = SplitTags(tags.String)
		feeds = append(feeds, f)
		return nil
	}, `SELECT id, title, description, author, keep_updated, download_url, tags FROM Feeds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("antennapod feeds: %w", err)
	}
	return feeds, nil
}

// UnreadItems returns the feed's unread items ordered by ID. Items without a
// media row have an empty DownloadURL.
func (s *Store) UnreadItems(ctx context.Context, feedID int64) ([]Item, error) {
	var items []Item
	err := s.db.Query(ctx, func(rows *sql.Rows) error {
		var title, url sql.NullString
		item := Item{FeedID: feedID}
		if err := rows.Scan(&item.ID, &title, &url); err != nil {
			return err
		}
		item.Title = sqlitedb.NullString(title)
		item.DownloadURL = sqlitedb.NullString(url)
		items = append(items, item)
		return nil
	}, `SELECT fi.id, fi.title, fm.download_url
        FROM FeedItems fi
        LEFT JOIN FeedMedia fm ON fi.id = fm.feeditem
        WHERE fi.feed = ? AND fi.read = 0
        ORDER BY fi.id`, feedID)
	if err != nil {
		return nil, fmt.Errorf("antennapod items for feed %d: %w", feedID, err)
	}
	return items, nil
}
