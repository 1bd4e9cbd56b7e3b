package podcastaddict

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"podalign/internal/sqlitedb"
)

// Store queries an extracted Podcast Addict database.
type Store struct {
	db *sqlitedb.DB
}

// Open opens the database at path read-only.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlitedb.OpenReadOnly(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("podcast addict: %w", err)
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

// Feeds returns subscribed, initialized, non-virtual podcasts ordered by ID.
// Tags are collated from the tag relation table.
func (s *Store) Feeds(ctx context.Context) ([]Feed, error) {
	byID := map[int64]*Feed{}
	var order []int64
	err := s.db.Query(ctx, func(rows *sql.Rows) error {
		var (
			f                       Feed
			name, desc, author, url sql.NullString
			folder                  sql.NullString
			refresh                 sql.NullInt64
			tag                     sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &name, &desc, &author, &refresh, &url, &tag, &folder); err != nil {
			return err
		}
		existing, ok := byID[f.ID]
		if !ok {
			f.Name = sqlitedb.NullString(name)
			f.Description = sqlitedb.NullString(desc)
			f.Author = sqlitedb.NullString(author)
			f.URL = sqlitedb.NullString(url)
			f.FolderName = sqlitedb.NullString(folder)
			f.KeepUpdated = refresh.Valid && refresh.Int64 != 0
			existing = &f
			byID[f.ID] = existing
			order = append(order, f.ID)
		}
		if tag.Valid {
			existing.TagIDs = append(existing.TagIDs, tag.Int64)
		}
		return nil
	}, `SELECT podcasts._id, podcasts.name, podcasts.description, podcasts.author,
            podcasts.automaticRefresh, podcasts.feed_url, tag_relation.tag_id, podcasts.folderName
        FROM podcasts
        LEFT JOIN tag_relation ON tag_relation.podcast_id = podcasts._id
        WHERE podcasts.subscribed_status = 1 AND podcasts.is_virtual = 0 AND podcasts.initialized_status = 1
        ORDER BY podcasts._id, tag_relation.tag_id`)
	if err != nil {
		return nil, fmt.Errorf("podcast addict feeds: %w", err)
	}

	feeds := make([]Feed, 0, len(order))
	for _, id := range order {
		feeds = append(feeds, *byID[id])
	}
	return feeds, nil
}

// Tags returns tag names keyed by tag ID.
func (s *Store) Tags(ctx context.Context) (map[int64]string, error) {
	tags := map[int64]string{}
	err := s.db.Query(ctx, func(rows *sql.Rows) error {
		var id int64
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		tags[id] = sqlitedb.NullString(name)
		return nil
	}, `SELECT _id, name FROM tags`)
	if err != nil {
		return nil, fmt.Errorf("podcast addict tags: %w", err)
	}
	return tags, nil
}

// TagNames resolves the feed's tag IDs, skipping unknown or blank tags. The
// result is sorted.
func TagNames(f Feed, tags map[int64]string) []string {
	names := make([]string, 0, len(f.TagIDs))
	for _, id := range f.TagIDs {
		if name := tags[id]; name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Episodes returns the feed's episodes that were played, are in progress or
// are downloaded, ordered by ID.
func (s *Store) Episodes(ctx context.Context, feedID int64) ([]Episode, error) {
	var episodes []Episode
	err := s.db.Query(ctx, func(rows *sql.Rows) error {
		var (
			e                          Episode
			title, local, url          sql.NullString
			seen, fav, chapters        sql.NullInt64
			playback, duration, resume sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &title, &seen, &fav, &local, &playback, &duration, &chapters, &url, &resume); err != nil {
			return err
		}
		e.FeedID = feedID
		e.Title = sqlitedb.NullString(title)
		e.Seen = seen.Valid && seen.Int64 != 0
		e.Favorite = fav.Valid && fav.Int64 != 0
		e.LocalFileName = sqlitedb.NullString(local)
		if playback.Valid && playback.Int64 > 0 {
			e.PlaybackDate = time.UnixMilli(playback.Int64).UTC()
		}
		if duration.Valid && duration.Int64 > 0 {
			e.Duration = time.Duration(duration.Int64) * time.Millisecond
		}
		e.ChaptersExtracted = chapters.Valid && chapters.Int64 != 0
		e.DownloadURL = sqlitedb.NullString(url)
		if resume.Valid && resume.Int64 > 0 {
			e.ResumePosition = time.Duration(resume.Int64) * time.Millisecond
		}
		episodes = append(episodes, e)
		return nil
	}, `SELECT _id, name, seen_status, favorite, local_file_name,
            playbackDate, duration_ms, chapters_extracted, download_url, position_to_resume
        FROM episodes
        WHERE podcast_id = ?
          AND (seen_status = 1 OR position_to_resume > 0
               OR (local_file_name != '' AND local_file_name IS NOT NULL))
        ORDER BY _id`, feedID)
	if err != nil {
		return nil, fmt.Errorf("podcast addict episodes for feed %d: %w", feedID, err)
	}
	return episodes, nil
}

// Chapters returns the chapter marks of an episode ordered by start time.
func (s *Store) Chapters(ctx context.Context, feedID, episodeID int64) ([]Chapter, error) {
	var chapters []Chapter
	err := s.db.Query(ctx, func(rows *sql.Rows) error {
		var title sql.NullString
		var start sql.NullInt64
		if err := rows.Scan(&title, &start); err != nil {
			return err
		}
		c := Chapter{Title: sqlitedb.NullString(title)}
		if start.Valid && start.Int64 > 0 {
			c.Start = time.Duration(start.Int64) * time.Millisecond
		}
		chapters = append(chapters, c)
		return nil
	}, `SELECT name, start FROM chapters WHERE podcastId = ? AND episodeId = ? ORDER BY start`, feedID, episodeID)
	if err != nil {
		return nil, fmt.Errorf("podcast addict chapters for episode %d: %w", episodeID, err)
	}
	return chapters, nil
}
