package podcastaddict

import "time"

// Feed is a subscribed podcast.
type Feed struct {
	ID          int64
	Name        string
	Description string
	Author      string
	URL         string
	FolderName  string
	KeepUpdated bool
	TagIDs      []int64
}

// DisplayName returns the feed name, falling back to its URL.
func (f Feed) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.URL
}

// Episode is an episode with listening history.
type Episode struct {
	ID                int64
	FeedID            int64
	Title             string
	Seen              bool
	Favorite          bool
	LocalFileName     string
	PlaybackDate      time.Time
	Duration          time.Duration
	ChaptersExtracted bool
	DownloadURL       string
	ResumePosition    time.Duration
}

// Downloaded reports whether the episode has a local media file.
func (e Episode) Downloaded() bool { return e.LocalFileName != "" }

// Chapter is a chapter mark extracted from an episode.
type Chapter struct {
	Title string
	Start time.Duration
}
