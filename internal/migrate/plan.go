package migrate

import (
	"path"
	"strings"
	"time"

	"podalign/internal/podcastaddict"
)

// ActionKind is the playback state an action carries over.
type ActionKind string

const (
	// ActionSeen marks the item played.
	ActionSeen ActionKind = "seen"
	// ActionProgress restores a resume position.
	ActionProgress ActionKind = "progress"
	// ActionNone carries no playback state, only flags such as a download.
	ActionNone ActionKind = "none"
)

// MatchMethod records how an item was paired with a source episode.
type MatchMethod string

const (
	MatchTitle MatchMethod = "title"
	MatchURL   MatchMethod = "download_url"
)

// Action describes what would be written to one AntennaPod item.
type Action struct {
	Kind        ActionKind  `json:"kind"`
	MatchedBy   MatchMethod `json:"matched_by"`
	Score       float64     `json:"score"`
	ItemID      int64       `json:"item_id"`
	ItemTitle   string      `json:"item_title"`
	EpisodeID   int64       `json:"episode_id"`
	SourceTitle string      `json:"source_title"`

	CompletedAt time.Time     `json:"completed_at,omitzero"`
	Duration    time.Duration `json:"duration,omitempty"`
	Position    time.Duration `json:"position,omitempty"`

	Favorite  bool                    `json:"favorite,omitempty"`
	MediaPath string                  `json:"media_path,omitempty"`
	Chapters  []podcastaddict.Chapter `json:"chapters,omitempty"`
}

// FeedStats summarizes the alignment of one feed pair.
type FeedStats struct {
	Items        int           `json:"items"`
	Episodes     int           `json:"episodes"`
	TitleMatches int           `json:"title_matches"`
	URLMatches   int           `json:"url_matches"`
	Comparisons  int           `json:"comparisons"`
	LockIns      int           `json:"lock_ins"`
	Estimate     time.Duration `json:"estimate"`
}

// FeedPlan lists the actions for one feed pair.
type FeedPlan struct {
	SourceFeedID int64     `json:"source_feed_id"`
	TargetFeedID int64     `json:"target_feed_id"`
	Title        string    `json:"title"`
	Tags         []string  `json:"tags,omitempty"`
	TagsChanged  bool      `json:"tags_changed"`
	Actions      []Action  `json:"actions"`
	Stats        FeedStats `json:"stats"`

	// KeepUpdated is the source feed's automatic refresh setting.
	KeepUpdated        bool `json:"keep_updated"`
	KeepUpdatedChanged bool `json:"keep_updated_changed"`
}

// Summary totals a Plan.
type Summary struct {
	Feeds          int `json:"feeds"`
	UnmatchedFeeds int `json:"unmatched_feeds"`
	KeepUpdated    int `json:"keep_updated_changes"`
	Seen           int `json:"seen"`
	Progress       int `json:"progress"`
	Favorites      int `json:"favorites"`
	Downloads      int `json:"downloads"`
	Chapters       int `json:"chapters"`
	TitleMatches   int `json:"title_matches"`
	URLMatches     int `json:"url_matches"`
}

// Plan is the full migration report.
type Plan struct {
	RunID          string       `json:"run_id,omitempty"`
	Feeds          []FeedPlan   `json:"feeds"`
	UnmatchedFeeds []string     `json:"unmatched_feeds,omitempty"`
	Suggestions    []Suggestion `json:"suggestions,omitempty"`
	Summary        Summary      `json:"summary"`
}

func (p *Plan) add(fp FeedPlan) {
	p.Feeds = append(p.Feeds, fp)
	p.Summary.Feeds++
	p.Summary.TitleMatches += fp.Stats.TitleMatches
	p.Summary.URLMatches += fp.Stats.URLMatches
	if fp.KeepUpdatedChanged {
		p.Summary.KeepUpdated++
	}
	for _, a := range fp.Actions {
		switch a.Kind {
		case ActionSeen:
			p.Summary.Seen++
		case ActionProgress:
			p.Summary.Progress++
		}
		if a.Favorite {
			p.Summary.Favorites++
		}
		if a.MediaPath != "" {
			p.Summary.Downloads++
		}
		if len(a.Chapters) > 0 {
			p.Summary.Chapters++
		}
	}
}

// MediaPath returns the on-device location of a downloaded episode. The
// path uses forward slashes regardless of the host.
func MediaPath(episodesDir, folder, file string) string {
	return path.Join(episodesDir, strings.TrimSpace(folder), file)
}

// Estimate approximates the time a full pairwise comparison of n items
// against m episodes takes.
func Estimate(n, m int) time.Duration {
	return time.Duration(n) * time.Duration(m) * time.Second / 4000
}
