package migrate

import (
	"math"
	"strings"

	"podalign/internal/align"
	"podalign/internal/config"
	"podalign/internal/textutil"
)

// Record is the projection of an episode that the episode matcher compares.
type Record struct {
	Title       string
	DownloadURL string
}

func recordTitle(r Record) (string, bool) {
	return r.Title, strings.TrimSpace(r.Title) != ""
}

func recordURL(r Record) (string, bool) {
	u := strings.TrimSpace(r.DownloadURL)
	return u, u != ""
}

func exactMatch(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}

// EpisodeMatcher builds the title matcher described by cfg. A positive
// URLWeight adds an exact download URL comparator.
func EpisodeMatcher(cfg config.Matching) (*align.Matcher[Record], error) {
	comparators := []align.Comparator[Record]{
		align.StringField("title", cfg.TitleWeight, recordTitle),
	}
	if cfg.URLWeight > 0 {
		comparators = append(comparators, align.Field("download_url", cfg.URLWeight, recordURL, exactMatch))
	}
	return align.New(comparators,
		align.WithMinimumSimilarity(cfg.MinimumSimilarity),
		align.WithLockInThreshold(cfg.LockInThreshold),
	)
}

type feedRecord struct {
	Name   string
	Author string
}

func feedName(f feedRecord) (string, bool) { return f.Name, strings.TrimSpace(f.Name) != "" }

func feedAuthor(f feedRecord) (string, bool) { return f.Author, strings.TrimSpace(f.Author) != "" }

// feedMatcher scores feeds by name and, with less weight, by author tokens.
func feedMatcher(threshold float64) (*align.Matcher[feedRecord], error) {
	return align.New([]align.Comparator[feedRecord]{
		align.StringField("name", 3, feedName),
		align.Field("author", 1, feedAuthor, textutil.TokenSimilarity),
	},
		align.WithMinimumSimilarity(threshold),
		align.WithLockInThreshold(math.Max(threshold, align.DefaultLockInThreshold)),
	)
}
