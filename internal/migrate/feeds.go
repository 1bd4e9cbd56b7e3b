package migrate

import (
	"fmt"
	"strings"

	"podalign/internal/antennapod"
	"podalign/internal/podcastaddict"
)

// FeedPair is a Podcast Addict feed and the AntennaPod feed with the same URL.
type FeedPair struct {
	Source podcastaddict.Feed
	Target antennapod.Feed
}

// Suggestion proposes a target feed for a source feed without a URL match.
type Suggestion struct {
	Source podcastaddict.Feed `json:"source"`
	Target antennapod.Feed    `json:"target"`
	Score  float64            `json:"score"`
}

// Pairing is the outcome of matching the two subscription lists.
type Pairing struct {
	Pairs       []FeedPair
	Unmatched   []podcastaddict.Feed
	Suggestions []Suggestion
}

// PairFeeds pairs each source feed with the first target feed whose trimmed
// URL is identical. Several source feeds may share one target. Source feeds without a counterpart are returned in
// unmatched, in source order.
func PairFeeds(source []podcastaddict.Feed, target []antennapod.Feed) (pairs []FeedPair, unmatched []podcastaddict.Feed) {
	byURL := make(map[string]antennapod.Feed, len(target))
	for _, t := range target {
		url := strings.TrimSpace(t.URL)
		if url == "" {
			continue
		}
		if _, ok := byURL[url]; !ok {
			byURL[url] = t
		}
	}
	for _, s := range source {
		if t, ok := byURL[strings.TrimSpace(s.URL)]; ok && strings.TrimSpace(s.URL) != "" {
			pairs = append(pairs, FeedPair{Source: s, Target: t})
			continue
		}
		unmatched = append(unmatched, s)
	}
	return pairs, unmatched
}

// SuggestFeeds aligns unmatched source feeds against target feeds that no
// pair uses, by name and author. Each target is suggested at most once.
func SuggestFeeds(unmatched []podcastaddict.Feed, target []antennapod.Feed, pairs []FeedPair, threshold float64) ([]Suggestion, error) {
	used := make(map[int64]struct{}, len(pairs))
	for _, p := range pairs {
		used[p.Target.ID] = struct{}{}
	}
	var candidates []antennapod.Feed
	for _, t := range target {
		if _, ok := used[t.ID]; !ok {
			candidates = append(candidates, t)
		}
	}
	if len(unmatched) == 0 || len(candidates) == 0 {
		return nil, nil
	}

	matcher, err := feedMatcher(threshold)
	if err != nil {
		return nil, fmt.Errorf("feed suggestions: %w", err)
	}
	primary := make([]feedRecord, len(unmatched))
	for i, f := range unmatched {
		primary[i] = feedRecord{Name: f.Name, Author: f.Author}
	}
	secondary := make([]feedRecord, len(candidates))
	for i, f := range candidates {
		secondary[i] = feedRecord{Name: f.Title, Author: f.Author}
	}
	result, err := matcher.Align(primary, secondary)
	if err != nil {
		return nil, fmt.Errorf("feed suggestions: %w", err)
	}

	suggestions := make([]Suggestion, 0, result.MatchedCount())
	for _, p := range result.Pairs() {
		suggestions = append(suggestions, Suggestion{
			Source: unmatched[p.Primary],
			Target: candidates[p.Secondary],
			Score:  p.Score,
		})
	}
	return suggestions, nil
}
