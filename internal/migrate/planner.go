package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"podalign/internal/align"
	"podalign/internal/antennapod"
	"podalign/internal/config"
	"podalign/internal/logging"
	"podalign/internal/podcastaddict"
)

// Source provides Podcast Addict subscriptions and history.
type Source interface {
	Feeds(ctx context.Context) ([]podcastaddict.Feed, error)
	Tags(ctx context.Context) (map[int64]string, error)
	Episodes(ctx context.Context, feedID int64) ([]podcastaddict.Episode, error)
	Chapters(ctx context.Context, feedID, episodeID int64) ([]podcastaddict.Chapter, error)
}

// Target provides AntennaPod subscriptions and unread items.
type Target interface {
	Feeds(ctx context.Context) ([]antennapod.Feed, error)
	UnreadItems(ctx context.Context, feedID int64) ([]antennapod.Item, error)
}

// Planner builds migration plans.
type Planner struct {
	source  Source
	target  Target
	cfg     *config.Config
	matcher *align.Matcher[Record]
	logger  *slog.Logger
}

// NewPlanner constructs a Planner from validated configuration.
func NewPlanner(source Source, target Target, cfg *config.Config, logger *slog.Logger) (*Planner, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("planner requires a source and a target")
	}
	if cfg == nil {
		return nil, fmt.Errorf("planner requires configuration")
	}
	matcher, err := EpisodeMatcher(cfg.Matching)
	if err != nil {
		return nil, fmt.Errorf("episode matcher: %w", err)
	}
	return &Planner{
		source:  source,
		target:  target,
		cfg:     cfg,
		matcher: matcher,
		logger:  logging.NewComponentLogger(logger, "migrate"),
	}, nil
}

// Pairing loads both subscription lists and pairs them.
func (p *Planner) Pairing(ctx context.Context) (Pairing, error) {
	source, err := p.source.Feeds(ctx)
	if err != nil {
		return Pairing{}, err
	}
	target, err := p.target.Feeds(ctx)
	if err != nil {
		return Pairing{}, err
	}
	var result Pairing
	result.Pairs, result.Unmatched = PairFeeds(source, target)
	if p.cfg.Matching.FeedSuggestions {
		result.Suggestions, err = SuggestFeeds(result.Unmatched, target, result.Pairs, p.cfg.Matching.FeedSuggestionThreshold)
		if err != nil {
			return Pairing{}, err
		}
	}
	return result, nil
}

// Plan pairs the feeds and plans every pair.
func (p *Planner) Plan(ctx context.Context) (*Plan, error) {
	logger := logging.WithContext(ctx, p.logger)

	pairing, err := p.Pairing(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := p.source.Tags(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Suggestions: pairing.Suggestions}
	plan.RunID, _ = logging.RunIDFromContext(ctx)
	for _, f := range pairing.Unmatched {
		plan.UnmatchedFeeds = append(plan.UnmatchedFeeds, f.DisplayName())
		logger.Warn("no antennapod feed with this url",
			logging.String(logging.FieldFeed, f.DisplayName()),
			logging.String("url", f.URL),
		)
	}
	plan.Summary.UnmatchedFeeds = len(pairing.Unmatched)

	for _, pair := range pairing.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fp, err := p.PlanFeed(ctx, pair, tags)
		if err != nil {
			return nil, err
		}
		plan.add(fp)
	}

	logger.Info("plan ready",
		logging.Int("feeds", plan.Summary.Feeds),
		logging.Int("unmatched_feeds", plan.Summary.UnmatchedFeeds),
		logging.Int("seen", plan.Summary.Seen),
		logging.Int("progress", plan.Summary.Progress),
		logging.Int("title_matches", plan.Summary.TitleMatches),
		logging.Int("url_matches", plan.Summary.URLMatches),
	)
	return plan, nil
}

// PlanFeed aligns the target's unread items with the source's episodes for
// one feed pair. tags maps source tag IDs to names.
func (p *Planner) PlanFeed(ctx context.Context, pair FeedPair, tags map[int64]string) (FeedPlan, error) {
	logger := logging.WithContext(ctx, p.logger).With(logging.String(logging.FieldFeed, pair.Target.Title))

	items, err := p.target.UnreadItems(ctx, pair.Target.ID)
	if err != nil {
		return FeedPlan{}, err
	}
	episodes, err := p.source.Episodes(ctx, pair.Source.ID)
	if err != nil {
		return FeedPlan{}, err
	}

	fp := FeedPlan{
		SourceFeedID: pair.Source.ID,
		TargetFeedID: pair.Target.ID,
		Title:        pair.Target.Title,
		Stats: FeedStats{
			Items:    len(items),
			Episodes: len(episodes),
			Estimate: Estimate(len(items), len(episodes)),
		},
	}
	fp.KeepUpdated = pair.Source.KeepUpdated
	fp.KeepUpdatedChanged = pair.Source.KeepUpdated != pair.Target.KeepUpdated
	if fp.Title == "" {
		fp.Title = pair.Source.DisplayName()
	}
	if p.cfg.Transfer.Tags {
		merged := antennapod.MergeTags(pair.Target.Tags, podcastaddict.TagNames(pair.Source, tags))
		fp.Tags = merged
		fp.TagsChanged = !slices.Equal(merged, pair.Target.Tags)
	}
	logger.Info("aligning feed",
		logging.Int("items", len(items)),
		logging.Int("episodes", len(episodes)),
		logging.Duration("estimate", fp.Stats.Estimate),
	)

	primary := make([]Record, len(items))
	for i, item := range items {
		primary[i] = Record{Title: item.Title, DownloadURL: item.DownloadURL}
	}
	secondary := make([]Record, len(episodes))
	for i, e := range episodes {
		secondary[i] = Record{Title: e.Title, DownloadURL: e.DownloadURL}
	}
	result, err := p.matcher.Align(primary, secondary)
	if err != nil {
		return FeedPlan{}, err
	}
	fp.Stats.Comparisons = result.Comparisons
	fp.Stats.LockIns = result.LockIns

	for i, item := range items {
		j := result.Matches[i]
		method := MatchTitle
		score := result.Scores[i]
		if j == align.Unmatched {
			j = p.urlFallback(item, episodes)
			if j == align.Unmatched {
				logger.Debug("no match for item", logging.String(logging.FieldEpisode, item.Title))
				continue
			}
			method, score = MatchURL, 1
			fp.Stats.URLMatches++
		} else {
			fp.Stats.TitleMatches++
		}

		action, err := p.action(ctx, pair, item, episodes[j], method, score)
		if err != nil {
			return FeedPlan{}, err
		}
		logger.Debug("matched item",
			logging.String(logging.FieldEpisode, item.Title),
			logging.String("source_title", episodes[j].Title),
			logging.String("matched_by", string(method)),
			logging.Float64("score", score),
		)
		fp.Actions = append(fp.Actions, action)
	}
	return fp, nil
}

// urlFallback returns the first episode whose trimmed download URL equals the
// item's. Short URLs are ignored. An episode already matched by title may be
// returned again. Length is counted in runes.
func (p *Planner) urlFallback(item antennapod.Item, episodes []podcastaddict.Episode) int {
	if !p.cfg.Matching.URLFallback {
		return align.Unmatched
	}
	url := strings.TrimSpace(item.DownloadURL)
	if url == "" || utf8.RuneCountInString(url) < p.cfg.Matching.MinFallbackURLLength {
		return align.Unmatched
	}
	for j, e := range episodes {
		if strings.TrimSpace(e.DownloadURL) == url {
			return j
		}
	}
	return align.Unmatched
}

func (p *Planner) action(ctx context.Context, pair FeedPair, item antennapod.Item, e podcastaddict.Episode, method MatchMethod, score float64) (Action, error) {
	a := Action{
		Kind:        ActionNone,
		MatchedBy:   method,
		Score:       score,
		ItemID:      item.ID,
		ItemTitle:   item.Title,
		EpisodeID:   e.ID,
		SourceTitle: e.Title,
	}
	switch {
	case e.Seen:
		a.Kind = ActionSeen
		a.CompletedAt = e.PlaybackDate
		a.Duration = e.Duration
	case e.ResumePosition > 0:
		a.Kind = ActionProgress
		a.Position = e.ResumePosition
	}
	if p.cfg.Transfer.Favorites {
		a.Favorite = e.Favorite
	}
	if p.cfg.Transfer.Downloads && e.Downloaded() {
		a.MediaPath = MediaPath(p.cfg.Paths.EpisodesDir, pair.Source.FolderName, e.LocalFileName)
	}
	if p.cfg.Transfer.Chapters && e.ChaptersExtracted {
		chapters, err := p.source.Chapters(ctx, pair.Source.ID, e.ID)
		if err != nil {
			return Action{}, err
		}
		a.Chapters = chapters
	}
	return a, nil
}
