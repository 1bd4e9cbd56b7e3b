package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podalign/internal/logging"
	"podalign/internal/migrate"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var showActions bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan how listening history would transfer to AntennaPod",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			runCtx := runContext(cmd)

			srcs, err := ctx.openSources(runCtx, logger)
			if err != nil {
				return err
			}
			defer srcs.Close()

			planner, err := migrate.NewPlanner(srcs.source, srcs.target, cfg, logger)
			if err != nil {
				return err
			}
			plan, err := planner.Plan(runCtx)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}
			logging.WithContext(runCtx, logger).Debug("plan rendered", logging.Int("feeds", len(plan.Feeds)))

			if jsonOutput {
				return writeJSON(cmd, plan)
			}
			printPlan(cmd, plan, showActions)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the plan as JSON")
	cmd.Flags().BoolVar(&showActions, "actions", false, "List every planned action per feed")
	return cmd
}

func printPlan(cmd *cobra.Command, plan *migrate.Plan, showActions bool) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(plan.Feeds))
	for _, fp := range plan.Feeds {
		var seen, progress int
		for _, a := range fp.Actions {
			switch a.Kind {
			case migrate.ActionSeen:
				seen++
			case migrate.ActionProgress:
				progress++
			}
		}
		rows = append(rows, []string{
			truncate(fp.Title, 40),
			strconv.Itoa(fp.Stats.Items),
			strconv.Itoa(fp.Stats.Episodes),
			strconv.Itoa(fp.Stats.TitleMatches),
			strconv.Itoa(fp.Stats.URLMatches),
			strconv.Itoa(seen),
			strconv.Itoa(progress),
			formatDuration(fp.Stats.Estimate),
			refreshChange(fp),
		})
	}
	s := plan.Summary
	fmt.Fprintln(out, renderTable(tableView{
		title:   "Feeds",
		headers: []string{"Feed", "Unread", "History", "Title", "URL", "Seen", "Progress", "Estimate", "Refresh"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
		rows:    rows,
		footer: []string{
			"Total", "", "",
			strconv.Itoa(s.TitleMatches), strconv.Itoa(s.URLMatches),
			strconv.Itoa(s.Seen), strconv.Itoa(s.Progress), "",
			strconv.Itoa(s.KeepUpdated),
		},
	}))

	if showActions {
		for _, fp := range plan.Feeds {
			if len(fp.Actions) == 0 {
				continue
			}
			fmt.Fprintln(out, renderActions(fp))
		}
	}

	fmt.Fprintf(out, "Favorites: %d  Downloads: %d  Chapters: %d\n", s.Favorites, s.Downloads, s.Chapters)
	if len(plan.UnmatchedFeeds) > 0 {
		fmt.Fprintf(out, "Feeds without an AntennaPod subscription (%d):\n", len(plan.UnmatchedFeeds))
		for _, name := range plan.UnmatchedFeeds {
			fmt.Fprintf(out, "  - %s\n", name)
		}
	}
	if len(plan.Suggestions) > 0 {
		fmt.Fprintln(out, renderSuggestions(plan.Suggestions))
	}
}

// refreshChange describes the automatic refresh update for the target feed.
func refreshChange(fp migrate.FeedPlan) string {
	if !fp.KeepUpdatedChanged {
		return "-"
	}
	if fp.KeepUpdated {
		return "turn on"
	}
	return "turn off"
}

func renderActions(fp migrate.FeedPlan) string {
	rows := make([][]string, 0, len(fp.Actions))
	for _, a := range fp.Actions {
		state := string(a.Kind)
		if a.Kind == migrate.ActionProgress {
			state = fmt.Sprintf("progress %s", formatDuration(a.Position))
		}
		rows = append(rows, []string{
			truncate(a.ItemTitle, 45),
			truncate(a.SourceTitle, 45),
			string(a.MatchedBy),
			formatScore(a.Score),
			state,
			yesNo(a.Favorite),
			yesNo(a.MediaPath != ""),
			strconv.Itoa(len(a.Chapters)),
		})
	}
	return renderTable(tableView{
		title:   fp.Title,
		headers: []string{"AntennaPod", "Podcast Addict", "By", "Score", "State", "Fav", "Download", "Chapters"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		rows:    rows,
	})
}

func renderSuggestions(suggestions []migrate.Suggestion) string {
	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []string{
			truncate(s.Source.DisplayName(), 40),
			truncate(s.Target.Title, 40),
			formatScore(s.Score),
			s.Target.URL,
		})
	}
	return renderTable(tableView{
		title:   "Possible counterparts (not applied)",
		headers: []string{"Podcast Addict", "AntennaPod", "Score", "AntennaPod URL"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		rows:    rows,
	})
}
