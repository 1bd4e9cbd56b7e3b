package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"podalign/internal/migrate"
)

func newFeedsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "feeds",
		Short: "Show how subscriptions pair up by feed URL",
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
			pairing, err := planner.Pairing(runCtx)
			if err != nil {
				return fmt.Errorf("pair feeds: %w", err)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(pairing.Pairs)+len(pairing.Unmatched))
			for _, p := range pairing.Pairs {
				rows = append(rows, []string{truncate(p.Source.DisplayName(), 40), truncate(p.Target.Title, 40), p.Target.URL})
			}
			for _, f := range pairing.Unmatched {
				rows = append(rows, []string{truncate(f.DisplayName(), 40), "-", f.URL})
			}
			fmt.Fprintln(out, renderTable(tableView{
				title:   "Subscriptions",
				headers: []string{"Podcast Addict", "AntennaPod", "URL"},
				rows:    rows,
			}))
			fmt.Fprintf(out, "Paired: %d  Unpaired: %d\n", len(pairing.Pairs), len(pairing.Unmatched))
			if len(pairing.Suggestions) > 0 {
				fmt.Fprintln(out, renderSuggestions(pairing.Suggestions))
			}
			return nil
		},
	}
}
