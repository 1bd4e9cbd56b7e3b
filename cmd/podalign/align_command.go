package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podalign/internal/align"
)

type alignedLine struct {
	Line      int     `json:"line"`
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary,omitempty"`
	Score     float64 `json:"score,omitempty"`
}

type alignOutput struct {
	Matched     int           `json:"matched"`
	Comparisons int           `json:"comparisons"`
	LockIns     int           `json:"lock_ins"`
	Lines       []alignedLine `json:"lines"`
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var primaryPath, secondaryPath string
	var minimum, lockIn float64
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align two newline separated title lists",
		Long: "Align pairs every line of --primary with at most one line of --secondary.\n" +
			"Primary lines are visited in order and claim their best candidate greedily.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if primaryPath == "" || secondaryPath == "" {
				return errors.New("both --primary and --secondary are required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min") {
				minimum = cfg.Matching.MinimumSimilarity
			}
			if !cmd.Flags().Changed("lock-in") {
				lockIn = cfg.Matching.LockInThreshold
			}

			primary, err := readLines(primaryPath)
			if err != nil {
				return err
			}
			secondary, err := readLines(secondaryPath)
			if err != nil {
				return err
			}

			matcher, err := align.New([]align.Comparator[string]{
				align.StringField("title", 1, func(s string) (string, bool) { return s, s != "" }),
			}, align.WithMinimumSimilarity(minimum), align.WithLockInThreshold(lockIn))
			if err != nil {
				return err
			}
			result, err := matcher.Align(primary, secondary)
			if err != nil {
				return err
			}

			output := alignOutput{
				Matched:     result.MatchedCount(),
				Comparisons: result.Comparisons,
				LockIns:     result.LockIns,
				Lines:       make([]alignedLine, len(primary)),
			}
			for i, title := range primary {
				line := alignedLine{Line: i + 1, Primary: title}
				if j := result.Matches[i]; j != align.Unmatched {
					line.Secondary = secondary[j]
					line.Score = result.Scores[i]
				}
				output.Lines[i] = line
			}
			if jsonOutput {
				return writeJSON(cmd, output)
			}

			rows := make([][]string, 0, len(output.Lines))
			for _, l := range output.Lines {
				match, score := "-", "-"
				if l.Secondary != "" {
					match, score = truncate(l.Secondary, 50), formatScore(l.Score)
				}
				rows = append(rows, []string{strconv.Itoa(l.Line), truncate(l.Primary, 50), match, score})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(tableView{
				headers: []string{"#", "Primary", "Secondary", "Score"},
				aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
				rows:    rows,
			}))
			fmt.Fprintf(out, "Matched %d of %d (comparisons: %d, lock-ins: %d)\n",
				output.Matched, len(primary), output.Comparisons, output.LockIns)
			return nil
		},
	}
	cmd.Flags().StringVar(&primaryPath, "primary", "", "File with one primary title per line")
	cmd.Flags().StringVar(&secondaryPath, "secondary", "", "File with one secondary title per line")
	cmd.Flags().Float64Var(&minimum, "min", align.DefaultMinimumSimilarity, "Minimum similarity for a match")
	cmd.Flags().Float64Var(&lockIn, "lock-in", align.DefaultLockInThreshold, "Similarity at which the first candidate is taken")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the alignment as JSON")
	return cmd
}
