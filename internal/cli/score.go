package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChaChaChung/seo-site/internal/seo/audit"
)

func scoreCmd(opts *globalOptions) *cobra.Command {
	var minScore int

	cmd := &cobra.Command{
		Use:   "score <url|file>",
		Short: "Score a page against the weighted SEO checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd, opts)
			_, doc, err := load(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			report := audit.Score(doc)
			if opts.json {
				if err := p.json(report); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(report.Checks))
				for _, c := range report.Checks {
					mark := "✗"
					if c.Passed {
						mark = "✓"
					}
					rows = append(rows, []string{c.Item, mark, fmt.Sprintf("%d", c.Points)})
				}
				if err := p.table([]any{"Check", "Passed", "Points"}, rows); err != nil {
					return err
				}
				p.byScore(report.Score).Fprintf(p.out, "SEO score: %d/%d (%s)\n", report.Score, report.MaxScore, report.Grade)
			}

			if minScore > 0 && report.Score < minScore {
				return fmt.Errorf("score %d is below the required %d", report.Score, minScore)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minScore, "min", 0, "fail when the score is below this value")
	return cmd
}
