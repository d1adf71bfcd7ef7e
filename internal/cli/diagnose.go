package cli

import (
	"github.com/spf13/cobra"

	"github.com/ChaChaChung/seo-site/internal/seo/audit"
)

func diagnoseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <url|file>",
		Short: "Print a grouped report of every SEO tag on a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd, opts)
			timing, doc, err := load(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			diag := audit.Diagnose(doc)
			if opts.json {
				return p.json(struct {
					audit.Diagnostics
					Performance timingJSON `json:"performance"`
				}{diag, newTimingJSON(timing)})
			}

			p.step("SEO diagnostics for %s", args[0])
			if err := diag.WriteText(p.out); err != nil {
				return err
			}
			p.printf("\n")
			return timing.WriteText(p.out)
		},
	}
}
