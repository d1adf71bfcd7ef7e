package cli

import (
	"github.com/spf13/cobra"

	"github.com/ChaChaChung/seo-site/internal/seo/audit"
)

type timingJSON struct {
	URL         string `json:"url"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Bytes       int    `json:"bytes"`
	FirstByteMS int64  `json:"firstByteMs"`
	ResponseMS  int64  `json:"responseMs"`
	ParseMS     int64  `json:"parseMs"`
	TotalMS     int64  `json:"totalMs"`
}

func newTimingJSON(t audit.Timing) timingJSON {
	return timingJSON{
		URL:         t.URL,
		StatusCode:  t.StatusCode,
		Bytes:       t.Bytes,
		FirstByteMS: t.FirstByte.Milliseconds(),
		ResponseMS:  t.Response.Milliseconds(),
		ParseMS:     t.Parse.Milliseconds(),
		TotalMS:     t.Total.Milliseconds(),
	}
}

func perfCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "perf <url|file>",
		Short: "Measure how long a page takes to load and parse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd, opts)
			timing, _, err := load(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return p.json(newTimingJSON(timing))
			}
			return timing.WriteText(p.out)
		},
	}
}
