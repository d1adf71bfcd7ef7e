// Package cli implements the seoctl command line tool.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultTimeout = 10 * time.Second

// Execute runs seoctl and exits non-zero on failure.
func Execute(version string) {
	os.Exit(run(newRootCmd(version), os.Args[1:]))
}

// run executes cmd with args, printing any error to the command's stderr, and returns
// the process exit code.
func run(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

type globalOptions struct {
	timeout time.Duration
	json    bool
	noColor bool
}

func (o *globalOptions) httpClient() *http.Client {
	return &http.Client{Timeout: o.timeout}
}

func newRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "seoctl",
		Short:         "Inspect the SEO quality of rendered pages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "HTTP timeout for remote pages")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(
		diagnoseCmd(opts),
		scoreCmd(opts),
		checkCmd(opts),
		perfCmd(opts),
	)
	return cmd
}
