package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ChaChaChung/seo-site/internal/seo"
	"github.com/ChaChaChung/seo-site/internal/seo/audit"
	"github.com/ChaChaChung/seo-site/internal/seodata"
)

type checkResult struct {
	Source   string       `json:"source"`
	Metadata seo.Metadata `json:"metadata"`
	Issues   []seo.Issue  `json:"issues"`
}

func checkCmd(opts *globalOptions) *cobra.Command {
	var apiBase string

	cmd := &cobra.Command{
		Use:   "check [url|file]",
		Short: "Check title, description and keywords against best practices",
		Long: "check reads the metadata triple either from a rendered page or, with --api, " +
			"straight from the metadata service, and lists every best-practice issue.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd, opts)

			var (
				result checkResult
				err    error
			)
			switch {
			case apiBase != "":
				result, err = checkAPI(cmd, opts, apiBase)
			case len(args) == 1:
				result, err = checkPage(cmd, opts, args[0])
			default:
				return fmt.Errorf("check needs a page argument or --api")
			}
			if err != nil {
				return err
			}

			if opts.json {
				if err := p.json(result); err != nil {
					return err
				}
			} else {
				printIssues(p, result)
			}

			if errs, _ := seo.CountBySeverity(result.Issues); errs > 0 {
				return fmt.Errorf("%d SEO errors found", errs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiBase, "api", "", "metadata service base URL to check instead of a page")
	return cmd
}

func checkPage(cmd *cobra.Command, opts *globalOptions, target string) (checkResult, error) {
	_, doc, err := load(cmd.Context(), opts, target)
	if err != nil {
		return checkResult{}, fmt.Errorf("load %s: %w", target, err)
	}
	meta := audit.ReadMetadata(doc)
	return checkResult{Source: target, Metadata: meta, Issues: seo.Check(meta)}, nil
}

func checkAPI(cmd *cobra.Command, opts *globalOptions, base string) (checkResult, error) {
	fetcher, err := seodata.NewHTTPFetcher(base, opts.httpClient())
	if err != nil {
		return checkResult{}, err
	}
	meta, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		return checkResult{}, fmt.Errorf("fetch %s: %w", fetcher.Endpoint(), err)
	}
	return checkResult{Source: fetcher.Endpoint(), Metadata: meta, Issues: seo.Check(meta)}, nil
}

func printIssues(p *printer, result checkResult) {
	p.step("SEO check for %s", result.Source)
	p.printf("Title: %q (%d chars)\n", result.Metadata.Title, runeLen(result.Metadata.Title))
	p.printf("Description: %q (%d chars)\n", seo.Truncate(result.Metadata.Description, 50), runeLen(result.Metadata.Description))
	p.printf("Keywords: %q\n", result.Metadata.Keywords)

	if len(result.Issues) == 0 {
		p.success("SEO setup looks good")
		return
	}
	for _, issue := range result.Issues {
		if issue.Severity == seo.SeverityError {
			p.failure("%s", issue.Message)
			continue
		}
		p.warning("%s", issue.Message)
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
