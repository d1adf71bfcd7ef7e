package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ChaChaChung/seo-site/internal/seo/audit"
)

func isRemote(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// load fetches a URL or reads a local HTML file and returns its timing and parsed document.
func load(ctx context.Context, opts *globalOptions, target string) (audit.Timing, *goquery.Document, error) {
	if isRemote(target) {
		return audit.Probe(ctx, opts.httpClient(), target)
	}
	return audit.Measure(ctx, target, func(context.Context) ([]byte, error) {
		body, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", target, err)
		}
		return body, nil
	})
}
