package audit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Timing captures how long one page took to load.
type Timing struct {
	URL        string        `json:"url"`
	StatusCode int           `json:"statusCode,omitempty"`
	Bytes      int           `json:"bytes"`
	FirstByte  time.Duration `json:"firstByte"`
	Response   time.Duration `json:"response"`
	Parse      time.Duration `json:"parse"`
	Total      time.Duration `json:"total"`
}

// Probe fetches url, records request phase timings and parses the body.
// Non-2xx responses are returned as errors together with the partial timing.
func Probe(ctx context.Context, client HTTPClient, url string) (Timing, *goquery.Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	timing := Timing{URL: url}

	var firstByte time.Time
	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() { firstByte = time.Now() },
	}
	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodGet, url, nil)
	if err != nil {
		return timing, nil, fmt.Errorf("audit: build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return timing, nil, fmt.Errorf("audit: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	timing.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return timing, nil, fmt.Errorf("audit: read %s: %w", url, err)
	}
	responseEnd := time.Now()
	if firstByte.IsZero() {
		firstByte = responseEnd
	}
	timing.Bytes = len(body)
	timing.FirstByte = firstByte.Sub(start)
	timing.Response = responseEnd.Sub(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		timing.Total = responseEnd.Sub(start)
		return timing, nil, fmt.Errorf("audit: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := ParseHTML(bytes.NewReader(body))
	timing.Parse = time.Since(responseEnd)
	timing.Total = time.Since(start)
	if err != nil {
		return timing, nil, err
	}
	return timing, doc, nil
}

// Measure times an in-process render followed by a parse of its output.
func Measure(ctx context.Context, label string, render func(context.Context) ([]byte, error)) (Timing, *goquery.Document, error) {
	timing := Timing{URL: label}

	start := time.Now()
	body, err := render(ctx)
	rendered := time.Now()
	timing.Response = rendered.Sub(start)
	timing.FirstByte = timing.Response
	if err != nil {
		timing.Total = timing.Response
		return timing, nil, err
	}
	timing.Bytes = len(body)

	doc, err := ParseHTML(bytes.NewReader(body))
	timing.Parse = time.Since(rendered)
	timing.Total = time.Since(start)
	if err != nil {
		return timing, nil, err
	}
	return timing, doc, nil
}

// WriteText prints the timings in milliseconds.
func (t Timing) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Page performance for %s\nLoad time: %dms\nDOM parse time: %dms\nFirst render time: %dms\nTime to first byte: %dms\nSize: %d bytes\n",
		t.URL,
		t.Total.Milliseconds(),
		t.Parse.Milliseconds(),
		t.Response.Milliseconds(),
		t.FirstByte.Milliseconds(),
		t.Bytes,
	)
	return err
}
