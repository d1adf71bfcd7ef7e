// Package seodata fetches the site's SEO metadata once per process and holds it
// behind a small state machine.
package seodata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ChaChaChung/seo-site/internal/seo"
)

const (
	seoDataPath     = "/api/get/seo-data"
	defaultTimeout  = 10 * time.Second
	maxResponseBody = 1 << 20
)

// ErrMalformedResponse is returned when the metadata service replies with a body that is
// not a JSON object.
var ErrMalformedResponse = errors.New("seodata: malformed response")

// StatusError reports a non-2xx reply from the metadata service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("seodata: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("seodata: unexpected status %d: %s", e.Code, e.Body)
}

// Fetcher retrieves the metadata triple.
type Fetcher interface {
	Fetch(ctx context.Context) (seo.Metadata, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (seo.Metadata, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) (seo.Metadata, error) {
	return f(ctx)
}

// HTTPClient captures the subset of http.Client used by HTTPFetcher.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPFetcher reads metadata from GET {base}/api/get/seo-data.
type HTTPFetcher struct {
	endpoint string
	client   HTTPClient
}

// NewHTTPFetcher builds a fetcher for the metadata service at baseURL. A nil client
// defaults to an http.Client with a 10 second timeout.
func NewHTTPFetcher(baseURL string, client HTTPClient) (*HTTPFetcher, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("seodata: base url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("seodata: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("seodata: base url must be absolute: %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPFetcher{endpoint: base + seoDataPath, client: client}, nil
}

// Endpoint returns the absolute URL the fetcher requests.
func (f *HTTPFetcher) Endpoint() string {
	return f.endpoint
}

// Fetch requests the triple. Absent or null fields decode as empty strings; fields of any
// other non-string type fail with ErrMalformedResponse.
func (f *HTTPFetcher) Fetch(ctx context.Context) (seo.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return seo.Metadata{}, fmt.Errorf("seodata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return seo.Metadata{}, fmt.Errorf("seodata: request %s: %w", f.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return seo.Metadata{}, &StatusError{Code: resp.StatusCode, Body: drainError(resp.Body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return seo.Metadata{}, fmt.Errorf("seodata: read response: %w", err)
	}
	return decodeMetadata(body)
}

func decodeMetadata(body []byte) (seo.Metadata, error) {
	if !gjson.ValidBytes(body) {
		return seo.Metadata{}, ErrMalformedResponse
	}
	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return seo.Metadata{}, ErrMalformedResponse
	}

	var meta seo.Metadata
	for key, dst := range map[string]*string{
		"title":       &meta.Title,
		"description": &meta.Description,
		"keywords":    &meta.Keywords,
	} {
		value, ok := stringField(result, key)
		if !ok {
			return seo.Metadata{}, fmt.Errorf("%w: %s is not a string", ErrMalformedResponse, key)
		}
		*dst = value
	}
	return meta, nil
}

// stringField reads key as a string. Absent and null fields are empty; any other
// non-string type reports false.
func stringField(result gjson.Result, key string) (string, bool) {
	v := result.Get(key)
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return "", true
	case v.Type == gjson.String:
		return v.Str, true
	default:
		return "", false
	}
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}

// StaticFetcher serves a fixed triple or error. Used offline and in tests.
type StaticFetcher struct {
	Data seo.Metadata
	Err  error
}

// Fetch returns the configured result unless ctx is already done.
func (s StaticFetcher) Fetch(ctx context.Context) (seo.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return seo.Metadata{}, err
	}
	if s.Err != nil {
		return seo.Metadata{}, s.Err
	}
	return s.Data, nil
}
