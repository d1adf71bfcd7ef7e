// Package sitetest starts the full site stack for integration tests.
package sitetest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ChaChaChung/seo-site/internal/httpserver"
	"github.com/ChaChaChung/seo-site/internal/seo"
	"github.com/ChaChaChung/seo-site/internal/seodata"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverOptions)

type serverOptions struct {
	cfg        httpserver.Config
	fetcher    seodata.Fetcher
	initialize bool
}

// WithFetcher overrides the metadata fetcher backing the store.
func WithFetcher(fetcher seodata.Fetcher) ServerOption {
	return func(o *serverOptions) {
		o.fetcher = fetcher
	}
}

// WithDebugPanels toggles the debug panels.
func WithDebugPanels(enabled bool) ServerOption {
	return func(o *serverOptions) {
		o.cfg.DebugPanels = enabled
	}
}

// WithSiteOptions overrides the head renderer options.
func WithSiteOptions(opts seo.Options) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Site = opts
	}
}

// WithoutInitialize leaves the store idle so tests can observe the loading state.
func WithoutInitialize() ServerOption {
	return func(o *serverOptions) {
		o.initialize = false
	}
}

// NewServer constructs an httptest server running the site HTTP stack with sensible
// defaults. The store is initialized before the server starts unless WithoutInitialize is set.
func NewServer(t testing.TB, opts ...ServerOption) (*httptest.Server, *seodata.Store) {
	t.Helper()

	o := serverOptions{
		cfg: httpserver.Config{
			Address: ":0",
			Site:    seo.DefaultOptions(),
			Now:     func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
		},
		fetcher: seodata.StaticFetcher{Data: seo.Metadata{
			Title:       "React SEO 測試頁面 - 伺服器渲染的中繼資料與結構化資料範例",
			Description: "這是一個以伺服器渲染方式注入 SEO 中繼資料的網站，包含 Open Graph、Twitter Card 與 JSON-LD 結構化資料，並提供開發用的檢查面板協助調整標題與描述長度，讓搜尋引擎與社群平台都能正確顯示頁面摘要內容與預覽圖片，同時保持良好的可讀性與一致的品牌語氣，協助團隊持續改善網站在搜尋結果中的表現。",
			Keywords:    "React, SEO, Go",
		}},
		initialize: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	store := seodata.NewStore(o.fetcher)
	o.cfg.Store = store
	if o.initialize {
		store.Initialize(context.Background())
	}

	srv, err := httpserver.New(o.cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, store
}
