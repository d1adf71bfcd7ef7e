package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ChaChaChung/seo-site/internal/httpserver"
	"github.com/ChaChaChung/seo-site/internal/platform/config"
	"github.com/ChaChaChung/seo-site/internal/platform/observability"
	"github.com/ChaChaChung/seo-site/internal/platform/requestctx"
	"github.com/ChaChaChung/seo-site/internal/seo"
	"github.com/ChaChaChung/seo-site/internal/seo/headwatch"
	"github.com/ChaChaChung/seo-site/internal/seodata"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "web: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")
	ctx = requestctx.WithLogger(ctx, logger)

	store, err := newStore(cfg, baseLogger.Named("seodata"))
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:      ":" + cfg.Server.Port,
		Site:         siteOptions(cfg),
		Store:        store,
		Watcher:      headwatch.New(),
		DebugPanels:  cfg.Debug.Panels,
		Logger:       logger,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})
	if err != nil {
		return err
	}

	// The page shows a loading overlay until the first fetch completes.
	fetchCtx, cancelFetch := context.WithCancel(ctx)
	defer cancelFetch()
	go store.Initialize(fetchCtx)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	serverLogger := logger.Named("http").With(zap.String("addr", srv.Addr))
	go func() {
		serverLogger.Info("site listening",
			zap.String("environment", cfg.Server.Environment),
			zap.Bool("debug_panels", cfg.Debug.Panels),
			zap.String("seo_api", cfg.SEOAPI.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-shutdown:
		logger.Info("shutdown signal received; draining requests")
	}

	cancelFetch()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func newStore(cfg config.Config, logger *zap.Logger) (*seodata.Store, error) {
	fetcher, err := seodata.NewHTTPFetcher(cfg.SEOAPI.BaseURL, &http.Client{Timeout: cfg.SEOAPI.Timeout})
	if err != nil {
		return nil, fmt.Errorf("seo data fetcher: %w", err)
	}
	return seodata.NewStore(fetcher, seodata.WithLogger(logger)), nil
}

func siteOptions(cfg config.Config) seo.Options {
	return seo.Options{
		Image:       cfg.Site.Image,
		URL:         cfg.Site.BaseURL,
		SiteName:    cfg.Site.Name,
		Author:      cfg.Site.Author,
		TwitterCard: cfg.Site.TwitterCard,
		Language:    cfg.Site.Language,
	}
}
