package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ChaChaChung/seo-site/internal/debugpanel"
	custommw "github.com/ChaChaChung/seo-site/internal/middleware"
	"github.com/ChaChaChung/seo-site/internal/platform/httpx"
	"github.com/ChaChaChung/seo-site/internal/platform/observability"
	"github.com/ChaChaChung/seo-site/internal/seo"
	"github.com/ChaChaChung/seo-site/internal/seo/headwatch"
	"github.com/ChaChaChung/seo-site/internal/seodata"
	"github.com/ChaChaChung/seo-site/public"
)

const requestTimeout = 30 * time.Second

// Config holds runtime options for the site HTTP server.
type Config struct {
	Address      string
	Site         seo.Options
	Store        *seodata.Store
	Watcher      *headwatch.Watcher
	DebugPanels  bool
	Logger       *zap.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Now          func() time.Time
}

// New constructs the HTTP server with middleware stack, embedded assets and, when
// enabled, the debug panels.
func New(cfg Config) (*http.Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("httpserver: store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher := cfg.Watcher
	if watcher == nil {
		watcher = headwatch.New()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &site{opts: cfg.Site.WithDefaults(), store: cfg.Store, watcher: watcher, now: now}

	// Every store transition re-renders the head so the checker panel sees the change.
	watcher.Observe(string(s.head(cfg.Store.State())))
	cfg.Store.Subscribe(func(state seodata.State) {
		watcher.Observe(string(s.head(state)))
	})

	s.panels = debugpanel.New(debugpanel.Config{Enabled: cfg.DebugPanels}, debugpanel.Deps{
		Store:   cfg.Store,
		Watcher: watcher,
		Page:    s.renderBytes,
		Logger:  logger.Named("debugpanel"),
	})

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(observability.RequestLoggerMiddleware())
	router.Use(observability.RecoveryMiddleware(logger))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(requestTimeout))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(r.Context(), w, httpx.NewError("not_found", fmt.Sprintf("no route for %s", r.URL.Path), http.StatusNotFound))
	})

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("httpserver: embed static: %w", err)
	}
	router.Handle("/static/*", http.StripPrefix("/static", custommw.AssetsWithCache(staticContent)))

	router.Get("/healthz", healthz(cfg.Store))
	router.Get("/", s.handleHome)
	s.panels.Mount(router)

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       durationOr(cfg.IdleTimeout, 120*time.Second),
	}, nil
}

var startTime = time.Now()

func healthz(store *seodata.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := store.State()
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"seoData":   state.Status(),
			"uptime":    time.Since(startTime).String(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
