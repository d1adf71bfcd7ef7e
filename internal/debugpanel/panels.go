// Package debugpanel serves the development-only SEO checker and score panels.
package debugpanel

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	custommw "github.com/ChaChaChung/seo-site/internal/middleware"
	"github.com/ChaChaChung/seo-site/internal/seo"
	"github.com/ChaChaChung/seo-site/internal/seo/audit"
	"github.com/ChaChaChung/seo-site/internal/seo/headwatch"
	"github.com/ChaChaChung/seo-site/internal/seodata"
)

// BasePath is where the panel routes are mounted.
const BasePath = "/debug/seo"

const previewLength = 50

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// Config toggles the panels. Disabled panels register no routes and render nothing.
type Config struct {
	Enabled bool
}

// Store is the subset of *seodata.Store the panels read and drive.
type Store interface {
	State() seodata.State
	Refetch(ctx context.Context) bool
}

// PageSource renders the current page without panels.
type PageSource func(ctx context.Context) ([]byte, error)

// Deps wires the panels to the rest of the site.
type Deps struct {
	Store   Store
	Watcher *headwatch.Watcher
	Page    PageSource
	Logger  *zap.Logger
}

// Panels holds the checker and score panel state.
type Panels struct {
	enabled bool
	store   Store
	page    PageSource
	logger  *zap.Logger
	cancel  func()

	mu     sync.Mutex
	meta   seo.Metadata
	issues []seo.Issue
	report *audit.Report
}

// New builds the panels. When enabled it subscribes to head changes so the checker
// recomputes its issues whenever the rendered head changes.
func New(cfg Config, deps Deps) *Panels {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Panels{
		enabled: cfg.Enabled,
		store:   deps.Store,
		page:    deps.Page,
		logger:  logger,
		cancel:  func() {},
	}
	if !p.enabled {
		return p
	}

	p.issues = seo.Check(p.meta)
	if deps.Watcher != nil {
		if head, ok := deps.Watcher.Last(); ok {
			p.observe(head)
		}
		p.cancel = deps.Watcher.Subscribe(p.observe)
	}
	return p
}

// Enabled reports whether the panels are active.
func (p *Panels) Enabled() bool {
	return p != nil && p.enabled
}

// Close stops listening for head changes.
func (p *Panels) Close() {
	if p != nil {
		p.cancel()
	}
}

func (p *Panels) observe(head string) {
	doc, err := audit.ParseBytes([]byte("<html><head>" + head + "</head><body></body></html>"))
	if err != nil {
		p.logger.Warn("debug panel: parse head", zap.Error(err))
		return
	}
	meta := audit.ReadMetadata(doc)
	issues := seo.Check(meta)

	p.mu.Lock()
	p.meta = meta
	p.issues = issues
	p.mu.Unlock()
}

// Mount registers the panel routes under BasePath. It is a no-op when disabled.
func (p *Panels) Mount(r chi.Router) {
	if !p.Enabled() {
		return
	}
	r.Route(BasePath, func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.NoStore())

		r.Get("/checker", p.handleChecker)
		r.Post("/refetch", p.handleRefetch)
		r.Get("/score", p.handleScore)
		r.Post("/score/refresh", p.handleScoreRefresh)
		r.Get("/diagnostics", p.handleDiagnostics)
		r.Get("/performance", p.handlePerformance)
	})
}

// Fragment renders the panels for inclusion in a page. The score panel loads lazily
// so rendering a page never scores itself.
func (p *Panels) Fragment() template.HTML {
	if !p.Enabled() {
		return ""
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "fragment", map[string]any{"Checker": p.checkerView()}); err != nil {
		p.logger.Error("debug panel: render fragment", zap.Error(err))
		return ""
	}
	return template.HTML(buf.String())
}

type checkerView struct {
	Meta               seo.Metadata
	TitleLength        int
	DescriptionPreview string
	Issues             []seo.Issue
	BadgeClass         string
	BadgeLabel         string
	Status             string
	StatusClass        string
	Err                string
}

func (p *Panels) checkerView() checkerView {
	p.mu.Lock()
	meta := p.meta
	issues := append([]seo.Issue(nil), p.issues...)
	p.mu.Unlock()

	errs, warnings := seo.CountBySeverity(issues)
	view := checkerView{
		Meta:               meta,
		TitleLength:        utf8.RuneCountInString(meta.Title),
		DescriptionPreview: preview(meta.Description, previewLength),
		Issues:             issues,
		BadgeClass:         BadgeClass(errs, warnings),
		BadgeLabel:         badgeLabel(errs, warnings),
	}
	if p.store != nil {
		state := p.store.State()
		view.Status = state.Status()
		view.Err = state.Err
	}
	switch view.Status {
	case "error":
		view.StatusClass = "seo-bad"
	case "loading":
		view.StatusClass = "seo-warn"
	default:
		view.StatusClass = "seo-ok"
	}
	return view
}

// BadgeClass colours the checker badge: red on errors, amber on warnings, else green.
func BadgeClass(errs, warnings int) string {
	switch {
	case errs > 0:
		return "seo-bg-bad"
	case warnings > 0:
		return "seo-bg-warn"
	default:
		return "seo-bg-ok"
	}
}

// ScoreClass colours a score: green from 90, amber from 70, else red.
func ScoreClass(score int) string {
	switch {
	case score >= 90:
		return "seo-ok"
	case score >= 70:
		return "seo-warn"
	default:
		return "seo-bad"
	}
}

func badgeLabel(errs, warnings int) string {
	switch {
	case errs > 0:
		return "❌ " + strconv.Itoa(errs)
	case warnings > 0:
		return "⚠️ " + strconv.Itoa(warnings)
	default:
		return "✅"
	}
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func isHTMX(r *http.Request) bool {
	return custommw.IsHTMXRequest(r.Context())
}
