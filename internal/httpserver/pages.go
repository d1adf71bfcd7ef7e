package httpserver

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ChaChaChung/seo-site/internal/content"
	"github.com/ChaChaChung/seo-site/internal/debugpanel"
	"github.com/ChaChaChung/seo-site/internal/platform/requestctx"
	"github.com/ChaChaChung/seo-site/internal/seo"
	"github.com/ChaChaChung/seo-site/internal/seo/headwatch"
	"github.com/ChaChaChung/seo-site/internal/seodata"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// pageData is the view model for the layout and page content.
type pageData struct {
	Lang        string
	SiteName    string
	Year        int
	Head        template.HTML
	Loading     bool
	FetchError  string
	Page        content.Page
	Breadcrumbs template.JS
	Panels      template.HTML
}

// site renders pages with the store's current metadata.
type site struct {
	opts    seo.Options
	store   *seodata.Store
	watcher *headwatch.Watcher
	panels  *debugpanel.Panels
	now     func() time.Time
}

func (s *site) head(state seodata.State) template.HTML {
	return seo.Render(state.Data, s.opts).HTML()
}

// render writes the home page. withPanels is false when the page is rendered for scoring.
func (s *site) render(w io.Writer, withPanels bool) error {
	page, err := content.Load("home")
	if err != nil {
		return err
	}

	state := s.store.State()
	head := s.head(state)
	if s.watcher != nil {
		s.watcher.Observe(string(head))
	}

	data := pageData{
		Lang:        s.opts.Language,
		SiteName:    s.opts.SiteName,
		Year:        s.now().Year(),
		Head:        head,
		Loading:     state.Phase == seodata.PhaseIdle || state.Loading(),
		Page:        page,
		Breadcrumbs: template.JS(page.BreadcrumbJSONLD(s.opts.URL)),
	}
	if state.Failed() {
		data.FetchError = state.Err
	}
	if withPanels && s.panels != nil {
		data.Panels = s.panels.Fragment()
	}
	return pageTemplates.ExecuteTemplate(w, "layout", data)
}

// renderBytes renders the home page without debug panels.
func (s *site) renderBytes(_ context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.render(&buf, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *site) handleHome(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.render(&buf, true); err != nil {
		requestctx.Logger(r.Context()).Error("render home", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
