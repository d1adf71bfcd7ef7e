package debugpanel

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ChaChaChung/seo-site/internal/platform/httpx"
	"github.com/ChaChaChung/seo-site/internal/platform/requestctx"
	"github.com/ChaChaChung/seo-site/internal/seo/audit"
)

var errNoPageSource = errors.New("debugpanel: no page source configured")

func (p *Panels) handleChecker(w http.ResponseWriter, r *http.Request) {
	p.renderFragment(w, r, "checker", p.checkerView())
}

func (p *Panels) handleRefetch(w http.ResponseWriter, r *http.Request) {
	logger := requestctx.Logger(r.Context())
	if p.store != nil {
		// The fetch is not cancelled with the request.
		started := p.store.Refetch(context.WithoutCancel(r.Context()))
		logger.Info("seo data refetch requested", zap.Bool("started", started))
	}
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	p.renderFragment(w, r, "checker", p.checkerView())
}

func (p *Panels) handleScore(w http.ResponseWriter, r *http.Request) {
	report, err := p.cachedReport(r.Context(), false)
	if err != nil {
		p.writeRenderError(w, r, err)
		return
	}
	p.renderFragment(w, r, "score", scoreView{Report: report, ScoreClass: ScoreClass(report.Score)})
}

func (p *Panels) handleScoreRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := p.cachedReport(r.Context(), true)
	if err != nil {
		p.writeRenderError(w, r, err)
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, BasePath+"/score", http.StatusSeeOther)
		return
	}
	p.renderFragment(w, r, "score", scoreView{Report: report, ScoreClass: ScoreClass(report.Score)})
}

func (p *Panels) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	doc, err := p.renderDocument(r.Context())
	if err != nil {
		p.writeRenderError(w, r, err)
		return
	}
	diagnostics := audit.Diagnose(doc)
	if r.URL.Query().Get("format") == "json" {
		httpx.WriteJSON(w, http.StatusOK, diagnostics)
		return
	}
	var buf bytes.Buffer
	if err := diagnostics.WriteText(&buf); err != nil {
		p.writeRenderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (p *Panels) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if p.page == nil {
		p.writeRenderError(w, r, errNoPageSource)
		return
	}
	timing, _, err := audit.Measure(r.Context(), "/", p.page)
	if err != nil {
		p.writeRenderError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		httpx.WriteJSON(w, http.StatusOK, timing)
		return
	}
	var buf bytes.Buffer
	_ = timing.WriteText(&buf)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type scoreView struct {
	Report     audit.Report
	ScoreClass string
}

// cachedReport returns the score computed on first view. refresh forces a recompute
// from a fresh render.
func (p *Panels) cachedReport(ctx context.Context, refresh bool) (audit.Report, error) {
	p.mu.Lock()
	cached := p.report
	p.mu.Unlock()
	if cached != nil && !refresh {
		return *cached, nil
	}

	doc, err := p.renderDocument(ctx)
	if err != nil {
		return audit.Report{}, err
	}
	report := audit.Score(doc)

	p.mu.Lock()
	p.report = &report
	p.mu.Unlock()
	return report, nil
}

func (p *Panels) renderDocument(ctx context.Context) (*goquery.Document, error) {
	if p.page == nil {
		return nil, errNoPageSource
	}
	body, err := p.page(ctx)
	if err != nil {
		return nil, err
	}
	return audit.ParseBytes(body)
}

func (p *Panels) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.writeRenderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (p *Panels) writeRenderError(w http.ResponseWriter, r *http.Request, err error) {
	requestctx.Logger(r.Context()).Error("debug panel render failed", zap.Error(err))
	httpx.WriteError(r.Context(), w, httpx.NewError("debug_panel_failed", err.Error(), http.StatusInternalServerError))
}
