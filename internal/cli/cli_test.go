package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChaChaChung/seo-site/internal/seo/audit"
	"github.com/ChaChaChung/seo-site/internal/testutil/sitetest"
)

const barePage = `<!DOCTYPE html><html><head></head><body><p>hello</p></body></html>`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writePage(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestScoreRenderedSite(t *testing.T) {
	srv, _ := sitetest.NewServer(t)

	out, err := runCLI(t, "score", srv.URL+"/")
	require.NoError(t, err)
	require.Contains(t, out, "Title length")
	require.Contains(t, out, "Language attribute")
	require.Contains(t, out, "SEO score: 100/100 (A+)")
}

func TestScoreJSONFromFile(t *testing.T) {
	out, err := runCLI(t, "--json", "score", writePage(t, barePage))
	require.NoError(t, err)

	var report audit.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 10, report.Score)
	require.Equal(t, "D", report.Grade)
	require.Len(t, report.Checks, 7)
}

func TestScoreBelowMinimumFails(t *testing.T) {
	_, err := runCLI(t, "score", "--min", "90", writePage(t, barePage))
	require.Error(t, err)
	require.Contains(t, err.Error(), "below the required 90")
}

func TestCheckPageReportsErrors(t *testing.T) {
	out, err := runCLI(t, "check", writePage(t, barePage))
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 SEO errors found")
	require.Contains(t, out, "missing page title")
	require.Contains(t, out, "missing page description")
	require.Contains(t, out, "recommend adding keywords")
}

func TestCheckAPIWarningsOnly(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/get/seo-data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Short","description":"Tiny","keywords":null}`))
	}))
	t.Cleanup(api.Close)

	out, err := runCLI(t, "check", "--api", api.URL)
	require.NoError(t, err)
	require.Contains(t, out, "title too short, recommend 30-60 characters")
	require.Contains(t, out, "description too short, recommend 120-160 characters")
	require.Contains(t, out, "recommend adding keywords")
}

func TestCheckAPIJSON(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"title":"","description":"","keywords":"a, b"}`))
	}))
	t.Cleanup(api.Close)

	out, err := runCLI(t, "--json", "check", "--api", api.URL)
	require.Error(t, err)

	var result checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, api.URL+"/api/get/seo-data", result.Source)
	require.Len(t, result.Issues, 2)
	require.Equal(t, "a, b", result.Metadata.Keywords)
}

func TestCheckNeedsTarget(t *testing.T) {
	_, err := runCLI(t, "check")
	require.Error(t, err)
}

func TestDiagnoseFile(t *testing.T) {
	out, err := runCLI(t, "diagnose", writePage(t, barePage))
	require.NoError(t, err)
	require.Contains(t, out, "Basic meta")
	require.Contains(t, out, "Add a page title")
	require.Contains(t, out, "Load time:")
}

func TestPerfJSON(t *testing.T) {
	srv, _ := sitetest.NewServer(t)

	out, err := runCLI(t, "--json", "perf", srv.URL+"/")
	require.NoError(t, err)

	var timing timingJSON
	require.NoError(t, json.Unmarshal([]byte(out), &timing))
	require.Equal(t, http.StatusOK, timing.StatusCode)
	require.Positive(t, timing.Bytes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := runCLI(t, "perf", filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
}

func TestRunPrintsCommandErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	code := run(cmd, []string{"--no-color", "score", "--min", "80", writePage(t, barePage)})
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "Error: score 10 is below the required 80")
	require.Contains(t, stdout.String(), "SEO score: 10/100 (D)")
}

func TestRunPrintsCheckErrorCount(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	code := run(cmd, []string{"--no-color", "check", writePage(t, barePage)})
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "Error: 2 SEO errors found")
}

func TestRunSucceeds(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	require.Equal(t, 0, run(cmd, []string{"--no-color", "perf", writePage(t, barePage)}))
	require.Empty(t, stderr.String())
	require.Contains(t, stdout.String(), "Load time:")
}
