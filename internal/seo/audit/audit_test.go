package audit

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChaChaChung/seo-site/internal/seo"
)

func renderPage(t *testing.T, meta seo.Metadata, lang, body string) []byte {
	t.Helper()
	head := seo.Render(meta, seo.Options{URL: "https://example.com/"})
	var buf bytes.Buffer
	buf.WriteString(`<!doctype html><html`)
	if lang != "" {
		buf.WriteString(` lang="` + lang + `"`)
	}
	buf.WriteString(`><head>`)
	buf.WriteString(string(head.HTML()))
	buf.WriteString(`</head><body>` + body + `</body></html>`)
	return buf.Bytes()
}

func wellFormedMetadata() seo.Metadata {
	return seo.Metadata{
		Title:       strings.Repeat("t", 40),
		Description: strings.Repeat("d", 140),
		Keywords:    "go, seo",
	}
}

func TestScoreRenderedPageIsPerfect(t *testing.T) {
	t.Parallel()

	page := renderPage(t, wellFormedMetadata(), "zh-TW", `<img src="/a.png" alt="A">`)
	report, err := ScoreHTML(page)
	require.NoError(t, err)

	require.Equal(t, 100, report.Score)
	require.Equal(t, MaxScore, report.MaxScore)
	require.Equal(t, "A+", report.Grade)
	require.Len(t, report.Checks, 7)
	for _, c := range report.Checks {
		require.True(t, c.Passed, c.Item)
	}
}

func TestScoreRenderedLengthBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		title     int
		desc      int
		wantScore int
		wantGrade string
	}{
		{name: "minimum lengths", title: 30, desc: 120, wantScore: 100, wantGrade: "A+"},
		{name: "maximum lengths", title: 60, desc: 160, wantScore: 100, wantGrade: "A+"},
		{name: "title one short", title: 29, desc: 120, wantScore: 80, wantGrade: "A"},
		{name: "description one short", title: 30, desc: 119, wantScore: 80, wantGrade: "A"},
		{name: "both short", title: 29, desc: 119, wantScore: 60, wantGrade: "C"},
		// The renderer truncates overlong values back into range.
		{name: "title one over", title: 61, desc: 120, wantScore: 100, wantGrade: "A+"},
		{name: "description one over", title: 30, desc: 161, wantScore: 100, wantGrade: "A+"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			meta := seo.Metadata{
				Title:       strings.Repeat("a", tc.title),
				Description: strings.Repeat("b", tc.desc),
				Keywords:    "x",
			}
			report, err := ScoreHTML(renderPage(t, meta, "zh-TW", ""))
			require.NoError(t, err)
			require.Equal(t, tc.wantScore, report.Score)
			require.Equal(t, tc.wantGrade, report.Grade)
		})
	}
}

func TestScoreRawLengthBoundaries(t *testing.T) {
	t.Parallel()

	page := func(title, desc string) []byte {
		return []byte(`<!doctype html><html lang="en"><head><title>` + title + `</title>` +
			`<meta name="description" content="` + desc + `">` +
			`<meta property="og:image" content="https://example.com/a.png">` +
			`<link rel="canonical" href="https://example.com/">` +
			`<script type="application/ld+json">{}</script></head><body></body></html>`)
	}

	tests := []struct {
		name      string
		title     int
		desc      int
		wantScore int
	}{
		{name: "inclusive minimum", title: 30, desc: 120, wantScore: 100},
		{name: "inclusive maximum", title: 60, desc: 160, wantScore: 100},
		{name: "title 61", title: 61, desc: 160, wantScore: 80},
		{name: "description 161", title: 60, desc: 161, wantScore: 80},
		{name: "both under", title: 29, desc: 119, wantScore: 60},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			report, err := ScoreHTML(page(strings.Repeat("標", tc.title), strings.Repeat("字", tc.desc)))
			require.NoError(t, err)
			require.Equal(t, tc.wantScore, report.Score)
		})
	}
}

func TestScoreEmptyDocument(t *testing.T) {
	t.Parallel()

	report, err := ScoreHTML([]byte(`<html><head></head><body></body></html>`))
	require.NoError(t, err)

	// Only the image check passes: no images means nothing lacks alt text.
	require.Equal(t, 10, report.Score)
	require.Equal(t, "D", report.Grade)

	items := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		items = append(items, c.Item)
	}
	require.Equal(t, []string{
		"Title length",
		"Description length",
		"Open Graph image",
		"Canonical URL",
		"Structured data",
		"Image alt attributes",
		"Language attribute",
	}, items)
	require.True(t, report.Checks[5].Passed)
	require.Equal(t, 10, report.Checks[5].Points)
}

func TestScoreFailsImagesWithoutAlt(t *testing.T) {
	t.Parallel()

	page := renderPage(t, wellFormedMetadata(), "en", `<img src="/a.png" alt="A"><img src="/b.png"><img src="/c.png" alt="">`)
	report, err := ScoreHTML(page)
	require.NoError(t, err)
	require.Equal(t, 90, report.Score)
	require.Equal(t, "A+", report.Grade)
	require.False(t, report.Checks[5].Passed)
	require.Zero(t, report.Checks[5].Points)
}

func TestScoreWithFallbackDescriptionMissesLengthCheck(t *testing.T) {
	t.Parallel()

	page := renderPage(t, seo.Metadata{}, "zh-TW", "")
	report, err := ScoreHTML(page)
	require.NoError(t, err)
	require.Equal(t, 80, report.Score)
	require.Equal(t, "A", report.Grade)
	require.False(t, report.Checks[1].Passed)
}

func TestScoreNilDocument(t *testing.T) {
	t.Parallel()

	report := Score(nil)
	require.Zero(t, report.Score)
	require.Equal(t, "D", report.Grade)
}

func TestGrade(t *testing.T) {
	t.Parallel()

	cases := map[int]string{100: "A+", 90: "A+", 89: "A", 80: "A", 79: "B", 70: "B", 69: "C", 60: "C", 59: "D", 0: "D"}
	for score, want := range cases {
		require.Equal(t, want, Grade(score), "score %d", score)
	}
}

func TestReadMetadata(t *testing.T) {
	t.Parallel()

	meta := wellFormedMetadata()
	doc, err := ParseBytes(renderPage(t, meta, "en", ""))
	require.NoError(t, err)
	require.Equal(t, meta, ReadMetadata(doc))

	doc, err = ParseBytes([]byte(`<html><head></head></html>`))
	require.NoError(t, err)
	require.Equal(t, seo.Metadata{}, ReadMetadata(doc))
}

func TestDiagnoseRenderedPage(t *testing.T) {
	t.Parallel()

	doc, err := ParseBytes(renderPage(t, wellFormedMetadata(), "zh-TW", `<img src="/a.png" alt="A">`))
	require.NoError(t, err)

	d := Diagnose(doc)
	require.Empty(t, d.Suggestions)
	require.Len(t, d.Groups, 6)

	title, ok := d.Finding(GroupBasicMeta, "Title")
	require.True(t, ok)
	require.Equal(t, StatusGood, title.Status)
	require.Contains(t, title.Value, "(40 chars)")

	lang, ok := d.Finding(GroupTechnical, "Language")
	require.True(t, ok)
	require.Equal(t, "zh-TW", lang.Value)

	require.Len(t, d.StructuredData, 1)
	payload, ok := d.StructuredData[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "WebSite", payload["@type"])

	var out bytes.Buffer
	require.NoError(t, d.WriteText(&out))
	require.Contains(t, out.String(), GroupOpenGraph)
	require.Contains(t, out.String(), "SEO setup looks good")
}

func TestDiagnoseBarePage(t *testing.T) {
	t.Parallel()

	doc, err := ParseBytes([]byte(`<html><head>
<script type="application/ld+json">{not json</script>
</head><body><img src="/x.png"></body></html>`))
	require.NoError(t, err)

	d := Diagnose(doc)
	require.Equal(t, []string{
		"Add a page title",
		"Add a page description",
		"Add an Open Graph image",
		"Add alt attributes to all images",
	}, d.Suggestions)
	require.Equal(t, []any{"invalid JSON"}, d.StructuredData)

	keywords, ok := d.Finding(GroupBasicMeta, "Keywords")
	require.True(t, ok)
	require.Equal(t, StatusWarning, keywords.Status)

	status, ok := d.Finding(GroupImages, "Status")
	require.True(t, ok)
	require.Equal(t, StatusBad, status.Status)
	require.Equal(t, "1 images missing alt", status.Value)

	var out bytes.Buffer
	require.NoError(t, d.WriteText(&out))
	require.Contains(t, out.String(), "4. Add alt attributes to all images")
}

func TestProbe(t *testing.T) {
	t.Parallel()

	page := renderPage(t, wellFormedMetadata(), "en", "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}))
	t.Cleanup(srv.Close)

	timing, doc, err := Probe(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Equal(t, http.StatusOK, timing.StatusCode)
	require.Equal(t, len(page), timing.Bytes)
	require.LessOrEqual(t, timing.FirstByte, timing.Response)
	require.LessOrEqual(t, timing.Response, timing.Total)
	require.Equal(t, 100, Score(doc).Score)

	_, doc, err = Probe(context.Background(), srv.Client(), srv.URL+"/missing")
	require.Error(t, err)
	require.Nil(t, doc)
}

func TestMeasure(t *testing.T) {
	t.Parallel()

	page := renderPage(t, wellFormedMetadata(), "en", "")
	timing, doc, err := Measure(context.Background(), "home", func(context.Context) ([]byte, error) {
		return page, nil
	})
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Equal(t, "home", timing.URL)
	require.Equal(t, len(page), timing.Bytes)

	var out bytes.Buffer
	require.NoError(t, timing.WriteText(&out))
	require.Contains(t, out.String(), "DOM parse time:")

	boom := errors.New("render failed")
	_, doc, err = Measure(context.Background(), "home", func(context.Context) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Nil(t, doc)
}
