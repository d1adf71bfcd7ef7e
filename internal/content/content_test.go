package content

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadHome(t *testing.T) {
	t.Parallel()

	page, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "home", page.Slug)
	require.Equal(t, "歡迎來到 React SEO", page.Title)
	require.NotEmpty(t, page.HeroAlt)
	require.Contains(t, string(page.Body), "<h2")
	require.Contains(t, string(page.Body), "SEO 友好")

	again, err := Load("/home/")
	require.NoError(t, err)
	require.Equal(t, page, again)
}

func TestLoadUnknownSlug(t *testing.T) {
	t.Parallel()

	_, err := Load("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseSanitizesMarkdown(t *testing.T) {
	t.Parallel()

	page, err := parse("x", "---\ntitle: X\n---\nhello <script>alert(1)</script>\n")
	require.NoError(t, err)
	require.Equal(t, "X", page.Title)
	require.NotContains(t, string(page.Body), "<script")

	page, err = parse("y", "no front matter")
	require.NoError(t, err)
	require.Empty(t, page.Title)
	require.True(t, strings.Contains(string(page.Body), "no front matter"))
}

func TestBreadcrumbJSONLD(t *testing.T) {
	t.Parallel()

	page, err := Load("home")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(page.BreadcrumbJSONLD("https://example.com/")), &payload))
	require.Equal(t, "BreadcrumbList", payload["@type"])
	items := payload["itemListElement"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "https://example.com/", items[0].(map[string]any)["item"])

	require.Empty(t, Page{}.BreadcrumbJSONLD("https://example.com"))
}
