// Package content loads the site's markdown pages from the embedded pages directory.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/ChaChaChung/seo-site/internal/seo"
)

//go:embed pages/*.md
var pagesFS embed.FS

// ErrNotFound is returned for unknown slugs.
var ErrNotFound = errors.New("content: page not found")

// Page is a rendered markdown page.
type Page struct {
	Slug        string
	Title       string
	Summary     string
	CTA         string
	HeroImage   string
	HeroAlt     string
	Breadcrumbs []seo.BreadcrumbItem
	Body        template.HTML
}

type frontMatter struct {
	Title       string               `yaml:"title"`
	Summary     string               `yaml:"summary"`
	CTA         string               `yaml:"cta"`
	HeroImage   string               `yaml:"hero_image"`
	HeroAlt     string               `yaml:"hero_alt"`
	Breadcrumbs []seo.BreadcrumbItem `yaml:"breadcrumbs"`
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()

	cacheMu sync.RWMutex
	cache   = map[string]Page{}
)

// Load returns the page for slug, rendering and caching it on first use.
func Load(slug string) (Page, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		slug = "home"
	}

	cacheMu.RLock()
	page, ok := cache[slug]
	cacheMu.RUnlock()
	if ok {
		return page, nil
	}

	raw, err := fs.ReadFile(pagesFS, path.Join("pages", slug+".md"))
	if errors.Is(err, fs.ErrNotExist) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, fmt.Errorf("content: read %s: %w", slug, err)
	}

	page, err = parse(slug, string(raw))
	if err != nil {
		return Page{}, err
	}

	cacheMu.Lock()
	cache[slug] = page
	cacheMu.Unlock()
	return page, nil
}

func parse(slug, input string) (Page, error) {
	fmText, body := splitFrontMatter(input)

	var fm frontMatter
	if strings.TrimSpace(fmText) != "" {
		if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
			return Page{}, fmt.Errorf("content: front matter %s: %w", slug, err)
		}
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", slug, err)
	}

	return Page{
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Summary:     strings.TrimSpace(fm.Summary),
		CTA:         strings.TrimSpace(fm.CTA),
		HeroImage:   strings.TrimSpace(fm.HeroImage),
		HeroAlt:     strings.TrimSpace(fm.HeroAlt),
		Breadcrumbs: fm.Breadcrumbs,
		Body:        template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

// BreadcrumbJSONLD resolves the page breadcrumbs against baseURL and returns the
// BreadcrumbList payload, or "" when the page has none.
func (p Page) BreadcrumbJSONLD(baseURL string) string {
	if len(p.Breadcrumbs) == 0 {
		return ""
	}
	items := make([]seo.BreadcrumbItem, 0, len(p.Breadcrumbs))
	base := strings.TrimRight(baseURL, "/")
	for _, crumb := range p.Breadcrumbs {
		item := crumb.Item
		if strings.HasPrefix(item, "/") {
			item = base + item
		}
		items = append(items, seo.BreadcrumbItem{Name: crumb.Name, Item: item})
	}
	return seo.JSON(seo.BreadcrumbList(items))
}
