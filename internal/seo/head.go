package seo

import (
	"bytes"
	"embed"
	"html/template"
	"sync"
)

//go:embed templates/head.html.tmpl
var templateFS embed.FS

var (
	headTmplOnce sync.Once
	headTmpl     *template.Template
)

func headTemplate() *template.Template {
	headTmplOnce.Do(func() {
		headTmpl = template.Must(template.ParseFS(templateFS, "templates/head.html.tmpl"))
	})
	return headTmpl
}

// MetaTag is a single <meta> element. Exactly one of Name, Property or HTTPEquiv is set.
type MetaTag struct {
	Name      string
	Property  string
	HTTPEquiv string
	Content   string
}

// LinkTag is a single <link> element.
type LinkTag struct {
	Rel  string
	Href string
	Type string
}

// Head holds the directives Render produces, in emission order.
type Head struct {
	Title  string
	Metas  []MetaTag
	Links  []LinkTag
	JSONLD []string
}

// Meta returns the content of the first meta tag with the given name.
func (h Head) Meta(name string) (string, bool) {
	for _, m := range h.Metas {
		if m.Name == name {
			return m.Content, true
		}
	}
	return "", false
}

// Property returns the content of the first meta tag with the given property.
func (h Head) Property(property string) (string, bool) {
	for _, m := range h.Metas {
		if m.Property == property {
			return m.Content, true
		}
	}
	return "", false
}

// Link returns the href of the first link with the given rel.
func (h Head) Link(rel string) (string, bool) {
	for _, l := range h.Links {
		if l.Rel == rel {
			return l.Href, true
		}
	}
	return "", false
}

type headView struct {
	Title  string
	Metas  []MetaTag
	Links  []LinkTag
	JSONLD []template.JS
}

// HTML serialises the head directives. The result is safe to embed in a layout template.
func (h Head) HTML() template.HTML {
	view := headView{Title: h.Title, Metas: h.Metas, Links: h.Links}
	for _, block := range h.JSONLD {
		// json.Marshal escapes <, > and &, so the payload cannot close the script element.
		view.JSONLD = append(view.JSONLD, template.JS(block))
	}
	var buf bytes.Buffer
	if err := headTemplate().Execute(&buf, view); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

// Render maps the metadata triple and site options to head directives.
// Empty fields fall back to the defaults; title and description are truncated.
func Render(meta Metadata, opts Options) Head {
	opts = opts.WithDefaults()

	title := Truncate(orDefault(meta.Title, DefaultTitle), TitleLimit)
	description := Truncate(orDefault(meta.Description, DefaultDescription), DescriptionLimit)
	keywords := orDefault(meta.Keywords, DefaultKeywords)

	head := Head{Title: title}
	head.Metas = []MetaTag{
		{Name: "description", Content: description},
		{Name: "keywords", Content: keywords},
		{Name: "author", Content: opts.Author},
		{Name: "robots", Content: "index, follow"},
		{Name: "language", Content: opts.Language},
		{Name: "revisit-after", Content: "7 days"},

		{Property: "og:title", Content: title},
		{Property: "og:description", Content: description},
		{Property: "og:image", Content: opts.Image},
		{Property: "og:url", Content: opts.URL},
		{Property: "og:type", Content: opts.Type},
		{Property: "og:site_name", Content: opts.SiteName},
		{Property: "og:locale", Content: opts.Locale},

		{Name: "twitter:card", Content: opts.TwitterCard},
		{Name: "twitter:title", Content: title},
		{Name: "twitter:description", Content: description},
		{Name: "twitter:image", Content: opts.Image},

		{Name: "viewport", Content: "width=device-width, initial-scale=1.0"},
		{HTTPEquiv: "Content-Type", Content: "text/html; charset=utf-8"},
		{Name: "format-detection", Content: "telephone=no"},
	}
	head.Links = []LinkTag{
		{Rel: "canonical", Href: opts.URL},
		{Rel: "icon", Href: opts.Image, Type: "image/svg+xml"},
		{Rel: "apple-touch-icon", Href: opts.Image},
	}
	head.JSONLD = []string{JSON(WebSite(WebSiteInfo{
		Name:        opts.SiteName,
		Description: description,
		URL:         opts.URL,
		Author:      opts.Author,
		Language:    opts.Language,
	}))}
	return head
}
