// Package seo renders document head metadata and checks it against basic SEO guidelines.
package seo

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// Fallback strings used when a metadata field is empty.
const (
	DefaultTitle       = "React SEO - 現代化網站開發 - 測試 SEO 檢查工具"
	DefaultDescription = "一個使用 React + Vite 建立的現代化網站，具有優秀的 SEO 優化功能"
	DefaultKeywords    = "React, Vite, SEO, 網站開發, 前端"
)

// Length limits applied by Render. Lengths are counted in runes.
const (
	TitleLimit       = 60
	DescriptionLimit = 160

	ellipsis = "..."
)

// Metadata is the title/description/keywords triple served by the metadata API.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Options carries the site-level values Render falls back to.
type Options struct {
	Image       string
	URL         string
	Type        string
	SiteName    string
	Locale      string
	Author      string
	TwitterCard string
	Language    string
}

// DefaultOptions returns the site defaults.
func DefaultOptions() Options {
	return Options{
		Image:       "/static/logo.svg",
		URL:         "http://localhost:8080",
		Type:        "website",
		SiteName:    "React SEO",
		Author:      "React SEO Team",
		TwitterCard: "summary_large_image",
		Language:    "zh-TW",
	}
}

// WithDefaults fills empty fields from DefaultOptions and derives Locale from Language.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.Image) == "" {
		o.Image = def.Image
	}
	if strings.TrimSpace(o.URL) == "" {
		o.URL = def.URL
	}
	if strings.TrimSpace(o.Type) == "" {
		o.Type = def.Type
	}
	if strings.TrimSpace(o.SiteName) == "" {
		o.SiteName = def.SiteName
	}
	if strings.TrimSpace(o.Author) == "" {
		o.Author = def.Author
	}
	if strings.TrimSpace(o.TwitterCard) == "" {
		o.TwitterCard = def.TwitterCard
	}
	if strings.TrimSpace(o.Language) == "" {
		o.Language = def.Language
	}
	if strings.TrimSpace(o.Locale) == "" {
		o.Locale = LocaleFromLanguage(o.Language)
	}
	o.Image = resolveURL(o.URL, o.Image)
	return o
}

// LocaleFromLanguage converts a BCP 47 tag such as "zh-TW" into the Open Graph
// locale form "zh_TW". Unparseable tags yield the default locale.
func LocaleFromLanguage(lang string) string {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil || tag == language.Und {
		return "zh_TW"
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.No || region.String() == "ZZ" {
		return base.String()
	}
	return base.String() + "_" + region.String()
}

// Truncate shortens s to limit runes, replacing the tail with "..." when it overflows.
func Truncate(s string, limit int) string {
	if limit <= len(ellipsis) || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

// orDefault treats only the empty string as missing; whitespace is kept as given.
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func resolveURL(base, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil || refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
