package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns an Organization node suitable for nesting inside another schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@type": "Organization",
		"name":  name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSiteInfo describes the site for the WebSite schema.
type WebSiteInfo struct {
	Name        string
	Description string
	URL         string
	Author      string
	Language    string
}

// WebSite returns a WebSite schema authored by an Organization.
func WebSite(info WebSiteInfo) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        info.Name,
		"description": info.Description,
	}
	if info.URL != "" {
		m["url"] = info.URL
	}
	if info.Author != "" {
		m["author"] = Organization(info.Author, "", "")
	}
	if info.Language != "" {
		m["inLanguage"] = info.Language
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string `yaml:"name"`
	Item string `yaml:"item"`
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}
