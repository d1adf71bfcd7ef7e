package seodata

import "github.com/ChaChaChung/seo-site/internal/seo"

// Fallback is installed when a fetch fails.
func Fallback() seo.Metadata {
	return seo.Metadata{
		Title:       seo.DefaultTitle,
		Description: seo.DefaultDescription,
		Keywords:    seo.DefaultKeywords,
	}
}
