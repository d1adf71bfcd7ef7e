// Package audit inspects rendered HTML documents: it scores SEO quality,
// produces grouped diagnostics and measures page load timings.
package audit

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ChaChaChung/seo-site/internal/seo"
)

// ParseHTML parses a full HTML document.
func ParseHTML(r io.Reader) (*goquery.Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("audit: parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(node), nil
}

// ParseBytes is ParseHTML over an in-memory payload.
func ParseBytes(body []byte) (*goquery.Document, error) {
	return ParseHTML(bytes.NewReader(body))
}

// ReadMetadata extracts the title/description/keywords triple from the document head.
// Absent elements produce empty fields.
func ReadMetadata(doc *goquery.Document) seo.Metadata {
	if doc == nil {
		return seo.Metadata{}
	}
	return seo.Metadata{
		Title:       titleText(doc),
		Description: metaContent(doc, `meta[name="description"]`),
		Keywords:    metaContent(doc, `meta[name="keywords"]`),
	}
}

func titleText(doc *goquery.Document) string {
	return doc.Find("title").First().Text()
}

func metaContent(doc *goquery.Document, selector string) string {
	return doc.Find(selector).First().AttrOr("content", "")
}

func exists(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

func documentLanguage(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("html").First().AttrOr("lang", ""))
}

// imageCounts returns the number of <img> elements and how many lack a non-empty alt.
func imageCounts(doc *goquery.Document) (total, missingAlt int) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		total++
		if s.AttrOr("alt", "") == "" {
			missingAlt++
		}
	})
	return total, missingAlt
}
