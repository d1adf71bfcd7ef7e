package audit

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/ChaChaChung/seo-site/internal/seo"
)

// MaxScore is the sum of all check weights.
const MaxScore = 100

// Check is one scored item.
type Check struct {
	Item   string `json:"item"`
	Passed bool   `json:"passed"`
	Points int    `json:"points"`
}

// Report is the outcome of scoring a document.
type Report struct {
	Score    int     `json:"score"`
	MaxScore int     `json:"maxScore"`
	Grade    string  `json:"grade"`
	Checks   []Check `json:"checks"`
}

type rule struct {
	item   string
	points int
	pass   func(*goquery.Document) bool
}

var rules = []rule{
	{item: "Title length", points: 20, pass: func(doc *goquery.Document) bool {
		if !exists(doc, "title") {
			return false
		}
		n := utf8.RuneCountInString(titleText(doc))
		return n >= seo.TitleMinLength && n <= seo.TitleMaxLength
	}},
	{item: "Description length", points: 20, pass: func(doc *goquery.Document) bool {
		if !exists(doc, `meta[name="description"]`) {
			return false
		}
		n := utf8.RuneCountInString(metaContent(doc, `meta[name="description"]`))
		return n >= seo.DescriptionMinLength && n <= seo.DescriptionMaxLength
	}},
	{item: "Open Graph image", points: 15, pass: func(doc *goquery.Document) bool {
		return exists(doc, `meta[property="og:image"]`)
	}},
	{item: "Canonical URL", points: 10, pass: func(doc *goquery.Document) bool {
		return exists(doc, `link[rel="canonical"]`)
	}},
	{item: "Structured data", points: 15, pass: func(doc *goquery.Document) bool {
		return exists(doc, `script[type="application/ld+json"]`)
	}},
	{item: "Image alt attributes", points: 10, pass: func(doc *goquery.Document) bool {
		_, missing := imageCounts(doc)
		return missing == 0
	}},
	{item: "Language attribute", points: 10, pass: func(doc *goquery.Document) bool {
		return documentLanguage(doc) != ""
	}},
}

// Score evaluates the document against the weighted checks. Missing elements fail their
// check; a nil document fails every check.
func Score(doc *goquery.Document) Report {
	report := Report{MaxScore: MaxScore, Checks: make([]Check, 0, len(rules))}
	for _, r := range rules {
		passed := doc != nil && r.pass(doc)
		check := Check{Item: r.item, Passed: passed}
		if passed {
			check.Points = r.points
			report.Score += r.points
		}
		report.Checks = append(report.Checks, check)
	}
	report.Grade = Grade(report.Score)
	return report
}

// ScoreHTML parses body and scores it.
func ScoreHTML(body []byte) (Report, error) {
	doc, err := ParseBytes(body)
	if err != nil {
		return Report{}, err
	}
	return Score(doc), nil
}

// Grade maps a score to its letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	default:
		return "D"
	}
}
