package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/olekukonko/tablewriter"

	"github.com/ChaChaChung/seo-site/internal/seo"
)

// Status is the verdict attached to a diagnostic finding.
type Status string

const (
	StatusGood    Status = "good"
	StatusInfo    Status = "info"
	StatusWarning Status = "warning"
	StatusMissing Status = "missing"
	StatusBad     Status = "bad"
)

// Symbol returns the marker printed next to the finding.
func (s Status) Symbol() string {
	switch s {
	case StatusGood:
		return "✅"
	case StatusWarning:
		return "⚠️"
	case StatusMissing, StatusBad:
		return "❌"
	default:
		return "•"
	}
}

// Group names, in report order.
const (
	GroupBasicMeta      = "Basic meta"
	GroupOpenGraph      = "Open Graph"
	GroupTwitterCard    = "Twitter Card"
	GroupStructuredData = "Structured data"
	GroupTechnical      = "Technical SEO"
	GroupImages         = "Image optimisation"
)

// Finding is one labelled observation.
type Finding struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status Status `json:"status"`
}

// Group is a named list of findings.
type Group struct {
	Name     string    `json:"name"`
	Findings []Finding `json:"findings"`
}

// Diagnostics is the full inspection of a document.
type Diagnostics struct {
	Groups []Group `json:"groups"`
	// StructuredData holds each JSON-LD payload decoded, or the string "invalid JSON".
	StructuredData []any    `json:"structuredData"`
	Suggestions    []string `json:"suggestions"`
}

// Group returns the named group.
func (d Diagnostics) Group(name string) (Group, bool) {
	for _, g := range d.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Finding looks up a finding by group and label.
func (d Diagnostics) Finding(group, label string) (Finding, bool) {
	g, ok := d.Group(group)
	if !ok {
		return Finding{}, false
	}
	for _, f := range g.Findings {
		if f.Label == label {
			return f, true
		}
	}
	return Finding{}, false
}

// Diagnose inspects the document and groups what it finds. It never mutates the document.
func Diagnose(doc *goquery.Document) Diagnostics {
	if doc == nil {
		doc, _ = ParseBytes(nil)
	}
	var d Diagnostics

	titleFinding := lengthFinding("Title", doc, "title", "", seo.TitleMinLength, seo.TitleMaxLength)
	descFinding := lengthFinding("Description", doc, `meta[name="description"]`, "content", seo.DescriptionMinLength, seo.DescriptionMaxLength)
	d.Groups = append(d.Groups, Group{Name: GroupBasicMeta, Findings: []Finding{
		titleFinding,
		descFinding,
		optionalFinding("Keywords", doc, `meta[name="keywords"]`, "content"),
		optionalFinding("Robots", doc, `meta[name="robots"]`, "content"),
	}})

	ogImage := requiredFinding("Image", doc, `meta[property="og:image"]`, "content")
	d.Groups = append(d.Groups, Group{Name: GroupOpenGraph, Findings: []Finding{
		requiredFinding("Title", doc, `meta[property="og:title"]`, "content"),
		requiredFinding("Description", doc, `meta[property="og:description"]`, "content"),
		ogImage,
		requiredFinding("URL", doc, `meta[property="og:url"]`, "content"),
	}})

	d.Groups = append(d.Groups, Group{Name: GroupTwitterCard, Findings: []Finding{
		requiredFinding("Card", doc, `meta[name="twitter:card"]`, "content"),
		requiredFinding("Title", doc, `meta[name="twitter:title"]`, "content"),
		requiredFinding("Description", doc, `meta[name="twitter:description"]`, "content"),
	}})

	scripts := doc.Find(`script[type="application/ld+json"]`)
	scripts.Each(func(_ int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			d.StructuredData = append(d.StructuredData, "invalid JSON")
			return
		}
		d.StructuredData = append(d.StructuredData, payload)
	})
	structured := Finding{Label: "Count", Value: strconv.Itoa(scripts.Length()), Status: StatusGood}
	if scripts.Length() == 0 {
		structured.Status = StatusMissing
	}
	structuredFindings := []Finding{structured}
	for i, payload := range d.StructuredData {
		f := Finding{Label: fmt.Sprintf("Block %d", i+1), Status: StatusGood}
		if s, ok := payload.(string); ok {
			f.Value, f.Status = s, StatusBad
		} else {
			f.Value = seo.JSON(payload)
		}
		structuredFindings = append(structuredFindings, f)
	}
	d.Groups = append(d.Groups, Group{Name: GroupStructuredData, Findings: structuredFindings})

	lang := Finding{Label: "Language", Value: documentLanguage(doc), Status: StatusGood}
	if lang.Value == "" {
		lang.Status = StatusMissing
	}
	d.Groups = append(d.Groups, Group{Name: GroupTechnical, Findings: []Finding{
		requiredFinding("Canonical", doc, `link[rel="canonical"]`, "href"),
		requiredFinding("Viewport", doc, `meta[name="viewport"]`, "content"),
		lang,
	}})

	total, missingAlt := imageCounts(doc)
	imageStatus := Finding{Label: "Status", Value: "all images have alt text", Status: StatusGood}
	if missingAlt > 0 {
		imageStatus = Finding{Label: "Status", Value: fmt.Sprintf("%d images missing alt", missingAlt), Status: StatusBad}
	}
	d.Groups = append(d.Groups, Group{Name: GroupImages, Findings: []Finding{
		{Label: "Total images", Value: strconv.Itoa(total), Status: StatusInfo},
		{Label: "Missing alt", Value: strconv.Itoa(missingAlt), Status: StatusInfo},
		imageStatus,
	}})

	if titleFinding.Status == StatusMissing {
		d.Suggestions = append(d.Suggestions, "Add a page title")
	}
	if descFinding.Status == StatusMissing {
		d.Suggestions = append(d.Suggestions, "Add a page description")
	}
	if ogImage.Status == StatusMissing {
		d.Suggestions = append(d.Suggestions, "Add an Open Graph image")
	}
	if missingAlt > 0 {
		d.Suggestions = append(d.Suggestions, "Add alt attributes to all images")
	}
	return d
}

func lengthFinding(label string, doc *goquery.Document, selector, attr string, minLen, maxLen int) Finding {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return Finding{Label: label, Status: StatusMissing}
	}
	value := sel.Text()
	if attr != "" {
		value = sel.AttrOr(attr, "")
	}
	n := utf8.RuneCountInString(value)
	f := Finding{Label: label, Value: fmt.Sprintf("%s (%d chars)", value, n)}
	switch {
	case n < minLen:
		f.Status = StatusWarning
	case n > maxLen:
		f.Status = StatusBad
	default:
		f.Status = StatusGood
	}
	return f
}

func requiredFinding(label string, doc *goquery.Document, selector, attr string) Finding {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return Finding{Label: label, Status: StatusMissing}
	}
	return Finding{Label: label, Value: sel.AttrOr(attr, ""), Status: StatusGood}
}

func optionalFinding(label string, doc *goquery.Document, selector, attr string) Finding {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return Finding{Label: label, Value: "not set", Status: StatusWarning}
	}
	return Finding{Label: label, Value: sel.AttrOr(attr, ""), Status: StatusGood}
}

// WriteText prints one table per group followed by the numbered suggestions.
func (d Diagnostics) WriteText(w io.Writer) error {
	for _, g := range d.Groups {
		if _, err := fmt.Fprintf(w, "%s\n", g.Name); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header("Item", "Value", "Status")
		for _, f := range g.Findings {
			if err := table.Append([]string{f.Label, f.Value, f.Status.Symbol() + " " + string(f.Status)}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(d.Suggestions) == 0 {
		_, err := fmt.Fprintln(w, "SEO setup looks good")
		return err
	}
	if _, err := fmt.Fprintln(w, "Suggestions:"); err != nil {
		return err
	}
	for i, s := range d.Suggestions {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, s); err != nil {
			return err
		}
	}
	return nil
}
