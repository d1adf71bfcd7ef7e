package seo

import "unicode/utf8"

// Severity classifies a checker finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Recommended length windows, in runes.
const (
	TitleMinLength       = 30
	TitleMaxLength       = 60
	DescriptionMinLength = 120
	DescriptionMaxLength = 160
)

// Issue is one best-practice violation.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Check evaluates the triple and returns issues ordered title, description, keywords.
// Each field yields at most one issue.
func Check(meta Metadata) []Issue {
	var issues []Issue

	switch n := utf8.RuneCountInString(meta.Title); {
	case meta.Title == "":
		issues = append(issues, Issue{Severity: SeverityError, Message: "missing page title"})
	case n < TitleMinLength:
		issues = append(issues, Issue{Severity: SeverityWarning, Message: "title too short, recommend 30-60 characters"})
	case n > TitleMaxLength:
		issues = append(issues, Issue{Severity: SeverityWarning, Message: "title too long, may be truncated"})
	}

	switch n := utf8.RuneCountInString(meta.Description); {
	case meta.Description == "":
		issues = append(issues, Issue{Severity: SeverityError, Message: "missing page description"})
	case n < DescriptionMinLength:
		issues = append(issues, Issue{Severity: SeverityWarning, Message: "description too short, recommend 120-160 characters"})
	case n > DescriptionMaxLength:
		issues = append(issues, Issue{Severity: SeverityWarning, Message: "description too long, may be truncated"})
	}

	if meta.Keywords == "" {
		issues = append(issues, Issue{Severity: SeverityWarning, Message: "recommend adding keywords"})
	}
	return issues
}

// CountBySeverity tallies errors and warnings.
func CountBySeverity(issues []Issue) (errs, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}
