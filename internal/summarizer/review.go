package summarizer

import (
	"fmt"
	"regexp"
	"strings"
)

// Structural review of a generated guide. Shortfalls are reported on
// the summary record for the caller to inspect; they never fail the
// generation.

const (
	minMainSections = 8
	minNotes        = 6
	minCitations    = 8
)

var (
	headingRegex  = regexp.MustCompile(`(?m)^##\s+`)
	noteRegex     = regexp.MustCompile(`\((?:Shortform\s+)?[Nn]ote:`)
	citationRegex = regexp.MustCompile(`\*[^*\n]{3,}\*`)
	onePageRegex  = regexp.MustCompile(`(?i)one[- ]page summary`)
)

// Review checks a generated guide against the required structure and
// returns a human-readable list of shortfalls, empty when the guide
// passes.
func Review(content string) []string {
	var issues []string

	if strings.TrimSpace(content) == "" {
		return []string{"guide is empty"}
	}

	if !onePageRegex.MatchString(content) {
		issues = append(issues, `missing "One-Page Summary" section`)
	}

	if n := len(headingRegex.FindAllString(content, -1)); n < minMainSections {
		issues = append(issues, fmt.Sprintf("only %d main sections (want at least %d)", n, minMainSections))
	}

	if n := len(noteRegex.FindAllString(content, -1)); n < minNotes {
		issues = append(issues, fmt.Sprintf("only %d comparative notes (want at least %d)", n, minNotes))
	}

	if n := countDistinctCitations(content); n < minCitations {
		issues = append(issues, fmt.Sprintf("only %d distinct cited titles (want at least %d)", n, minCitations))
	}

	return issues
}

// countDistinctCitations counts distinct italicized titles.
func countDistinctCitations(content string) int {
	seen := make(map[string]bool)
	for _, m := range citationRegex.FindAllString(content, -1) {
		title := strings.ToLower(strings.Trim(m, "* "))
		if title != "" {
			seen[title] = true
		}
	}
	return len(seen)
}
