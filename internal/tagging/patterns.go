// Package tagging derives tags from recognised document text.
//
// ExtractPatterns finds structured tokens such as years, dates and
// contact details. Aggregate merges them with named entities into the
// ranked tag list stored on a document. Both are pure functions.
package tagging

import "regexp"

// Patterns holds the unique matches per category in first-seen order.
type Patterns struct {
	Years  []string
	Money  []string
	Phones []string
	Emails []string
	URLs   []string
	Dates  []string
	Times  []string
	Quoted []string
}

// Per-category extraction caps. Zero means unlimited.
const (
	maxURLs   = 2
	maxDates  = 3
	maxTimes  = 2
	maxQuoted = 3
)

var (
	yearPattern   = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	moneyPattern  = regexp.MustCompile(`\$(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?`)
	phonePattern  = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern    = regexp.MustCompile(`(?:https?://)?(?:www\.)?[a-zA-Z0-9-]+\.[a-zA-Z]{2,}(?:/\S*)?`)
	datePattern   = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4}`)
	timePattern   = regexp.MustCompile(`\d{1,2}:\d{2}(?:\s*(?i:am|pm))?`)
	quotedPattern = regexp.MustCompile(`"([^"]{3,50})"`)
)

// ExtractPatterns scans text for every pattern category.
// Empty text yields empty categories.
func ExtractPatterns(text string) Patterns {
	if text == "" {
		return Patterns{}
	}
	return Patterns{
		Years:  matchAll(yearPattern, text, 0, 0),
		Money:  matchAll(moneyPattern, text, 0, 0),
		Phones: matchAll(phonePattern, text, 0, 0),
		Emails: matchAll(emailPattern, text, 0, 0),
		URLs:   matchAll(urlPattern, text, 0, maxURLs),
		Dates:  matchAll(datePattern, text, 0, maxDates),
		Times:  matchAll(timePattern, text, 0, maxTimes),
		Quoted: matchAll(quotedPattern, text, 1, maxQuoted),
	}
}

// matchAll returns unique matches of the given submatch group, keeping at most limit.
func matchAll(re *regexp.Regexp, text string, group, limit int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		v := m[group]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
