package tagging

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// Per-category contribution caps applied during aggregation.
const (
	topicsCap = 3
	yearsCap  = 3
	datesCap  = 3
	timesCap  = 2
	moneyCap  = 2
	phonesCap = 1
	emailsCap = 1
	urlsCap   = 2
	quotedCap = 3
)

// minTagLength is the shortest tag kept, unless the tag is a 4-digit year.
const minTagLength = 3

var (
	yearToken = regexp.MustCompile(`^\d{4}$`)
	digitRun  = regexp.MustCompile(`\d{4}`)
)

// Aggregate builds the ranked tag list for a document.
//
// Candidates are taken in precedence order (people, places, organisations,
// topics, then pattern matches), deduplicated case-sensitively keeping the
// first occurrence, filtered for noise, and capped at domain.MaxTags.
func Aggregate(text string, entities domain.EntityResult) []string {
	p := ExtractPatterns(text)

	var candidates []string
	candidates = append(candidates, entities.People...)
	candidates = append(candidates, entities.Places...)
	candidates = append(candidates, entities.Organizations...)
	candidates = append(candidates, head(entities.Topics, topicsCap)...)
	candidates = append(candidates, head(p.Years, yearsCap)...)
	candidates = append(candidates, head(p.Dates, datesCap)...)
	candidates = append(candidates, head(p.Times, timesCap)...)
	candidates = append(candidates, head(p.Money, moneyCap)...)
	candidates = append(candidates, head(p.Phones, phonesCap)...)
	candidates = append(candidates, head(p.Emails, emailsCap)...)
	candidates = append(candidates, head(p.URLs, urlsCap)...)
	candidates = append(candidates, head(p.Quoted, quotedCap)...)

	tags := make([]string, 0, domain.MaxTags)
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if !keep(c) {
			continue
		}
		tags = append(tags, c)
		if len(tags) == domain.MaxTags {
			break
		}
	}
	return tags
}

// keep reports whether a candidate survives the noise filter.
func keep(tag string) bool {
	if strings.TrimSpace(tag) == "" {
		return false
	}
	if utf8.RuneCountInString(tag) < minTagLength && !yearToken.MatchString(tag) {
		return false
	}
	if !hasLetter(tag) && !digitRun.MatchString(tag) {
		return false
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
