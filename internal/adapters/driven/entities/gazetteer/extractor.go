package gazetteer

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.EntityExtractor = (*Extractor)(nil)

// maxTopics is how many topics the extractor proposes.
const maxTopics = 5

var (
	honorificName = regexp.MustCompile(
		`\b(?:Mr|Mrs|Ms|Miss|Dr|Prof|Rev|Sir|Capt|Col|Gen)\.?\s+[A-Z][a-z]+(?:\s+[A-Z]\.)?(?:\s+[A-Z][a-z]+)?`)

	organization = regexp.MustCompile(
		`\b(?:[A-Z][\w&'-]*\s+){0,4}(?:Inc|Corp|Corporation|Company|Co|Ltd|LLC|University|College|School|` +
			`Museum|Society|Association|Council|Library|Church|Bank|Foundation|Institute|Committee|Club)\b\.?` +
			`(?:\s+of(?:\s+[A-Z][a-z]+)+)?`)

	placeAfterPreposition = regexp.MustCompile(`\b(?:in|at|from|near|to)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

	word = regexp.MustCompile(`[A-Za-z][a-z]{4,}`)
)

// Extractor implements driven.EntityExtractor.
type Extractor struct {
	gazetteer *Gazetteer
}

// NewExtractor creates an extractor. The gazetteer is optional.
func NewExtractor(g *Gazetteer) *Extractor {
	return &Extractor{gazetteer: g}
}

// Extract finds entities in text. It only fails when ctx is done.
func (e *Extractor) Extract(ctx context.Context, text string) (domain.EntityResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EntityResult{}, err
	}

	var r domain.EntityResult
	g := e.gazetteer
	if g != nil {
		r.People = match(g.People, text)
		r.Places = match(g.Places, text)
		r.Organizations = match(g.Organizations, text)
		r.Topics = match(g.Topics, text)
	}

	r.People = union(r.People, g.unknown(findAll(honorificName, text, 0)))
	r.Organizations = union(r.Organizations, g.unknown(trimOrgs(findAll(organization, text, 0))))
	r.Places = union(r.Places, g.unknown(placeNames(findAll(placeAfterPreposition, text, 1))))
	r.Places = without(r.Places, r.Organizations)
	if len(r.Topics) < maxTopics {
		r.Topics = union(r.Topics, frequentWords(text, maxTopics-len(r.Topics)))
	}
	return r, nil
}

func findAll(re *regexp.Regexp, text string, group int) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if s := strings.TrimSpace(m[group]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// trimOrgs drops a leading sentence word such as "The".
func trimOrgs(orgs []string) []string {
	out := orgs[:0]
	for _, o := range orgs {
		o = strings.TrimPrefix(o, "The ")
		if strings.Contains(o, " ") {
			out = append(out, o)
		}
	}
	return out
}

// notPlaceStarts are capitalised words that follow "in", "at" and so on
// without naming a place.
var notPlaceStarts = map[string]bool{
	"January": true, "February": true, "March": true, "April": true, "May": true, "June": true,
	"July": true, "August": true, "September": true, "October": true, "November": true, "December": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true, "Friday": true,
	"Saturday": true, "Sunday": true, "The": true, "This": true, "That": true,
	"Mr": true, "Mrs": true, "Ms": true, "Miss": true, "Dr": true, "Prof": true, "Rev": true,
}

func placeNames(places []string) []string {
	out := places[:0]
	for _, p := range places {
		if !notPlaceStarts[strings.Fields(p)[0]] {
			out = append(out, p)
		}
	}
	return out
}

var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "against": true, "along": true,
	"among": true, "being": true, "below": true, "between": true, "could": true, "every": true,
	"first": true, "found": true, "great": true, "having": true, "their": true, "there": true,
	"these": true, "thing": true, "think": true, "those": true, "three": true, "through": true,
	"under": true, "until": true, "where": true, "which": true, "while": true, "whose": true,
	"would": true, "years": true, "should": true, "other": true, "shall": true, "since": true,
	"still": true, "today": true, "upon": true, "within": true, "without": true, "before": true,
}

// frequentWords returns lower-case words seen at least twice, most frequent first.
func frequentWords(text string, limit int) []string {
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, w := range word.FindAllString(text, -1) {
		w = strings.ToLower(w)
		if stopWords[w] {
			continue
		}
		if _, seen := first[w]; !seen {
			first[w] = i
		}
		counts[w]++
	}

	var words []string
	for w, n := range counts {
		if n >= 2 {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return first[words[i]] < first[words[j]]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// union appends entries of extra not already in base, case-insensitively.
func union(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			key := strings.ToLower(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

// without drops entries of list that appear inside any of the others.
func without(list, others []string) []string {
	out := list[:0]
	for _, s := range list {
		contained := false
		for _, o := range others {
			if strings.Contains(o, s) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, s)
		}
	}
	return out
}
