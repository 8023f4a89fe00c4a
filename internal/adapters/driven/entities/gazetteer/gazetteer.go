// Package gazetteer extracts people, places, organisations and topics from
// OCR text. Known names come from an optional YAML gazetteer; the rest are
// found with capitalisation and keyword heuristics.
package gazetteer

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gazetteer lists known entities by category.
//
// Expected format:
//
//	people:
//	  - name: Eleanor Roosevelt
//	    aliases: [Mrs. Roosevelt]
//	places:
//	  - name: Hyde Park
//	organizations:
//	  - name: Smithsonian Institution
//	    aliases: [Smithsonian]
//	topics:
//	  - name: Suffrage
//	    aliases: [votes for women]
type Gazetteer struct {
	People        []Entry `yaml:"people"`
	Places        []Entry `yaml:"places"`
	Organizations []Entry `yaml:"organizations"`
	Topics        []Entry `yaml:"topics"`
}

// Entry is a canonical name and the spellings that refer to it.
// Matching is case-insensitive on whole words.
type Entry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`

	pattern *regexp.Regexp
}

// Load reads a gazetteer file.
func Load(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gazetteer: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML gazetteer and compiles its matchers.
func Parse(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing gazetteer: %w", err)
	}
	for _, list := range []*[]Entry{&g.People, &g.Places, &g.Organizations, &g.Topics} {
		kept := (*list)[:0]
		for _, e := range *list {
			e.Name = strings.TrimSpace(e.Name)
			if e.Name == "" {
				continue
			}
			e.pattern = compile(append([]string{e.Name}, e.Aliases...))
			kept = append(kept, e)
		}
		*list = kept
	}
	return &g, nil
}

// Len returns the number of entries across all categories.
func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	return len(g.People) + len(g.Places) + len(g.Organizations) + len(g.Topics)
}

// unknown drops names that any entry already matches. A nil gazetteer knows nothing.
func (g *Gazetteer) unknown(names []string) []string {
	if g.Len() == 0 {
		return names
	}
	out := names[:0]
	for _, n := range names {
		if !g.knows(n) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Gazetteer) knows(name string) bool {
	for _, list := range [][]Entry{g.People, g.Places, g.Organizations, g.Topics} {
		for _, e := range list {
			if e.pattern.MatchString(name) {
				return true
			}
		}
	}
	return false
}

func compile(spellings []string) *regexp.Regexp {
	alts := make([]string, 0, len(spellings))
	for _, s := range spellings {
		if s = strings.TrimSpace(s); s != "" {
			alts = append(alts, regexp.QuoteMeta(s))
		}
	}
	return regexp.MustCompile(`(?i)(?:^|\W)(?:` + strings.Join(alts, "|") + `)(?:\W|$)`)
}

// match returns the canonical names found in text, ordered by first appearance.
func match(entries []Entry, text string) []string {
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, e := range entries {
		if loc := e.pattern.FindStringIndex(text); loc != nil {
			hits = append(hits, hit{e.Name, loc[0]})
		}
	}
	// Insertion sort keeps entries with equal positions in file order.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}
