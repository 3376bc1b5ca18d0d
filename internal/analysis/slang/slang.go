// Package slang detects Gen-Z slang terms in cleaned text against a
// curated dictionary.
package slang

import (
	"regexp"
	"sort"
	"strings"
)

// Match is one detected slang occurrence. Start and End are byte offsets
// into the lowercased input.
type Match struct {
	Term    string `json:"term"`
	Meaning string `json:"meaning"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Metrics summarizes slang usage across one text.
type Metrics struct {
	Total   int     `json:"total_slang"`
	Unique  int     `json:"unique_slang"`
	Density float64 `json:"slang_density"`
}

type entry struct {
	term    string
	meaning string
	pattern *regexp.Regexp
}

// Detector holds the compiled dictionary. Safe for concurrent use.
type Detector struct {
	entries []entry
}

// NewDetector compiles the built-in dictionary, longest terms first so
// multi-word phrases win over their substrings.
func NewDetector() *Detector {
	terms := make([]string, 0, len(genZSlang))
	for term := range genZSlang {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})

	entries := make([]entry, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, entry{
			term:    term,
			meaning: genZSlang[term],
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}
	return &Detector{entries: entries}
}

// Detect returns the non-overlapping slang matches in text, sorted by
// position. Matching is case-insensitive on whole-word boundaries; once a
// span is claimed by a longer term, shorter terms cannot reuse it.
func (d *Detector) Detect(text string) []Match {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	claimed := make([]bool, len(lower))
	var matches []Match

	for _, e := range d.entries {
		for _, span := range e.pattern.FindAllStringIndex(lower, -1) {
			if overlaps(claimed, span[0], span[1]) {
				continue
			}
			for i := span[0]; i < span[1]; i++ {
				claimed[i] = true
			}
			matches = append(matches, Match{
				Term:    e.term,
				Meaning: e.meaning,
				Start:   span[0],
				End:     span[1],
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	return matches
}

// Measure computes usage statistics: density is matches per word.
func (d *Detector) Measure(text string) Metrics {
	matches := d.Detect(text)
	words := strings.Fields(text)

	unique := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		unique[m.Term] = struct{}{}
	}

	m := Metrics{Total: len(matches), Unique: len(unique)}
	if len(words) > 0 {
		m.Density = float64(len(matches)) / float64(len(words))
	}
	return m
}

func overlaps(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}
