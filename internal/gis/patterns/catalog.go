// Package patterns holds the recognizer catalog used by the query parser.
// The catalog is pure data: recognizer sets can be audited or extended here
// without touching parsing logic.
package patterns

import (
	"regexp"
	"strings"
)

// Pattern is a single case-insensitive recognizer. Source is the literal
// pattern string as listed in the catalog; the parser reports Source (not the
// matched text) for first-match-wins categories.
type Pattern struct {
	Source string
	re     *regexp.Regexp
}

func mustPattern(source string) Pattern {
	return Pattern{
		Source: source,
		re:     regexp.MustCompile("(?i)" + source),
	}
}

// Match reports whether the pattern matches anywhere in the text.
func (p Pattern) Match(text string) bool {
	return p.re.MatchString(text)
}

// Find returns the matched substring in its original casing, or "" when the
// pattern does not match.
func (p Pattern) Find(text string) string {
	return p.re.FindString(text)
}

// Label normalizes an object pattern into its object-type label by stripping
// the optional-plural marker and regex escape characters, e.g. `school[s]?`
// becomes `school`.
func (p Pattern) Label() string {
	s := strings.ReplaceAll(p.Source, "[s]?", "")
	return strings.ReplaceAll(s, `\`, "")
}

// Catalog groups the recognizer patterns into the four categories the parser
// consumes. Patterns within a category are tried in listed order; the first
// match wins (no scoring, no overlap resolution).
type Catalog struct {
	SpatialOperations []Pattern
	Objects           []Pattern
	Locations         []Pattern
	AnalysisTypes     []Pattern
}

// Default returns the standard catalog. Constructed once at startup and
// treated as immutable thereafter.
func Default() *Catalog {
	return &Catalog{
		SpatialOperations: []Pattern{
			mustPattern(`within\s+(\d+(?:\.\d+)?)\s*(km|m|miles?)`),
			mustPattern(`near|close to|around`),
			mustPattern(`intersect|overlap|contain`),
			mustPattern(`buffer|distance`),
		},
		Objects: []Pattern{
			mustPattern(`school[s]?`),
			mustPattern(`hospital[s]?`),
			mustPattern(`park[s]?`),
			mustPattern(`road[s]?`),
			mustPattern(`building[s]?`),
			mustPattern(`river[s]?`),
			mustPattern(`forest[s]?`),
			mustPattern(`city|cities`),
		},
		Locations: []Pattern{
			mustPattern(`Mumbai`),
			mustPattern(`Delhi`),
			mustPattern(`Bangalore`),
			mustPattern(`Chennai`),
			mustPattern(`Kolkata`),
			mustPattern(`India`),
			mustPattern(`district`),
			mustPattern(`state`),
			mustPattern(`village`),
		},
		AnalysisTypes: []Pattern{
			mustPattern(`calculate|compute`),
			mustPattern(`identify|find`),
			mustPattern(`generate|create`),
			mustPattern(`classify|categorize`),
			mustPattern(`density`),
			mustPattern(`area`),
			mustPattern(`count`),
		},
	}
}
