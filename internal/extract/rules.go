// Package extract derives structured user facts from free conversation
// text. Detection is driven by a fixed, ordered rule table so individual
// patterns can be tested and extended without touching the scan logic.
package extract

import "regexp"

// Field identifies which user fact a rule detects.
type Field int

const (
	FieldName Field = iota
	FieldInterest
)

// Rule pairs a pattern with the fact field it populates. The first capture
// group carries the detected value.
type Rule struct {
	Name    string
	Field   Field
	Pattern *regexp.Regexp
}

// Rules is evaluated in order. Name rules scan user messages newest-first
// and stop at the first hit; interest rules scan oldest-first and collect
// every match.
var Rules = []Rule{
	{
		Name:    "name-statement",
		Field:   FieldName,
		Pattern: regexp.MustCompile(`(?i)(?:my name is|I'm|I am|call me) (\w+)`),
	},
	{
		Name:    "interest-verb",
		Field:   FieldInterest,
		Pattern: regexp.MustCompile(`(?i)I (?:like|love|enjoy|am interested in) (\w+(?:\s\w+){0,3})`),
	},
	{
		Name:    "interest-hobby",
		Field:   FieldInterest,
		Pattern: regexp.MustCompile(`(?i)My hobby is (\w+(?:\s\w+){0,3})`),
	},
	{
		Name:    "interest-passion",
		Field:   FieldInterest,
		Pattern: regexp.MustCompile(`(?i)I'm passionate about (\w+(?:\s\w+){0,3})`),
	},
}

func rulesFor(field Field) []Rule {
	var out []Rule
	for _, r := range Rules {
		if r.Field == field {
			out = append(out, r)
		}
	}
	return out
}
