package freetext

import (
	"regexp"
	"strings"
)

// personRule is one step of the name-extraction cascade. The regex must end
// with $ and capture the candidate name in group 1 (group 2 for the
// duplicated-word rule). accept vetoes candidates after the regex matched.
type personRule struct {
	name   string
	re     *regexp.Regexp
	accept func(m []string) (string, bool)
}

// The cascade order is fixed. Person names compete with room and route
// descriptions for the tail of the string, so each rule is tried in turn and
// the first hit both names the person and consumes the matched tail.
var personRules = []personRule{
	{
		// (a) lower-case two-word tail, an upstream artifact for hand-typed names.
		name: "lowercase-pair",
		re:   regexp.MustCompile(`\s([a-z]+ [a-z]+)$`),
		accept: func(m []string) (string, bool) {
			if anyStructural(m[1]) {
				return "", false
			}
			return m[1], true
		},
	},
	{
		// (b) "Name Name": the upstream source repeats single-word names.
		name: "duplicated-word",
		re:   regexp.MustCompile(`\s([A-Za-z]+) ([A-Za-z]+)$`),
		accept: func(m []string) (string, bool) {
			if !strings.EqualFold(m[1], m[2]) || isStructural(m[1]) {
				return "", false
			}
			return m[1], true
		},
	},
	{
		// (c) trailing number then one capitalized word.
		name: "count-single-name",
		re:   regexp.MustCompile(`\s\d+ ([A-Z][A-Za-z]+)$`),
		accept: func(m []string) (string, bool) {
			if isStructural(m[1]) {
				return "", false
			}
			return m[1], true
		},
	},
	{
		// (d) trailing number then a multi-word capitalized name.
		name: "count-multi-name",
		re:   regexp.MustCompile(`\s\d+ ([A-Z][A-Za-z]+(?: [A-Z][A-Za-z]+)+)$`),
		accept: func(m []string) (string, bool) {
			if anyStructural(m[1]) {
				return "", false
			}
			return m[1], true
		},
	},
	{
		// (e) all-caps multi-word tail.
		name: "allcaps-tail",
		re:   regexp.MustCompile(`\s([A-Z]{2,}(?: [A-Z]{2,})+)$`),
		accept: func(m []string) (string, bool) {
			if anyStructural(m[1]) || len(m[1]) < 6 {
				return "", false
			}
			return m[1], true
		},
	},
}

// Person extracts a person name from the tail of a description string and
// returns the name plus the remaining text with the matched tail removed.
// When no rule matches, the name is empty and the input comes back unchanged.
func Person(s string) (name, remainder string) {
	s = strings.TrimSpace(s)
	for _, rule := range personRules {
		m := rule.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		candidate, ok := rule.accept(m)
		if !ok {
			continue
		}
		rest := strings.TrimSpace(strings.TrimSuffix(s, m[0]))
		return candidate, rest
	}
	return "", s
}
