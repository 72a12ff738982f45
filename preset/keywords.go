package preset

import (
	"regexp"
	"strings"
)

// Query is a parsed keyword string.
type Query struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// Empty reports whether the query has no terms at all.
func (q Query) Empty() bool {
	return len(q.Include) == 0 && len(q.Exclude) == 0
}

// A token is a quoted phrase or a bare word, optionally prefixed by '-'.
// Separators include Unicode spaces such as U+3000 and U+00A0.
var keywordToken = regexp.MustCompile(`(-?)"([^"]+)"|(-?)([^,\s\p{Z}\x{85}]+)`)

// ParseKeywords splits a query on commas and whitespace. Quoted phrases keep
// their spaces; a leading '-' turns a term into an exclusion.
//
//	front, "low-angle shot"      -> include [front, low-angle shot]
//	front -wide -medium          -> include [front], exclude [wide, medium]
//	"front view" -"medium shot"  -> include [front view], exclude [medium shot]
func ParseKeywords(query string) Query {
	var q Query
	if strings.TrimSpace(query) == "" {
		return q
	}
	for _, m := range keywordToken.FindAllStringSubmatch(query, -1) {
		term := m[2]
		if term == "" {
			term = m[4]
		}
		if term == "" {
			continue
		}
		if m[1] == "-" || m[3] == "-" {
			q.Exclude = append(q.Exclude, term)
		} else {
			q.Include = append(q.Include, term)
		}
	}
	return q
}
