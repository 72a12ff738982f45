package preset

import "strings"

// Filter keeps the lines matching q. Include terms apply only when mode is
// AND or OR; exclude terms always apply. Order and indices are preserved.
func Filter(lines []string, q Query, mode KeywordMode) []Line {
	if q.Empty() {
		out := make([]Line, len(lines))
		for i, text := range lines {
			out[i] = Line{Index: i, Text: text}
		}
		return out
	}
	include := lowerAll(q.Include)
	exclude := lowerAll(q.Exclude)
	applyInclude := len(include) > 0 && mode != KeywordOff

	out := make([]Line, 0, len(lines))
	for i, text := range lines {
		lower := strings.ToLower(text)
		if applyInclude && !matchInclude(lower, include, mode) {
			continue
		}
		if containsAny(lower, exclude) {
			continue
		}
		out = append(out, Line{Index: i, Text: text})
	}
	return out
}

func matchInclude(lower string, terms []string, mode KeywordMode) bool {
	if mode == KeywordOr {
		return containsAny(lower, terms)
	}
	for _, t := range terms {
		if !strings.Contains(lower, t) {
			return false
		}
	}
	return true
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}
