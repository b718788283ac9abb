package sanitizer

import (
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// NormalizeCategory only trims and upper-cases; anything else in the value is
// left for validation to reject.
func NormalizeCategory(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		strings.ToUpper,
	}
	return p.Apply(input)
}

func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// SanitizeSlice applies strategy to every value, dropping empties and duplicates.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SplitList splits a comma separated query value and sanitizes each entry.
func SplitList(raw string, strategy Strategy) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return SanitizeSlice(strings.Split(raw, ","), strategy)
}
