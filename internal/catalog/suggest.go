package catalog

import (
	"strings"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// MaxSuggestions bounds the completion candidates returned for one partial
// input.
const MaxSuggestions = 8

// Suggest proposes subject-area completion candidates for a partial input.
// Digits are stripped from the partial first; an input that strips to
// nothing yields no suggestions. Matches are case-insensitive substring
// matches, distinct, in first-encountered order across the record set.
func Suggest(records []domain.Journal, partial string) []string {
	partial = stripDigits(partial)
	partial = strings.ToLower(strings.TrimSpace(partial))
	if partial == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var suggestions []string
	for _, j := range records {
		for _, area := range j.SubjectAreas {
			if _, ok := seen[area]; ok {
				continue
			}
			seen[area] = struct{}{}
			if strings.Contains(strings.ToLower(area), partial) {
				suggestions = append(suggestions, area)
				if len(suggestions) == MaxSuggestions {
					return suggestions
				}
			}
		}
	}
	return suggestions
}

func stripDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
