package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// NoQuotesMessage is shown when a category has nothing to display.
const NoQuotesMessage = "No quotes available for this category."

// CategoryMatch decides how a selected category is compared to a quote's.
type CategoryMatch string

const (
	// MatchExact compares categories byte for byte.
	MatchExact CategoryMatch = "exact"

	// MatchFold compares categories case-insensitively.
	MatchFold CategoryMatch = "fold"
)

// ParseCategoryMatch converts a configuration value to a CategoryMatch.
func ParseCategoryMatch(s string) (CategoryMatch, error) {
	switch CategoryMatch(strings.ToLower(s)) {
	case MatchExact, "":
		return MatchExact, nil
	case MatchFold:
		return MatchFold, nil
	default:
		return "", NewValidationErrorWithValue("category_match", "must be one of: exact fold", s)
	}
}

// Matches reports whether a quote filed under got satisfies the selected
// category want.
func (m CategoryMatch) Matches(want, got string) bool {
	if m == MatchFold {
		return strings.EqualFold(want, got)
	}

	return want == got
}

// Filter narrows quotes to the selected category. AllCategories returns
// every quote. The result never aliases the input.
func Filter(quotes []Quote, category string, match CategoryMatch) []Quote {
	if category == AllCategories {
		return Clone(quotes)
	}

	out := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if match.Matches(category, q.Category) {
			out = append(out, q)
		}
	}

	return out
}

// Select picks one quote uniformly at random from the quotes matching
// category. It returns ErrNoQuotes when nothing matches.
func Select(quotes []Quote, category string, match CategoryMatch, rnd *rand.Rand) (Quote, error) {
	candidates := Filter(quotes, category, match)
	if len(candidates) == 0 {
		return Quote{}, fmt.Errorf("category %q: %w", category, ErrNoQuotes)
	}

	var idx int
	if rnd != nil {
		idx = rnd.IntN(len(candidates))
	} else {
		idx = rand.IntN(len(candidates)) //nolint:gosec // display randomness only
	}

	return candidates[idx], nil
}
