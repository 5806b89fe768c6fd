// Package domain contains core business entities and rules.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AllCategories is the category sentinel that matches every quote.
const AllCategories = "all"

// Quote is a single quotation filed under a category.
// It has no knowledge of storage or remote representations.
type Quote struct {
	// Text is the quotation itself.
	Text string `json:"text"`

	// Category groups quotes for filtering.
	Category string `json:"category"`

	// ID is an opaque identifier assigned by a remote source, if any.
	// It never takes part in matching.
	ID string `json:"id,omitempty"`
}

// UnmarshalJSON accepts ids written either as strings or as JSON numbers,
// since collections exported before ids were normalized carry numeric ids.
func (q *Quote) UnmarshalJSON(data []byte) error {
	var wire struct {
		Text     string          `json:"text"`
		Category string          `json:"category"`
		ID       json.RawMessage `json:"id"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	id, err := decodeID(wire.ID)
	if err != nil {
		return err
	}

	*q = Quote{Text: wire.Text, Category: wire.Category, ID: id}

	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %w", err)
	}

	return n.String(), nil
}

// Key identifies a quote for matching across sources.
type Key struct {
	Text     string
	Category string
}

// Key returns the (text, category) identity of the quote.
func (q Quote) Key() Key {
	return Key{Text: q.Text, Category: q.Category}
}

// Validate checks the invariants enforced on manually added quotes.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "must not be empty")
	}

	if strings.TrimSpace(q.Category) == "" {
		return NewValidationError("category", "must not be empty")
	}

	return nil
}

// NewQuote builds a quote from user input, trimming surrounding whitespace
// and validating the result.
func NewQuote(text, category string) (Quote, error) {
	q := Quote{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}

	if err := q.Validate(); err != nil {
		return Quote{}, err
	}

	return q, nil
}

// SeedQuotes returns the collection used when nothing has been persisted yet.
func SeedQuotes() []Quote {
	return []Quote{
		{Text: "Stay hungry, stay foolish.", Category: "Inspiration"},
		{Text: "Life is short, smile while you still have teeth.", Category: "Humor"},
	}
}

// Categories returns the category index of quotes: the AllCategories
// sentinel followed by every distinct category in first-seen order.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	categories := make([]string, 0, len(quotes)+1)
	categories = append(categories, AllCategories)

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}

	return categories
}

// HasCategory reports whether category is AllCategories or appears in quotes.
func HasCategory(quotes []Quote, category string) bool {
	if category == AllCategories {
		return true
	}

	for _, q := range quotes {
		if q.Category == category {
			return true
		}
	}

	return false
}

// Clone returns a copy of quotes that shares no backing array.
func Clone(quotes []Quote) []Quote {
	if quotes == nil {
		return []Quote{}
	}

	out := make([]Quote, len(quotes))
	copy(out, quotes)

	return out
}
