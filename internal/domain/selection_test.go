package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuotes() []Quote {
	return []Quote{
		{Text: "Stay hungry, stay foolish.", Category: "Inspiration"},
		{Text: "Life is short, smile while you still have teeth.", Category: "Humor"},
		{Text: "I am on a seafood diet.", Category: "humor"},
		{Text: "Fortune favours the bold.", Category: "Inspiration"},
	}
}

func TestParseCategoryMatch(t *testing.T) {
	m, err := ParseCategoryMatch("FOLD")
	require.NoError(t, err)
	assert.Equal(t, MatchFold, m)

	m, err = ParseCategoryMatch("")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	_, err = ParseCategoryMatch("fuzzy")
	assert.True(t, IsValidation(err))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		category string
		match    CategoryMatch
		want     int
	}{
		{name: "all returns everything", category: AllCategories, match: MatchExact, want: 4},
		{name: "exact match", category: "Humor", match: MatchExact, want: 1},
		{name: "case-insensitive match", category: "Humor", match: MatchFold, want: 2},
		{name: "unknown category", category: "Science", match: MatchExact, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleQuotes(), tt.category, tt.match)
			assert.Len(t, got, tt.want)

			for _, q := range got {
				if tt.category != AllCategories {
					assert.True(t, tt.match.Matches(tt.category, q.Category))
				}
			}
		})
	}
}

func TestFilter_DoesNotAlias(t *testing.T) {
	quotes := sampleQuotes()
	got := Filter(quotes, AllCategories, MatchExact)
	got[0].Text = "changed"

	assert.Equal(t, "Stay hungry, stay foolish.", quotes[0].Text)
}

func TestSelect(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))

	t.Run("only matching quotes are drawn", func(t *testing.T) {
		for range 50 {
			q, err := Select(sampleQuotes(), "Inspiration", MatchExact, rnd)
			require.NoError(t, err)
			assert.Equal(t, "Inspiration", q.Category)
		}
	})

	t.Run("all draws from the whole store", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 200 {
			q, err := Select(sampleQuotes(), AllCategories, MatchExact, rnd)
			require.NoError(t, err)
			seen[q.Text] = true
		}

		assert.Len(t, seen, len(sampleQuotes()))
	})

	t.Run("empty category is not found", func(t *testing.T) {
		_, err := Select(sampleQuotes(), "Science", MatchExact, rnd)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoQuotes)
		assert.True(t, IsNotFound(err))
	})

	t.Run("empty store is not found", func(t *testing.T) {
		_, err := Select(nil, AllCategories, MatchExact, rnd)
		assert.ErrorIs(t, err, ErrNoQuotes)
	})

	t.Run("nil source falls back to global generator", func(t *testing.T) {
		q, err := Select(sampleQuotes(), "Humor", MatchExact, nil)
		require.NoError(t, err)
		assert.Equal(t, "Humor", q.Category)
	})
}

func TestSelect_SeededIsDeterministic(t *testing.T) {
	first, err := Select(sampleQuotes(), AllCategories, MatchExact, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)

	second, err := Select(sampleQuotes(), AllCategories, MatchExact, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
