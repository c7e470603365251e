// file: internal/matcher/suggest_test.go
// version: 1.0.0
// guid: 9ebac93c-05ca-4b87-8af9-c75f5780657e

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/library-catalog/internal/models"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"ABC", "abc", 0},
		{"memórias", "memorias", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		query, title string
		lo, hi       int
	}{
		{"Dom Casmurro", "Dom Casmurro", 100, 100},
		{"dom casmurro", "Dom Casmurro", 100, 100},
		{"Dom", "Dom Casmurro", 85, 95},
		{"Casmurro", "Dom Casmurro", 60, 90},
		{"Dom Casmuro", "Dom Casmurro", 30, 60},
		{"xyzzy", "Dom Casmurro", 0, 20},
		{"", "Dom Casmurro", 0, 0},
		{"Dom", "", 0, 0},
	}
	for _, tt := range tests {
		score := ScoreTitle(tt.query, tt.title)
		assert.GreaterOrEqual(t, score, tt.lo, "%q vs %q", tt.query, tt.title)
		assert.LessOrEqual(t, score, tt.hi, "%q vs %q", tt.query, tt.title)
	}
}

func TestSuggestBooks(t *testing.T) {
	books := []models.Book{
		{ID: "1", Title: "Dom Casmurro"},
		{ID: "2", Title: "Memórias Póstumas de Brás Cubas"},
		{ID: "3", Title: "O Cortiço"},
		{ID: "4", Title: "Dom Quixote"},
	}

	got := SuggestBooks("dom", books, 0, DefaultMinScore)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"1", "4"}, []string{got[0].Book.ID, got[1].Book.ID})

	got = SuggestBooks("memorias", books, 0, DefaultMinScore)
	require.NotEmpty(t, got)
	assert.Equal(t, "2", got[0].Book.ID)

	got = SuggestBooks("Dom Casmurro", books, 1, DefaultMinScore)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Book.ID)
	assert.Equal(t, 100, got[0].Score)

	assert.Empty(t, SuggestBooks("   ", books, 5, DefaultMinScore))
	assert.Empty(t, SuggestBooks("zzzz", books, 5, DefaultMinScore))
}
