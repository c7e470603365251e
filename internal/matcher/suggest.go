// file: internal/matcher/suggest.go
// version: 1.0.0
// guid: 4377b968-fd02-4f4b-8c13-1aec443a8abd

// Package matcher ranks catalog books against free-text title queries.
package matcher

import (
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jdfalk/library-catalog/internal/models"
)

// DefaultMinScore is the score a title needs when it is not a subsequence match.
const DefaultMinScore = 40

// Suggestion is a book ranked against a query.
type Suggestion struct {
	Book  models.Book
	Score int
}

// SuggestBooks ranks books by how well their titles match query, best first.
// Titles holding the query's characters in order (accent and case folded) are
// always kept; other titles must score at least minScore. limit <= 0 returns
// every match.
func SuggestBooks(query string, books []models.Book, limit, minScore int) []Suggestion {
	if normalize(query) == "" {
		return nil
	}

	var out []Suggestion
	for _, b := range books {
		score := ScoreTitle(query, b.Title)
		if fuzzy.MatchNormalizedFold(query, b.Title) {
			// Subsequence matches outrank pure edit-distance matches
			score = max(score, minScore+1)
		} else if score < minScore {
			continue
		}
		out = append(out, Suggestion{Book: b, Score: score})
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return b.Score - a.Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
