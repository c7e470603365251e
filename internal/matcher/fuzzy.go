// file: internal/matcher/fuzzy.go
// version: 2.0.0
// guid: 1e05058e-458f-4999-9d71-8d324bbcbabf

package matcher

import (
	"strings"
	"unicode"
)

// LevenshteinDistance computes the case-insensitive edit distance between two
// strings, counting runes rather than bytes.
func LevenshteinDistance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two-row DP
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// ScoreTitle scores how well query matches a book title. Returns 0-100.
func ScoreTitle(query, title string) int {
	q := normalize(query)
	t := normalize(title)
	if q == "" || t == "" {
		return 0
	}

	if q == t {
		return 100
	}

	score := 0
	if strings.HasPrefix(t, q) {
		score = 90
	}

	if strings.Contains(t, q) {
		// Shorter titles are more specific matches
		ratio := float64(len([]rune(q))) / float64(len([]rune(t)))
		score = max(score, 60+int(ratio*25))
	}

	words := strings.Fields(t)
	for _, w := range words {
		if strings.HasPrefix(w, q) {
			score = max(score, 80)
			break
		}
	}

	score = max(score, similarity(q, t, 50))
	for _, w := range words {
		score = max(score, similarity(q, w, 70))
	}
	return score
}

// similarity maps edit distance onto 0..weight.
func similarity(a, b string, weight int) int {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	s := 1.0 - float64(LevenshteinDistance(a, b))/float64(longest)
	if s < 0 {
		return 0
	}
	return int(s * float64(weight))
}

// normalize lowercases and strips everything but letters, digits and spaces.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
