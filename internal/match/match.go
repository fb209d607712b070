// Package match holds the pure text-matching and selection helpers shared by
// assistant tools: a weighted token-overlap scorer for catalog lookups, an
// exclusion-aware random pick, and the security-answer comparison.
package match

import (
	"math/rand"
	"strings"
)

// Field is one weighted searchable field of a candidate record. A Text field
// earns its weight for every query token that appears anywhere inside it; a
// Terms field only for tokens exactly equal to one of its terms. Matching is
// case-insensitive on both sides.
type Field struct {
	Weight int
	Text   string
	Terms  []string
}

// Score sums field weights over the query's whitespace-separated tokens.
func Score(query string, fields []Field) int {
	score := 0
	for _, token := range strings.Fields(strings.ToLower(query)) {
		for _, f := range fields {
			if f.Weight <= 0 {
				continue
			}
			if f.Text != "" && strings.Contains(strings.ToLower(f.Text), token) {
				score += f.Weight
			}
			for _, term := range f.Terms {
				if strings.ToLower(term) == token {
					score += f.Weight
					break
				}
			}
		}
	}
	return score
}

// Best scores n candidates against the query and returns the index of the
// highest-scoring one. Ties keep the earliest candidate. Returns -1 when no
// candidate scores above zero, so callers can give a spoken fallback instead
// of a wrong answer.
func Best(query string, n int, fields func(i int) []Field) int {
	best := -1
	bestScore := 0
	for i := 0; i < n; i++ {
		if score := Score(query, fields(i)); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// PickExcluding returns a random element of ids, skipping exclude as long as
// at least one other candidate remains. When exclude is the only candidate it
// stays eligible rather than leaving the caller empty-handed. An empty slice
// returns "".
func PickExcluding(ids []string, exclude string) string {
	if len(ids) == 0 {
		return ""
	}
	pool := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		pool = ids
	}
	return pool[rand.Intn(len(pool))]
}

// SecretMatches reports whether a caller-provided answer matches the stored
// secret. Both sides are whitespace-trimmed and compared case-insensitively.
// An empty stored secret never matches anything, so a record with missing
// verification data cannot accidentally pass.
func SecretMatches(provided, stored string) bool {
	expected := strings.ToLower(strings.TrimSpace(stored))
	if expected == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(provided)) == expected
}
