package docstore

import (
	"strings"

	"github.com/agext/levenshtein"
)

// suggestThreshold is the minimum similarity for a "did you mean" hint.
const suggestThreshold = 0.5

// Suggest returns the cached identifier closest to the given one, for error
// messages when a caller references an identifier that is not loaded.
// Returns "" when the store is empty or nothing is similar enough.
func (s *Store) Suggest(identifier string) string {
	query := strings.ToLower(identifier)

	best := ""
	bestScore := 0.0
	for _, id := range s.List() {
		candidate := strings.ToLower(id)

		dist := levenshtein.Distance(query, candidate, nil)
		maxLen := len(query)
		if len(candidate) > maxLen {
			maxLen = len(candidate)
		}
		if maxLen == 0 {
			continue
		}
		score := 1.0 - float64(dist)/float64(maxLen)

		// Substring matches beat raw edit distance for long URLs.
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			if sub := 0.9; sub > score {
				score = sub
			}
		}

		if score > bestScore {
			best, bestScore = id, score
		}
	}

	if bestScore < suggestThreshold {
		return ""
	}
	return best
}
