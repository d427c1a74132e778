package api

import (
	"context"
	"fmt"
	"math/rand/v2"
)

const (
	maxSuggestions      = 5
	maxSuggestAttempts  = 100
	suggestionSuffixMin = 100
	suggestionSuffixMax = 999
)

// suggestNicknames generates up to 5 free nicknames by appending a random
// three-digit suffix, skipping candidates that already exist in the
// directory. Lookup errors end the search early; a short (or empty) list is
// acceptable.
func (h handler) suggestNicknames(ctx context.Context, nickname string) []string {
	seen := make(map[string]bool, maxSuggestions)
	suggestions := make([]string, 0, maxSuggestions)

	for attempts := 0; len(suggestions) < maxSuggestions && attempts < maxSuggestAttempts; attempts++ {
		suffix := suggestionSuffixMin + rand.IntN(suggestionSuffixMax-suggestionSuffixMin+1) //nolint:gosec // not for crypto
		candidate := fmt.Sprintf("%s%d", nickname, suffix)
		if seen[candidate] {
			continue
		}

		taken, err := h.store.NicknameExists(ctx, candidate)
		if err != nil {
			break
		}
		if !taken {
			seen[candidate] = true
			suggestions = append(suggestions, candidate)
		}
	}
	return suggestions
}
