package stats

import (
	"sort"

	"github.com/verte-zerg/kakite/internal/model"
)

// TopCharsByAttempts returns the n most practised characters.
func TopCharsByAttempts(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Attempts == sorted[j].Attempts {
			return sorted[i].Char < sorted[j].Char
		}
		return sorted[i].Attempts > sorted[j].Attempts
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Char
	}
	return out
}
