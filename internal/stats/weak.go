package stats

import "github.com/verte-zerg/kakite/internal/model"

// SelectWeakChars selects the characters with the lowest mean score.
// Characters without attempts are never weak. top <= 0 selects all.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Attempts > 0 && agg.Char != "" {
			candidates = append(candidates, agg)
		}
	}
	sortWeakestFirst(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		weakSet[agg.Char] = struct{}{}
	}
	return weakSet
}
