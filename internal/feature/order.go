package feature

import "sort"

// sortedByDate returns the matches in stable ascending date order. Every
// stateful stage derives its own ordering from this; no stage assumes a
// previous stage already sorted the table.
func sortedByDate(matches []Match) []Match {
	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}
