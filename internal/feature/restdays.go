package feature

// Rest holds the per-side rest days for one match.
type Rest struct {
	Home *int
	Away *int
}

// RestDays computes, per match and side, the whole days since that team's
// previous fixture. A team's first fixture yields nil. Both sides' gaps are
// taken before either side's last-played date advances, so two teams facing
// each other reset their rest clocks from the same shared match.
func RestDays(matches []Match) map[int64]Rest {
	ordered := sortedByDate(matches)
	out := make(map[int64]Rest, len(ordered))
	lastPlayed := make(map[string]int64, 32)

	for _, m := range ordered {
		r := Rest{}
		if prev, ok := lastPlayed[m.HomeTeam]; ok {
			r.Home = intPtr(daysBetween(prev, m.Date.Unix()))
		}
		if prev, ok := lastPlayed[m.AwayTeam]; ok {
			r.Away = intPtr(daysBetween(prev, m.Date.Unix()))
		}
		out[m.ID] = r

		lastPlayed[m.HomeTeam] = m.Date.Unix()
		lastPlayed[m.AwayTeam] = m.Date.Unix()
	}
	return out
}

func daysBetween(fromUnix, toUnix int64) int {
	return int((toUnix - fromUnix) / (24 * 60 * 60))
}
