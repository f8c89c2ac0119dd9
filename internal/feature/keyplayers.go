package feature

import "sort"

// KeyPlayerSides holds the per-side ranked player lists for one match.
type KeyPlayerSides struct {
	Home []KeyPlayer
	Away []KeyPlayer
}

// KeyPlayersByMatch ranks each side's most productive players over the
// team's last `window` matches strictly before the fixture. Score is goals
// plus assists; ties break on goals, then player id so output is stable
// across runs. A side with no qualifying history gets an empty list.
func KeyPlayersByMatch(matches []Match, stats []PlayerStat, window, topN int) map[int64]KeyPlayerSides {
	cfg := Config{Window: window, TopN: topN}.WithDefaults()
	window, topN = cfg.Window, cfg.TopN

	ordered := sortedByDate(matches)
	teamMatches := make(map[string][]int64, 32)
	matchDates := make(map[int64]int64, len(ordered))
	for _, m := range ordered {
		teamMatches[m.HomeTeam] = append(teamMatches[m.HomeTeam], m.ID)
		teamMatches[m.AwayTeam] = append(teamMatches[m.AwayTeam], m.ID)
		matchDates[m.ID] = m.Date.Unix()
	}

	statsByTeam := make(map[string][]PlayerStat, len(teamMatches))
	for _, s := range stats {
		key := NormalizeTeamName(s.Team)
		statsByTeam[key] = append(statsByTeam[key], s)
	}

	out := make(map[int64]KeyPlayerSides, len(matches))
	for _, m := range matches {
		out[m.ID] = KeyPlayerSides{
			Home: rankRecentPlayers(m, m.HomeTeam, teamMatches, matchDates, statsByTeam, window, topN),
			Away: rankRecentPlayers(m, m.AwayTeam, teamMatches, matchDates, statsByTeam, window, topN),
		}
	}
	return out
}

func rankRecentPlayers(
	m Match,
	team string,
	teamMatches map[string][]int64,
	matchDates map[int64]int64,
	statsByTeam map[string][]PlayerStat,
	window, topN int,
) []KeyPlayer {
	matchDate := m.Date.Unix()
	history := make([]int64, 0, window)
	for _, id := range teamMatches[team] {
		if matchDates[id] < matchDate {
			history = append(history, id)
		}
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) == 0 {
		return []KeyPlayer{}
	}

	recent := make(map[int64]struct{}, len(history))
	for _, id := range history {
		recent[id] = struct{}{}
	}

	totals := make(map[int64]*KeyPlayer)
	for _, s := range statsByTeam[NormalizeTeamName(team)] {
		if _, ok := recent[s.MatchID]; !ok {
			continue
		}
		entry, ok := totals[s.PlayerID]
		if !ok {
			entry = &KeyPlayer{PlayerID: s.PlayerID}
			totals[s.PlayerID] = entry
		}
		entry.Goals += s.Goals
		entry.Assists += s.Assists
	}
	if len(totals) == 0 {
		return []KeyPlayer{}
	}

	ranked := make([]KeyPlayer, 0, len(totals))
	for _, entry := range totals {
		entry.Score = entry.Goals + entry.Assists
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Goals != ranked[j].Goals {
			return ranked[i].Goals > ranked[j].Goals
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
