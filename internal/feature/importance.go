package feature

// Importance holds the per-side importance scores for one match.
type Importance struct {
	Home *float64
	Away *float64
}

// ImportanceScores rates how much a fixture matters given each team's
// proximity to the qualification and relegation cutoffs in that round's
// standings. Any missing lookup (no standings, unparsable round, team or
// cutoff rank absent from the round) degrades that side to nil.
func ImportanceScores(matches []Match, standings []StandingsRow, cfg Config) map[int64]Importance {
	cfg = cfg.WithDefaults()
	out := make(map[int64]Importance, len(matches))
	if len(standings) == 0 {
		for _, m := range matches {
			out[m.ID] = Importance{}
		}
		return out
	}

	type roundTable struct {
		pointsByTeam map[string]float64
		pointsByRank map[int]float64
	}
	rounds := make(map[int]*roundTable)
	for _, row := range standings {
		table, ok := rounds[row.Round]
		if !ok {
			table = &roundTable{
				pointsByTeam: make(map[string]float64),
				pointsByRank: make(map[int]float64),
			}
			rounds[row.Round] = table
		}
		table.pointsByTeam[NormalizeTeamName(row.Team)] = float64(row.Points)
		table.pointsByRank[row.Position] = float64(row.Points)
	}

	score := func(team string, round int, ok bool) *float64 {
		if !ok {
			return nil
		}
		table, found := rounds[round]
		if !found {
			return nil
		}
		points, found := table.pointsByTeam[NormalizeTeamName(team)]
		if !found {
			return nil
		}
		g4Points, hasG4 := table.pointsByRank[cfg.G4Cutoff]
		z4Points, hasZ4 := table.pointsByRank[cfg.Z4Cutoff]
		if !hasG4 || !hasZ4 {
			return nil
		}
		gapG4 := g4Points - points
		if gapG4 < 0 {
			gapG4 = 0
		}
		gapZ4 := points - z4Points
		if gapZ4 < 0 {
			gapZ4 = 0
		}
		tension := 1 / (1 + gapG4 + gapZ4)
		stageFactor := 0.5
		if round >= cfg.HighRoundThreshold {
			stageFactor = 1.0
		}
		return floatPtr(round3(tension * stageFactor))
	}

	for _, m := range matches {
		round, ok := ParseRound(m.Round)
		out[m.ID] = Importance{
			Home: score(m.HomeTeam, round, ok),
			Away: score(m.AwayTeam, round, ok),
		}
	}
	return out
}

// ParseRound extracts the numeric round from a free-text token such as
// "Rodada 5" or "Regular Season - 12". A token with no digits is
// unparsable.
func ParseRound(token string) (int, bool) {
	n, seen := 0, false
	for _, r := range token {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			seen = true
		}
	}
	return n, seen
}
