package feature

import "strings"

// Travel holds the per-side distances for one match.
type Travel struct {
	Home *float64
	Away *float64
}

// TravelDistances computes the kilometers each side travelled to the match
// city. A team playing in its own home city gets exactly 0 whenever the
// city field names that team's city, even if one of the coordinates is
// unknown. Otherwise both the team and the city must resolve, or the value
// stays nil.
func TravelDistances(matches []Match, overrides []TeamCoordinate, cityStates map[string]string) map[int64]Travel {
	resolver := NewCoordinateResolver(overrides, cityStates)
	out := make(map[int64]Travel, len(matches))

	for _, m := range matches {
		cityHint, _ := resolver.SplitCity(m.City)
		cityPoint, cityOK := resolver.City(m.City)

		side := func(team string) *float64 {
			teamKey := NormalizeTeamName(team)
			if cityHint != "" && teamKey != "" && strings.Contains(NormalizeTeamName(cityHint), teamKey) {
				return floatPtr(0)
			}
			teamPoint, teamOK := resolver.Team(team)
			if !teamOK || !cityOK {
				return nil
			}
			return floatPtr(HaversineKm(teamPoint, cityPoint))
		}

		out[m.ID] = Travel{Home: side(m.HomeTeam), Away: side(m.AwayTeam)}
	}
	return out
}
