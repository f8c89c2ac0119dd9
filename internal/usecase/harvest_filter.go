package usecase

import (
	"strings"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/feature"
)

// cupPhaseOrder lists Copa do Brasil phases from first qualifying round to
// final. The first two phases pit top-flight sides against amateur clubs
// and are not worth storing.
var cupPhaseOrder = []string{
	"1st",
	"2nd",
	"3rd",
	"round of 32",
	"round of 16",
	"quarter",
	"semi",
	"final",
}

const copaMinPhaseIndex = 2

var topFlightTeams = buildTopFlightSet()

// teamAliases maps provider spellings onto the canonical club names.
var teamAliases = map[string]string{
	"atletico pr":         "athletico pr",
	"atletico paranaense": "athletico pr",
	"bragantino":          "red bull bragantino",
}

func buildTopFlightSet() map[string]struct{} {
	set := make(map[string]struct{}, len(feature.BuiltinTeamHomeCities))
	for name := range feature.BuiltinTeamHomeCities {
		set[feature.NormalizeTeamName(name)] = struct{}{}
	}
	return set
}

func isTopFlightTeam(name string) bool {
	key := feature.NormalizeTeamName(name)
	if _, ok := topFlightTeams[key]; ok {
		return true
	}
	if alias, ok := teamAliases[key]; ok {
		_, found := topFlightTeams[feature.NormalizeTeamName(alias)]
		return found
	}
	return false
}

func allowedCopaRound(round string) bool {
	text := strings.ToLower(round)
	for idx, label := range cupPhaseOrder {
		if strings.Contains(text, label) {
			return idx >= copaMinPhaseIndex
		}
	}
	return false
}

// keepFixture decides whether a fetched fixture belongs in storage. The
// national championship is kept wholesale; cup and continental fixtures
// only when a top-flight side is involved.
func keepFixture(competition string, f ExternalFixture) bool {
	switch competition {
	case match.CompetitionSerieA:
		return true
	case match.CompetitionCopaDoBrasil:
		if !allowedCopaRound(f.Round) {
			return false
		}
		return isTopFlightTeam(f.HomeTeam) || isTopFlightTeam(f.AwayTeam)
	case match.CompetitionLibertadores:
		return isTopFlightTeam(f.HomeTeam) || isTopFlightTeam(f.AwayTeam)
	default:
		return false
	}
}
