package memory

import (
	"github.com/futalytics/brasileirao-features/internal/domain/teaminfo"
	"github.com/futalytics/brasileirao-features/internal/feature"
)

// SeedTeamInfos returns the clubs with known home cities and coordinates,
// used to populate dev-mode storage and to refresh the stored team table
// after a harvest.
func SeedTeamInfos() []teaminfo.Info {
	out := make([]teaminfo.Info, 0, len(feature.BuiltinTeamHomeCities))
	for name, city := range feature.BuiltinTeamHomeCities {
		info := teaminfo.Info{Name: name, City: city}
		if p, ok := feature.BuiltinTeamPoint(name); ok {
			info.Lat = p.Lat
			info.Lon = p.Lon
		}
		out = append(out, info)
	}
	return out
}
