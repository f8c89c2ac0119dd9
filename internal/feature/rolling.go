package feature

import "sort"

// Rolling holds the per-side trailing-window means for one match.
type Rolling struct {
	Home RollingMetrics
	Away RollingMetrics
}

type sideObservation struct {
	matchID int64
	team    string
	date    int64
	home    bool
	metrics [4]*float64
}

// Metric order inside sideObservation.metrics.
const (
	metricGoalsFor = iota
	metricGoalsAgainst
	metricXGFor
	metricXGAgainst
	metricCount
)

// RollingStats computes leakage-free trailing means of goals and expected
// goals, for and against, per team. Each match contributes one observation
// per side; per team the mean covers up to `window` observations strictly
// before the current one. Nil metric values occupy a window slot but are
// excluded from the mean; a window with no usable values yields nil, never
// zero.
func RollingStats(matches []Match, window int) map[int64]Rolling {
	if window <= 0 {
		window = DefaultConfig().Window
	}

	obs := make([]sideObservation, 0, len(matches)*2)
	for _, m := range matches {
		obs = append(obs, sideObservation{
			matchID: m.ID,
			team:    m.HomeTeam,
			date:    m.Date.Unix(),
			home:    true,
			metrics: [4]*float64{
				metricGoalsFor:     intMetric(m.HomeGoals),
				metricGoalsAgainst: intMetric(m.AwayGoals),
				metricXGFor:        m.HomeXG,
				metricXGAgainst:    m.AwayXG,
			},
		})
		obs = append(obs, sideObservation{
			matchID: m.ID,
			team:    m.AwayTeam,
			date:    m.Date.Unix(),
			home:    false,
			metrics: [4]*float64{
				metricGoalsFor:     intMetric(m.AwayGoals),
				metricGoalsAgainst: intMetric(m.HomeGoals),
				metricXGFor:        m.AwayXG,
				metricXGAgainst:    m.HomeXG,
			},
		})
	}

	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].team != obs[j].team {
			return obs[i].team < obs[j].team
		}
		return obs[i].date < obs[j].date
	})

	out := make(map[int64]Rolling, len(matches))
	var history [][4]*float64

	flushTeam := func() { history = history[:0] }

	for i, o := range obs {
		if i == 0 || obs[i-1].team != o.team {
			flushTeam()
		}

		var means [4]*float64
		start := len(history) - window
		if start < 0 {
			start = 0
		}
		for metric := 0; metric < metricCount; metric++ {
			sum, n := 0.0, 0
			for _, prior := range history[start:] {
				if v := prior[metric]; v != nil {
					sum += *v
					n++
				}
			}
			if n > 0 {
				means[metric] = floatPtr(sum / float64(n))
			}
		}

		r := out[o.matchID]
		m := RollingMetrics{
			GoalsFor:     means[metricGoalsFor],
			GoalsAgainst: means[metricGoalsAgainst],
			XGFor:        means[metricXGFor],
			XGAgainst:    means[metricXGAgainst],
		}
		if o.home {
			r.Home = m
		} else {
			r.Away = m
		}
		out[o.matchID] = r

		history = append(history, o.metrics)
	}
	return out
}

func intMetric(v *int) *float64 {
	if v == nil {
		return nil
	}
	return floatPtr(float64(*v))
}
